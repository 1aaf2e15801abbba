package repository

import (
	"context"

	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
)

// Read methods return (nil, nil) when the row does not exist. Any failure to
// reach the store is returned as *models.StoreUnavailableError.

// Store is the capability every store adapter exposes to the cross-store core.
type Store interface {
	Name() models.StoreName
	Ping(ctx context.Context) error
	// Exists is a primary-key existence test for a kind owned by this store.
	Exists(ctx context.Context, kind models.EntityKind, id int64) (bool, error)
	// Reset deletes every row the store owns. Used by the seeder.
	Reset(ctx context.Context) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	BatchInsert(ctx context.Context, users []*models.User) (int, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) (bool, error)
	Refs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	BatchInsert(ctx context.Context, posts []*models.Post) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) (bool, error)
	Refs(ctx context.Context, ids []int64) (map[int64]models.PostRef, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	BatchInsert(ctx context.Context, comments []*models.Comment) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	List(ctx context.Context) ([]*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Count(ctx context.Context) (int, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	BatchInsert(ctx context.Context, tags []*models.Tag) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id int64) (bool, error)
	Popular(ctx context.Context, limit int) ([]models.PopularTag, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// PostTagRepository defines the interface for the post-tag association bridge
type PostTagRepository interface {
	// Insert adds the pair; it reports false without error when the pair already exists.
	Insert(ctx context.Context, link models.PostTag) (bool, error)
	InsertMany(ctx context.Context, links []models.PostTag) (int, error)
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	DeleteByTag(ctx context.Context, tagID int64) (int64, error)
	TagsForPost(ctx context.Context, postID int64) ([]models.Tag, error)
	PostIDsForTag(ctx context.Context, tagID int64) ([]int64, error)
	CountByTag(ctx context.Context, tagID int64) (int, error)
	Count(ctx context.Context) (int, error)
}

// StoreA owns users and posts
type StoreA interface {
	Store
	Users() UserRepository
	Posts() PostRepository
}

// StoreB owns comments, tags and the post-tag bridge
type StoreB interface {
	Store
	Comments() CommentRepository
	Tags() TagRepository
	PostTags() PostTagRepository
}

// Stores holds both independently managed stores
type Stores struct {
	A StoreA
	B StoreB
}

// New creates both store adapters from their own connections
func New(dbA, dbB *database.DB) *Stores {
	return &Stores{
		A: NewStoreA(dbA),
		B: NewStoreB(dbB),
	}
}
