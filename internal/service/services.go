package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/config"
	"github.com/hybrid-blog-api/internal/crossstore"
	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// UserService defines the use-cases for users (Store A)
type UserService interface {
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.UserView, error)
	List(ctx context.Context) ([]models.UserView, error)
	Get(ctx context.Context, id int64) (*models.UserView, error)
	GetWithComments(ctx context.Context, id int64) (*models.UserWithComments, error)
	Update(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.UserView, error)
	Delete(ctx context.Context, id int64) error
}

// PostService defines the use-cases for posts (Store A) and their tags (Store B)
type PostService interface {
	Create(ctx context.Context, req *models.CreatePostRequest) (*models.PostView, error)
	List(ctx context.Context) ([]models.PostView, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.PostView, error)
	Get(ctx context.Context, id int64) (*models.PostView, error)
	GetWithDetails(ctx context.Context, id int64) (*models.PostDetails, error)
	Update(ctx context.Context, id int64, req *models.UpdatePostRequest) (*models.PostView, error)
	Delete(ctx context.Context, id int64) error
	LinkTag(ctx context.Context, postID, tagID int64) (bool, error)
	Tags(ctx context.Context, postID int64) ([]models.Tag, error)
}

// CommentService defines the use-cases for comments (Store B)
type CommentService interface {
	Create(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context) ([]models.CommentView, error)
	ListByPost(ctx context.Context, postID int64) ([]models.CommentView, error)
	ListByUser(ctx context.Context, userID int64) ([]models.CommentView, error)
	Get(ctx context.Context, id int64) (*models.CommentView, error)
	Update(ctx context.Context, id int64, req *models.UpdateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// TagService defines the use-cases for tags (Store B)
type TagService interface {
	Create(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error)
	List(ctx context.Context) ([]models.TagView, error)
	Get(ctx context.Context, id int64) (*models.TagView, error)
	GetWithPosts(ctx context.Context, id int64) (*models.TagWithPosts, error)
	Popular(ctx context.Context, limit int) ([]models.PopularTag, error)
	Update(ctx context.Context, id int64, req *models.UpdateTagRequest) (*models.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// StatusService reports on both stores
type StatusService interface {
	Health(ctx context.Context) *models.HealthReport
	Metrics(ctx context.Context) (*models.Metrics, error)
}

// Services holds all service interfaces
type Services struct {
	Users    UserService
	Posts    PostService
	Comments CommentService
	Tags     TagService
	Status   StatusService
}

// core bundles the cross-store components shared by every service
type core struct {
	stores  *repository.Stores
	refs    *crossstore.ReferenceValidator
	links   *crossstore.AssociationManager
	enrich  *crossstore.EnrichmentResolver
	cascade bool
}

// NewServices creates all services over the two stores
func NewServices(stores *repository.Stores, cfg *config.Config, log zerolog.Logger) *Services {
	c := &core{
		stores:  stores,
		refs:    crossstore.NewReferenceValidator(stores.A, stores.B),
		links:   crossstore.NewAssociationManager(stores.B, log),
		enrich:  crossstore.NewEnrichmentResolver(stores.A, stores.B, cfg.Enrichment.Concurrency),
		cascade: cfg.CrossStoreCascade,
	}

	return &Services{
		Users:    newUserService(c, log),
		Posts:    newPostService(c, log),
		Comments: newCommentService(c, log),
		Tags:     newTagService(c, log),
		Status:   newStatusService(stores, log),
	}
}
