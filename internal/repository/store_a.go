package repository

import (
	"context"

	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
)

var storeAExistsQueries = map[models.EntityKind]string{
	models.KindUser: "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)",
	models.KindPost: "SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)",
}

// storeA is the Store A adapter. It is the only component issuing queries
// against the Store A connection.
type storeA struct {
	runner
	users *userRepo
	posts *postRepo
}

var _ StoreA = (*storeA)(nil)

// NewStoreA creates the Store A adapter over its own connection
func NewStoreA(db *database.DB) StoreA {
	r := runner{db: db}
	return &storeA{
		runner: r,
		users:  &userRepo{runner: r},
		posts:  &postRepo{runner: r},
	}
}

func (s *storeA) Name() models.StoreName { return models.StoreA }

func (s *storeA) Users() UserRepository { return s.users }

func (s *storeA) Posts() PostRepository { return s.posts }

func (s *storeA) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *storeA) Exists(ctx context.Context, kind models.EntityKind, id int64) (bool, error) {
	return s.exists(ctx, storeAExistsQueries, kind, id)
}

// Reset deletes posts before users to satisfy the author foreign key
func (s *storeA) Reset(ctx context.Context) error {
	if _, err := s.exec(ctx, models.KindPost, "DELETE FROM posts"); err != nil {
		return err
	}
	_, err := s.exec(ctx, models.KindUser, "DELETE FROM users")
	return err
}
