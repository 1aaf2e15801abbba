// Package seed fills both stores with linked sample data.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// DefaultCount is the number of records created per entity
const DefaultCount = 100

// Options controls a seed run
type Options struct {
	Count int
	// Clear resets both stores first, Store B before Store A.
	Clear bool
}

// Result holds the number of rows written per entity
type Result struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Tags     int `json:"tags"`
	PostTags int `json:"postTags"`
	Comments int `json:"comments"`
}

// Seeder writes sample rows through the store adapters' batch paths
type Seeder struct {
	stores *repository.Stores
	log    zerolog.Logger
}

// New creates a Seeder
func New(stores *repository.Stores, log zerolog.Logger) *Seeder {
	return &Seeder{
		stores: stores,
		log:    log.With().Str("component", "seed").Logger(),
	}
}

// Run creates opts.Count users, posts, tags and comments. Post i is linked to
// tag i; posts and comments are assigned to users round-robin.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}

	// Without a reset the unique columns need a per-run suffix.
	suffix := ""
	if opts.Clear {
		if err := s.clear(ctx); err != nil {
			return nil, err
		}
	} else {
		suffix = "-" + uuid.NewString()[:8]
	}

	n := opts.Count
	result := &Result{}

	users := make([]*models.User, n)
	for i := range users {
		bio := fmt.Sprintf("Bio for user %d", i+1)
		users[i] = &models.User{
			Email: fmt.Sprintf("user%d%s@example.com", i+1, suffix),
			Name:  fmt.Sprintf("User %d", i+1),
			Bio:   &bio,
		}
	}
	userIDs, err := s.insert(ctx, models.KindUser, func() (int, error) {
		return s.stores.A.Users().BatchInsert(ctx, users)
	}, s.stores.A.Users().ListIDs)
	if err != nil {
		return nil, err
	}
	result.Users = len(userIDs)

	posts := make([]*models.Post, n)
	for i := range posts {
		posts[i] = &models.Post{
			Title:     fmt.Sprintf("Post Title %d", i+1),
			Content:   fmt.Sprintf("Content for post %d", i+1),
			Published: true,
			AuthorID:  userIDs[i%len(userIDs)],
		}
	}
	postIDs, err := s.insert(ctx, models.KindPost, func() (int, error) {
		return s.stores.A.Posts().BatchInsert(ctx, posts)
	}, s.stores.A.Posts().ListIDs)
	if err != nil {
		return nil, err
	}
	result.Posts = len(postIDs)

	tags := make([]*models.Tag, n)
	for i := range tags {
		desc := fmt.Sprintf("Description for tag %d", i+1)
		tags[i] = &models.Tag{Name: fmt.Sprintf("Tag %d%s", i+1, suffix), Description: &desc}
	}
	tagIDs, err := s.insert(ctx, models.KindTag, func() (int, error) {
		return s.stores.B.Tags().BatchInsert(ctx, tags)
	}, s.stores.B.Tags().ListIDs)
	if err != nil {
		return nil, err
	}
	result.Tags = len(tagIDs)

	links := make([]models.PostTag, 0, n)
	for i := 0; i < len(postIDs) && i < len(tagIDs); i++ {
		links = append(links, models.PostTag{PostID: postIDs[i], TagID: tagIDs[i]})
	}
	if result.PostTags, err = s.stores.B.PostTags().InsertMany(ctx, links); err != nil {
		return nil, fmt.Errorf("failed to link posts to tags: %w", err)
	}

	comments := make([]*models.Comment, n)
	for i := range comments {
		comments[i] = &models.Comment{
			Content: fmt.Sprintf("Comment %d content", i+1),
			UserID:  userIDs[i%len(userIDs)],
			PostID:  postIDs[i%len(postIDs)],
		}
	}
	if result.Comments, err = s.stores.B.Comments().BatchInsert(ctx, comments); err != nil {
		return nil, fmt.Errorf("failed to insert comments: %w", err)
	}

	s.log.Info().
		Int("users", result.Users).
		Int("posts", result.Posts).
		Int("tags", result.Tags).
		Int("post_tags", result.PostTags).
		Int("comments", result.Comments).
		Msg("Seed completed")

	return result, nil
}

// clear empties Store B first so no bridge row outlives its tag
func (s *Seeder) clear(ctx context.Context) error {
	if err := s.stores.B.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear store B: %w", err)
	}
	if err := s.stores.A.Reset(ctx); err != nil {
		return fmt.Errorf("failed to clear store A: %w", err)
	}
	s.log.Info().Msg("Cleared existing data")
	return nil
}

// insert runs a batch insert and returns the ids it produced. Batch paths do
// not return ids, so the newest rows are read back by ascending id.
func (s *Seeder) insert(ctx context.Context, kind models.EntityKind, batch func() (int, error), listIDs func(context.Context) ([]int64, error)) ([]int64, error) {
	inserted, err := batch()
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s rows: %w", kind, err)
	}
	if inserted == 0 {
		return nil, fmt.Errorf("no %s rows inserted", kind)
	}

	ids, err := listIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read back %s ids: %w", kind, err)
	}
	if len(ids) < inserted {
		return nil, fmt.Errorf("expected at least %d %s ids, found %d", inserted, kind, len(ids))
	}

	s.log.Debug().Str("kind", string(kind)).Int("inserted", inserted).Msg("Batch inserted")
	return ids[len(ids)-inserted:], nil
}
