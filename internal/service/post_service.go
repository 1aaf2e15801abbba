package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/validation"
)

// postService is the concrete implementation of PostService
type postService struct {
	*core
	log zerolog.Logger
}

func newPostService(c *core, log zerolog.Logger) *postService {
	return &postService{
		core: c,
		log:  log.With().Str("service", "posts").Logger(),
	}
}

func (s *postService) find(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.stores.A.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFound(models.KindPost, id)
	}
	return post, nil
}

// Create stores the post after checking its author, then links each
// requested tag. A missing tag stops the linking but the post stays created.
func (s *postService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.PostView, error) {
	if err := validation.ValidateCreatePost(req); err != nil {
		return nil, err
	}
	if err := s.refs.Require(ctx, models.KindUser, req.AuthorID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if err := s.stores.A.Posts().Create(ctx, post); err != nil {
		return nil, err
	}

	if len(req.TagIDs) > 0 {
		if err := s.links.LinkAll(ctx, post.ID, req.TagIDs); err != nil {
			s.log.Warn().Err(err).Int64("post_id", post.ID).Msg("Post created but tag linking failed")
			return nil, err
		}
	}

	s.log.Info().Int64("post_id", post.ID).Int("tags", len(req.TagIDs)).Msg("Post created")

	created, err := s.find(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichPost(ctx, created)
}

func (s *postService) List(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.stores.A.Posts().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichPosts(ctx, posts)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID int64) ([]models.PostView, error) {
	posts, err := s.stores.A.Posts().ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichPosts(ctx, posts)
}

func (s *postService) Get(ctx context.Context, id int64) (*models.PostView, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichPost(ctx, post)
}

func (s *postService) GetWithDetails(ctx context.Context, id int64) (*models.PostDetails, error) {
	return s.enrich.ResolvePostDetails(ctx, id)
}

// Update writes the post fields to Store A. A non-nil TagIDs, even empty,
// then replaces the whole tag set in Store B.
func (s *postService) Update(ctx context.Context, id int64, req *models.UpdatePostRequest) (*models.PostView, error) {
	if err := validation.ValidateUpdatePost(req); err != nil {
		return nil, err
	}

	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	// Unknown tags are rejected before anything is written to either store.
	for _, tagID := range req.TagIDs {
		if err := s.refs.Require(ctx, models.KindTag, tagID); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if err := s.stores.A.Posts().Update(ctx, post); err != nil {
		return nil, err
	}

	if req.TagIDs != nil {
		if err := s.links.ReplaceLinks(ctx, id, req.TagIDs); err != nil {
			return nil, err
		}
	}
	return s.enrich.EnrichPost(ctx, post)
}

// Delete removes the post from Store A only. Its comments and tag links in
// Store B survive unless the cross-store cascade is enabled.
func (s *postService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	deleted, err := s.stores.A.Posts().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound(models.KindPost, id)
	}

	event := s.log.Info().Int64("post_id", id)
	if s.cascade {
		unlinked, err := s.links.UnlinkAllForPost(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("post_id", id).Msg("Post deleted but tag cleanup failed")
			return err
		}
		removed, err := s.stores.B.Comments().DeleteByPost(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("post_id", id).Msg("Post deleted but comment cleanup failed")
			return err
		}
		event = event.Int64("links_removed", unlinked).Int64("comments_removed", removed)
	}
	event.Msg("Post deleted")
	return nil
}

// LinkTag links an existing post to an existing tag
func (s *postService) LinkTag(ctx context.Context, postID, tagID int64) (bool, error) {
	if _, err := s.find(ctx, postID); err != nil {
		return false, err
	}
	return s.links.Link(ctx, postID, tagID)
}

// Tags returns the full tag rows linked to an existing post
func (s *postService) Tags(ctx context.Context, postID int64) ([]models.Tag, error) {
	if _, err := s.find(ctx, postID); err != nil {
		return nil, err
	}
	return s.stores.B.PostTags().TagsForPost(ctx, postID)
}
