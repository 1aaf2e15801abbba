package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/validation"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	*core
	log zerolog.Logger
}

func newCommentService(c *core, log zerolog.Logger) *commentService {
	return &commentService{
		core: c,
		log:  log.With().Str("service", "comments").Logger(),
	}
}

// Create checks that the user and the post exist in Store A, then writes the
// comment to Store B. The check is not repeated later.
func (s *commentService) Create(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateCreateComment(req); err != nil {
		return nil, err
	}
	if err := s.refs.Require(ctx, models.KindUser, req.UserID); err != nil {
		return nil, err
	}
	if err := s.refs.Require(ctx, models.KindPost, req.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: req.Content, UserID: req.UserID, PostID: req.PostID}
	if err := s.stores.B.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("post_id", comment.PostID).
		Int64("user_id", comment.UserID).
		Msg("Comment created")
	return comment, nil
}

func (s *commentService) List(ctx context.Context) ([]models.CommentView, error) {
	comments, err := s.stores.B.Comments().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichComments(ctx, comments)
}

func (s *commentService) ListByPost(ctx context.Context, postID int64) ([]models.CommentView, error) {
	comments, err := s.stores.B.Comments().ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichComments(ctx, comments)
}

func (s *commentService) ListByUser(ctx context.Context, userID int64) ([]models.CommentView, error) {
	comments, err := s.stores.B.Comments().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichComments(ctx, comments)
}

func (s *commentService) find(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.stores.B.Comments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFound(models.KindComment, id)
	}
	return comment, nil
}

func (s *commentService) Get(ctx context.Context, id int64) (*models.CommentView, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichComment(ctx, comment)
}

func (s *commentService) Update(ctx context.Context, id int64, req *models.UpdateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateUpdateComment(req); err != nil {
		return nil, err
	}

	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		comment.Content = *req.Content
	}
	if err := s.stores.B.Comments().Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.stores.B.Comments().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound(models.KindComment, id)
	}
	s.log.Info().Int64("comment_id", id).Msg("Comment deleted")
	return nil
}
