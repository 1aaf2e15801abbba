package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/validation"
)

// tagService is the concrete implementation of TagService
type tagService struct {
	*core
	log zerolog.Logger
}

func newTagService(c *core, log zerolog.Logger) *tagService {
	return &tagService{
		core: c,
		log:  log.With().Str("service", "tags").Logger(),
	}
}

func (s *tagService) Create(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error) {
	if err := validation.ValidateCreateTag(req); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: req.Name, Description: req.Description}
	if err := s.stores.B.Tags().Create(ctx, tag); err != nil {
		return nil, err
	}

	s.log.Info().Int64("tag_id", tag.ID).Str("name", tag.Name).Msg("Tag created")
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]models.TagView, error) {
	tags, err := s.stores.B.Tags().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichTags(ctx, tags)
}

func (s *tagService) find(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.stores.B.Tags().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, models.NewNotFound(models.KindTag, id)
	}
	return tag, nil
}

func (s *tagService) Get(ctx context.Context, id int64) (*models.TagView, error) {
	tag, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichTag(ctx, tag)
}

func (s *tagService) GetWithPosts(ctx context.Context, id int64) (*models.TagWithPosts, error) {
	return s.enrich.ResolveTagPosts(ctx, id)
}

// Popular returns up to limit tags ranked by linked posts. A non-positive
// limit falls back to models.DefaultPopularTagsLimit; larger limits are
// clamped to models.MaxPopularTagsLimit.
func (s *tagService) Popular(ctx context.Context, limit int) ([]models.PopularTag, error) {
	switch {
	case limit <= 0:
		limit = models.DefaultPopularTagsLimit
	case limit > models.MaxPopularTagsLimit:
		limit = models.MaxPopularTagsLimit
	}
	return s.stores.B.Tags().Popular(ctx, limit)
}

func (s *tagService) Update(ctx context.Context, id int64, req *models.UpdateTagRequest) (*models.Tag, error) {
	if err := validation.ValidateUpdateTag(req); err != nil {
		return nil, err
	}

	tag, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		tag.Name = *req.Name
	}
	if req.Description != nil {
		tag.Description = req.Description
	}
	if err := s.stores.B.Tags().Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete unlinks the tag from every post, then removes it. Both rows live in
// Store B but no constraint ties them, so the unlink is explicit.
func (s *tagService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	unlinked, err := s.links.UnlinkAllForTag(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.stores.B.Tags().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound(models.KindTag, id)
	}

	s.log.Info().Int64("tag_id", id).Int64("links_removed", unlinked).Msg("Tag deleted")
	return nil
}
