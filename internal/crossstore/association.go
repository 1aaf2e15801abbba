package crossstore

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// AssociationManager maintains the post-tag bridge. The bridge and tags live
// in Store B while post ids name Store A rows; the post side is never checked
// here, callers resolve the post first.
type AssociationManager struct {
	store repository.StoreB
	log   zerolog.Logger
}

func NewAssociationManager(store repository.StoreB, log zerolog.Logger) *AssociationManager {
	return &AssociationManager{
		store: store,
		log:   log.With().Str("component", "associations").Logger(),
	}
}

func (m *AssociationManager) requireTag(ctx context.Context, tagID int64) error {
	exists, err := m.store.Exists(ctx, models.KindTag, tagID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFound(models.KindTag, tagID)
	}
	return nil
}

// Link adds the (postID, tagID) pair. Linking an existing pair is a no-op and
// reports false.
func (m *AssociationManager) Link(ctx context.Context, postID, tagID int64) (bool, error) {
	if err := m.requireTag(ctx, tagID); err != nil {
		return false, err
	}
	return m.store.PostTags().Insert(ctx, models.PostTag{PostID: postID, TagID: tagID})
}

// LinkAll links each tag in order and stops at the first failure. Pairs
// linked before the failure stay linked.
func (m *AssociationManager) LinkAll(ctx context.Context, postID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := m.Link(ctx, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceLinks makes tagIDs the complete tag set of postID: every existing
// pair is deleted, then the new set is inserted in bulk.
//
// Unknown tags are rejected before anything is deleted. The delete and the
// insert are separate statements with no transaction around them, so a
// failed insert leaves the post with no tags. That outcome is logged and
// returned, never retried.
func (m *AssociationManager) ReplaceLinks(ctx context.Context, postID int64, tagIDs []int64) error {
	ids := dedup(tagIDs)
	for _, tagID := range ids {
		if err := m.requireTag(ctx, tagID); err != nil {
			return err
		}
	}

	removed, err := m.store.PostTags().DeleteByPost(ctx, postID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	links := make([]models.PostTag, 0, len(ids))
	for _, tagID := range ids {
		links = append(links, models.PostTag{PostID: postID, TagID: tagID})
	}
	if _, err := m.store.PostTags().InsertMany(ctx, links); err != nil {
		m.log.Warn().
			Err(err).
			Int64("post_id", postID).
			Int64("removed", removed).
			Int("requested", len(ids)).
			Msg("Tag replacement failed after existing links were removed")
		return err
	}
	return nil
}

// UnlinkAllForPost removes every pair naming postID
func (m *AssociationManager) UnlinkAllForPost(ctx context.Context, postID int64) (int64, error) {
	return m.store.PostTags().DeleteByPost(ctx, postID)
}

// UnlinkAllForTag removes every pair naming tagID
func (m *AssociationManager) UnlinkAllForTag(ctx context.Context, tagID int64) (int64, error) {
	return m.store.PostTags().DeleteByTag(ctx, tagID)
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
