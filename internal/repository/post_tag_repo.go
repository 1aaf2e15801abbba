package repository

import (
	"context"

	"github.com/hybrid-blog-api/internal/models"
)

// postTagRepo is the concrete implementation of PostTagRepository.
// post_id names a Store A row and is never checked here.
type postTagRepo struct {
	runner
}

// Insert adds the pair; an existing pair is left untouched and reported as false
func (r *postTagRepo) Insert(ctx context.Context, link models.PostTag) (bool, error) {
	n, err := r.affected(ctx, models.KindTag,
		"INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT (post_id, tag_id) DO NOTHING",
		link.PostID, link.TagID,
	)
	return n > 0, err
}

// InsertMany adds all pairs, ignoring duplicates, and returns how many were new
func (r *postTagRepo) InsertMany(ctx context.Context, links []models.PostTag) (int, error) {
	return r.insertChunks(ctx, models.KindTag,
		"INSERT INTO post_tags (post_id, tag_id) VALUES ", " ON CONFLICT (post_id, tag_id) DO NOTHING",
		len(links), 2,
		func(i int) []any {
			return []any{links[i].PostID, links[i].TagID}
		},
	)
}

func (r *postTagRepo) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return r.affected(ctx, models.KindTag, "DELETE FROM post_tags WHERE post_id = $1", postID)
}

func (r *postTagRepo) DeleteByTag(ctx context.Context, tagID int64) (int64, error) {
	return r.affected(ctx, models.KindTag, "DELETE FROM post_tags WHERE tag_id = $1", tagID)
}

// TagsForPost returns the full tag rows linked to postID, ordered by name
func (r *postTagRepo) TagsForPost(ctx context.Context, postID int64) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`
	rows, err := r.query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, r.unavailable(err)
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return tags, nil
}

// PostIDsForTag returns the post ids linked to tagID. The posts may no longer exist in Store A.
func (r *postTagRepo) PostIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	return r.ids(ctx, "SELECT post_id FROM post_tags WHERE tag_id = $1 ORDER BY post_id", tagID)
}

func (r *postTagRepo) CountByTag(ctx context.Context, tagID int64) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM post_tags WHERE tag_id = $1", tagID)
}

func (r *postTagRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM post_tags")
}
