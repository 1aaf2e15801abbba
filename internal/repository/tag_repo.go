package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hybrid-blog-api/internal/models"
)

const tagColumns = "id, name, description, created_at, updated_at"

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	runner
}

// Create inserts a new tag; a duplicate name is a conflict
func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.queryRow(ctx, query, tag.Name, tag.Description).
		Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return r.classify(models.KindTag, err)
	}
	return nil
}

// BatchInsert inserts tags, skipping names that already exist
func (r *tagRepo) BatchInsert(ctx context.Context, tags []*models.Tag) (int, error) {
	return r.insertChunks(ctx, models.KindTag,
		"INSERT INTO tags (name, description) VALUES ", " ON CONFLICT (name) DO NOTHING",
		len(tags), 2,
		func(i int) []any {
			return []any{tags[i].Name, tags[i].Description}
		},
	)
}

func scanTag(row rowScanner) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) get(ctx context.Context, query string, arg any) (*models.Tag, error) {
	t, err := scanTag(r.queryRow(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.unavailable(err)
	}
	return t, nil
}

// GetByID retrieves a tag by ID
func (r *tagRepo) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	return r.get(ctx, "SELECT "+tagColumns+" FROM tags WHERE id = $1", id)
}

// GetByName retrieves a tag by its unique name
func (r *tagRepo) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return r.get(ctx, "SELECT "+tagColumns+" FROM tags WHERE name = $1", name)
}

// List returns all tags ordered by name
func (r *tagRepo) List(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.query(ctx, "SELECT "+tagColumns+" FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, r.unavailable(err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return tags, nil
}

// Update writes name and description and refreshes updated_at
func (r *tagRepo) Update(ctx context.Context, tag *models.Tag) error {
	query := `
		UPDATE tags SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.queryRow(ctx, query, tag.ID, tag.Name, tag.Description).Scan(&tag.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFound(models.KindTag, tag.ID)
	}
	if err != nil {
		return r.classify(models.KindTag, err)
	}
	return nil
}

// Delete removes the tag row only; bridge rows are the caller's concern
func (r *tagRepo) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.affected(ctx, models.KindTag, "DELETE FROM tags WHERE id = $1", id)
	return n > 0, err
}

// Popular returns the tags with the most linked posts. Both tables live in
// Store B, so the count is a native join.
func (r *tagRepo) Popular(ctx context.Context, limit int) ([]models.PopularTag, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at, COUNT(pt.post_id) AS post_count
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY post_count DESC, t.id
		LIMIT $1
	`
	rows, err := r.query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popular := make([]models.PopularTag, 0)
	for rows.Next() {
		var p models.PopularTag
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.PostCount); err != nil {
			return nil, r.unavailable(err)
		}
		popular = append(popular, p)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return popular, nil
}

func (r *tagRepo) ListIDs(ctx context.Context) ([]int64, error) {
	return r.ids(ctx, "SELECT id FROM tags ORDER BY id")
}

func (r *tagRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM tags")
}
