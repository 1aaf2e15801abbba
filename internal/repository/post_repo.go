package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/lib/pq"
)

// Posts are read together with their author; both live in Store A so a native join is fine.
const postSelect = `
	SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
	       u.id, u.name, u.email
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id
`

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	runner
}

// Create inserts a new post; id and timestamps come from the store
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, content, published, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.queryRow(ctx, query, post.Title, post.Content, post.Published, post.AuthorID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return r.classify(models.KindPost, err)
	}
	return nil
}

// BatchInsert inserts multiple posts using PostgreSQL COPY
func (r *postRepo) BatchInsert(ctx context.Context, posts []*models.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, r.unavailable(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("posts",
		"title", "content", "published", "author_id", "created_at", "updated_at",
	))
	if err != nil {
		return 0, r.unavailable(err)
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0

	for _, post := range posts {
		if _, err := stmt.ExecContext(ctx, post.Title, post.Content, post.Published, post.AuthorID, now, now); err != nil {
			return 0, r.classify(models.KindPost, err)
		}
		inserted++
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, r.classify(models.KindPost, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, r.unavailable(err)
	}

	return inserted, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post        models.Post
		authorID    sql.NullInt64
		authorName  sql.NullString
		authorEmail sql.NullString
	)
	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.Published, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt,
		&authorID, &authorName, &authorEmail,
	)
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		post.Author = &models.UserRef{ID: authorID.Int64, Name: authorName.String, Email: authorEmail.String}
	}
	return &post, nil
}

func (r *postRepo) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, r.unavailable(err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return posts, nil
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post, err := scanPost(r.queryRow(ctx, postSelect+" WHERE p.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.unavailable(err)
	}
	return post, nil
}

// List returns all posts, newest first
func (r *postRepo) List(ctx context.Context) ([]*models.Post, error) {
	return r.list(ctx, postSelect+" ORDER BY p.created_at DESC, p.id DESC")
}

// ListByAuthor returns the posts of one author, newest first
func (r *postRepo) ListByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error) {
	return r.list(ctx, postSelect+" WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC", authorID)
}

// ListByIDs returns the posts among ids that still exist, newest first
func (r *postRepo) ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	return r.list(ctx, postSelect+" WHERE p.id = ANY($1) ORDER BY p.created_at DESC, p.id DESC", pq.Array(ids))
}

// Update writes title, content and published and refreshes updated_at
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET title = $2, content = $3, published = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.queryRow(ctx, query, post.ID, post.Title, post.Content, post.Published).Scan(&post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFound(models.KindPost, post.ID)
	}
	if err != nil {
		return r.classify(models.KindPost, err)
	}
	return nil
}

// Delete removes a post from Store A only
func (r *postRepo) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.affected(ctx, models.KindPost, "DELETE FROM posts WHERE id = $1", id)
	return n > 0, err
}

// Refs returns id/title projections for the given ids; missing ids are absent from the map
func (r *postRepo) Refs(ctx context.Context, ids []int64) (map[int64]models.PostRef, error) {
	refs := make(map[int64]models.PostRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	rows, err := r.query(ctx, "SELECT id, title FROM posts WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.PostRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, r.unavailable(err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return refs, nil
}

// ListIDs returns every post id in ascending order
func (r *postRepo) ListIDs(ctx context.Context) ([]int64, error) {
	return r.ids(ctx, "SELECT id FROM posts ORDER BY id")
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM posts")
}
