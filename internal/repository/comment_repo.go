package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hybrid-blog-api/internal/models"
)

const commentColumns = "id, content, user_id, post_id, created_at, updated_at"

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	runner
}

// Create inserts a new comment. Its user and post references are not checked here.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (content, user_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.queryRow(ctx, query, comment.Content, comment.UserID, comment.PostID).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return r.classify(models.KindComment, err)
	}
	return nil
}

// BatchInsert inserts multiple comments with chunked multi-row INSERTs
func (r *commentRepo) BatchInsert(ctx context.Context, comments []*models.Comment) (int, error) {
	return r.insertChunks(ctx, models.KindComment,
		"INSERT INTO comments (content, user_id, post_id) VALUES ", "",
		len(comments), 3,
		func(i int) []any {
			c := comments[i]
			return []any{c.Content, c.UserID, c.PostID}
		},
	)
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.Content, &c.UserID, &c.PostID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) list(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, r.unavailable(err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return comments, nil
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(r.queryRow(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.unavailable(err)
	}
	return c, nil
}

// List returns all comments, newest first
func (r *commentRepo) List(ctx context.Context) ([]*models.Comment, error) {
	return r.list(ctx, "SELECT "+commentColumns+" FROM comments ORDER BY created_at DESC, id DESC")
}

// ListByPost returns the comments naming postID, newest first
func (r *commentRepo) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return r.list(ctx, "SELECT "+commentColumns+" FROM comments WHERE post_id = $1 ORDER BY created_at DESC, id DESC", postID)
}

// ListByUser returns the comments naming userID, newest first
func (r *commentRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Comment, error) {
	return r.list(ctx, "SELECT "+commentColumns+" FROM comments WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
}

// Update writes the content and refreshes updated_at
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.queryRow(ctx, query, comment.ID, comment.Content).Scan(&comment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFound(models.KindComment, comment.ID)
	}
	if err != nil {
		return r.classify(models.KindComment, err)
	}
	return nil
}

// Delete removes a single comment
func (r *commentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.affected(ctx, models.KindComment, "DELETE FROM comments WHERE id = $1", id)
	return n > 0, err
}

// DeleteByPost removes every comment naming postID
func (r *commentRepo) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return r.affected(ctx, models.KindComment, "DELETE FROM comments WHERE post_id = $1", postID)
}

// DeleteByUser removes every comment naming userID
func (r *commentRepo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.affected(ctx, models.KindComment, "DELETE FROM comments WHERE user_id = $1", userID)
}

func (r *commentRepo) CountByPost(ctx context.Context, postID int64) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID)
}

func (r *commentRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM comments WHERE user_id = $1", userID)
}

func (r *commentRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM comments")
}
