package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/lib/pq"
)

const userColumns = "id, email, name, bio, created_at, updated_at"

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	runner
}

// Create inserts a new user; id and timestamps come from the store
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, bio)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.queryRow(ctx, query, user.Email, user.Name, user.Bio).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return r.classify(models.KindUser, err)
	}
	return nil
}

// BatchInsert inserts multiple users using PostgreSQL COPY for efficiency
func (r *userRepo) BatchInsert(ctx context.Context, users []*models.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, r.unavailable(err)
	}
	defer tx.Rollback()

	// Prepare COPY statement for bulk insert
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("users",
		"email", "name", "bio", "created_at", "updated_at",
	))
	if err != nil {
		return 0, r.unavailable(err)
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0

	for _, user := range users {
		if _, err := stmt.ExecContext(ctx, user.Email, user.Name, user.Bio, now, now); err != nil {
			return 0, r.classify(models.KindUser, err)
		}
		inserted++
	}

	// Execute the COPY
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, r.classify(models.KindUser, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, r.unavailable(err)
	}

	return inserted, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.unavailable(err)
	}
	return user, nil
}

// List returns all users ordered by id
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.unavailable(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return users, nil
}

// Update writes email, name and bio and refreshes updated_at
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET email = $2, name = $3, bio = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.queryRow(ctx, query, user.ID, user.Email, user.Name, user.Bio).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFound(models.KindUser, user.ID)
	}
	if err != nil {
		return r.classify(models.KindUser, err)
	}
	return nil
}

// Delete removes a user. Store A rejects it while the user still authors posts.
func (r *userRepo) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.affected(ctx, models.KindUser, "DELETE FROM users WHERE id = $1", id)
	return n > 0, err
}

// Refs returns id/name/email projections for the given ids; missing ids are absent from the map
func (r *userRepo) Refs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error) {
	refs := make(map[int64]models.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	rows, err := r.query(ctx, "SELECT id, name, email FROM users WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, r.unavailable(err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, r.unavailable(err)
	}
	return refs, nil
}

// ListIDs returns every user id in ascending order
func (r *userRepo) ListIDs(ctx context.Context) ([]int64, error) {
	return r.ids(ctx, "SELECT id FROM users ORDER BY id")
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM users")
}
