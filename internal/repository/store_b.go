package repository

import (
	"context"

	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
)

// Store B is reached through the pgx stdlib driver, which binds Go slices as
// PostgreSQL arrays directly.

// batchRows caps a multi-row INSERT well below PostgreSQL's 65535 bound parameters.
const batchRows = 500

var storeBExistsQueries = map[models.EntityKind]string{
	models.KindComment: "SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)",
	models.KindTag:     "SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1)",
}

// storeB is the Store B adapter. It is the only component issuing queries
// against the Store B connection.
type storeB struct {
	runner
	comments *commentRepo
	tags     *tagRepo
	postTags *postTagRepo
}

var _ StoreB = (*storeB)(nil)

// NewStoreB creates the Store B adapter over its own connection
func NewStoreB(db *database.DB) StoreB {
	r := runner{db: db}
	return &storeB{
		runner:   r,
		comments: &commentRepo{runner: r},
		tags:     &tagRepo{runner: r},
		postTags: &postTagRepo{runner: r},
	}
}

func (s *storeB) Name() models.StoreName { return models.StoreB }

func (s *storeB) Comments() CommentRepository { return s.comments }

func (s *storeB) Tags() TagRepository { return s.tags }

func (s *storeB) PostTags() PostTagRepository { return s.postTags }

func (s *storeB) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *storeB) Exists(ctx context.Context, kind models.EntityKind, id int64) (bool, error) {
	return s.exists(ctx, storeBExistsQueries, kind, id)
}

func (s *storeB) Reset(ctx context.Context) error {
	for _, q := range []struct {
		kind  models.EntityKind
		query string
	}{
		{models.KindTag, "DELETE FROM post_tags"},
		{models.KindComment, "DELETE FROM comments"},
		{models.KindTag, "DELETE FROM tags"},
	} {
		if _, err := s.exec(ctx, q.kind, q.query); err != nil {
			return err
		}
	}
	return nil
}

// insertChunks runs a multi-row INSERT per chunk of at most batchRows rows
// inside one transaction and returns the number of rows written.
func (r runner) insertChunks(ctx context.Context, kind models.EntityKind, prefix, suffix string, rows, cols int, args func(i int) []any) (int, error) {
	if rows == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, r.unavailable(err)
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < rows; start += batchRows {
		end := min(start+batchRows, rows)

		values := make([]any, 0, (end-start)*cols)
		for i := start; i < end; i++ {
			values = append(values, args(i)...)
		}

		res, err := tx.ExecContext(ctx, prefix+placeholders(end-start, cols)+suffix, values...)
		if err != nil {
			return 0, r.classify(kind, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, r.unavailable(err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, r.unavailable(err)
	}
	return inserted, nil
}
