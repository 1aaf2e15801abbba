package repository

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStoreA(t *testing.T) (StoreA, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreA(database.Wrap(db, models.StoreA, zerolog.Nop())), mock
}

func newMockStoreB(t *testing.T) (StoreB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreB(database.Wrap(db, models.StoreB, zerolog.Nop())), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestUserRepo_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("FROM users WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "bio", "created_at", "updated_at"}).
				AddRow(int64(7), "ada@example.com", "Ada", nil, now, now))

		user, err := store.Users().GetByID(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Ada", user.Name)
		assert.Nil(t, user.Bio)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is nil without error", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("FROM users WHERE id = $1")).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "bio", "created_at", "updated_at"}))

		user, err := store.Users().GetByID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("driver failure is store unavailable", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("FROM users WHERE id = $1")).
			WillReturnError(errors.New("connection refused"))

		_, err := store.Users().GetByID(ctx, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, models.ErrNotFound)

		var unavailable *models.StoreUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, models.StoreA, unavailable.Store)
	})
}

func TestUserRepo_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("INSERT INTO users (email, name, bio)")).
			WithArgs("ada@example.com", "Ada", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

		user := &models.User{Email: "ada@example.com", Name: "Ada"}
		require.NoError(t, store.Users().Create(ctx, user))
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, now, user.CreatedAt)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("INSERT INTO users")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err := store.Users().Create(ctx, &models.User{Email: "ada@example.com", Name: "Ada"})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Contains(t, err.Error(), "users_email_key")
	})
}

func TestUserRepo_DeleteWithPostsIsConflict(t *testing.T) {
	store, mock := newMockStoreA(t)
	mock.ExpectExec(q("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "posts_author_id_fkey"})

	deleted, err := store.Users().Delete(context.Background(), 1)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserRepo_Refs(t *testing.T) {
	store, mock := newMockStoreA(t)
	mock.ExpectQuery(q("SELECT id, name, email FROM users WHERE id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(int64(1), "Ada", "ada@example.com"))

	refs, err := store.Users().Refs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, refs, 1)
	assert.Equal(t, "Ada", refs[1].Name)
	_, ok := refs[2]
	assert.False(t, ok)
}

func TestUserRepo_RefsEmptySkipsQuery(t *testing.T) {
	store, mock := newMockStoreA(t)

	refs, err := store.Users().Refs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdateMissingIsNotFound(t *testing.T) {
	store, mock := newMockStoreA(t)
	mock.ExpectQuery(q("UPDATE users SET")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := store.Users().Update(context.Background(), &models.User{ID: 9, Email: "x@example.com", Name: "X"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostRepo_GetByIDAttachesAuthor(t *testing.T) {
	store, mock := newMockStoreA(t)
	now := time.Now()
	mock.ExpectQuery(q("LEFT JOIN users u ON u.id = p.author_id")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "content", "published", "author_id", "created_at", "updated_at",
			"u.id", "u.name", "u.email",
		}).AddRow(int64(3), "Hello", "World", true, int64(1), now, now, int64(1), "Ada", "ada@example.com"))

	post, err := store.Posts().GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, post.Author)
	assert.Equal(t, "Ada", post.Author.Name)
	assert.True(t, post.Published)
}

func TestPostRepo_ListByIDsEmpty(t *testing.T) {
	store, mock := newMockStoreA(t)

	posts, err := store.Posts().ListByIDs(context.Background(), []int64{})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreA_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("post exists", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := store.Exists(ctx, models.KindPost, 5)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("kind owned by the other store", func(t *testing.T) {
		store, mock := newMockStoreA(t)

		_, err := store.Exists(ctx, models.KindTag, 5)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable store", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectQuery(q("FROM users")).WillReturnError(errors.New("dial tcp: timeout"))

		_, err := store.Exists(ctx, models.KindUser, 1)
		assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	})
}

func TestStoreA_ResetDeletesPostsFirst(t *testing.T) {
	store, mock := newMockStoreA(t)
	mock.ExpectExec(q("DELETE FROM posts")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("DELETE FROM users")).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Reset(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostTagRepo_Insert(t *testing.T) {
	ctx := context.Background()
	link := models.PostTag{PostID: 1, TagID: 2}

	store, mock := newMockStoreB(t)
	mock.ExpectExec(q("ON CONFLICT (post_id, tag_id) DO NOTHING")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("ON CONFLICT (post_id, tag_id) DO NOTHING")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := store.PostTags().Insert(ctx, link)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = store.PostTags().Insert(ctx, link)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestPostTagRepo_InsertManySingleStatement(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2), ($3, $4)")).
		WithArgs(int64(1), int64(2), int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := store.PostTags().InsertMany(context.Background(), []models.PostTag{
		{PostID: 1, TagID: 2},
		{PostID: 1, TagID: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostTagRepo_InsertManyRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO post_tags")).WillReturnError(errors.New("broken pipe"))
	mock.ExpectRollback()

	_, err := store.PostTags().InsertMany(context.Background(), []models.PostTag{{PostID: 1, TagID: 2}})
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostTagRepo_InsertManyEmpty(t *testing.T) {
	store, mock := newMockStoreB(t)

	n, err := store.PostTags().InsertMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_CreateDuplicateName(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectQuery(q("INSERT INTO tags (name, description)")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tags_name_key"})

	err := store.Tags().Create(context.Background(), &models.Tag{Name: "go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, models.KindTag, conflict.Kind)
}

func TestTagRepo_Popular(t *testing.T) {
	store, mock := newMockStoreB(t)
	now := time.Now()
	mock.ExpectQuery(q("ORDER BY post_count DESC, t.id")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at", "post_count"}).
			AddRow(int64(4), "go", nil, now, now, 3).
			AddRow(int64(1), "sql", nil, now, now, 1))

	popular, err := store.Tags().Popular(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "go", popular[0].Name)
	assert.Equal(t, 3, popular[0].PostCount)
}

func TestTagRepo_PopularLargeLimit(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectQuery(q("ORDER BY post_count DESC, t.id")).
		WithArgs(math.MaxInt32).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at", "post_count"}))

	popular, err := store.Tags().Popular(context.Background(), math.MaxInt32)
	require.NoError(t, err)
	assert.Empty(t, popular)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_BatchInsert(t *testing.T) {
	ctx := context.Background()
	copyUsers := q(pq.CopyIn("users", "email", "name", "bio", "created_at", "updated_at"))
	users := []*models.User{
		{Email: "ada@example.com", Name: "Ada"},
		{Email: "bob@example.com", Name: "Bob"},
	}

	t.Run("counts every copied row", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectBegin()
		prep := mock.ExpectPrepare(copyUsers)
		prep.ExpectExec().WithArgs("ada@example.com", "Ada", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WithArgs("bob@example.com", "Bob", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		n, err := store.Users().BatchInsert(ctx, users)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row failure aborts the batch", func(t *testing.T) {
		store, mock := newMockStoreA(t)
		mock.ExpectBegin()
		prep := mock.ExpectPrepare(copyUsers)
		prep.ExpectExec().WithArgs("ada@example.com", "Ada", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WithArgs("bob@example.com", "Bob", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
		mock.ExpectRollback()

		n, err := store.Users().BatchInsert(ctx, users)
		assert.Zero(t, n)
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepo_BatchInsertRowFailure(t *testing.T) {
	store, mock := newMockStoreA(t)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(q(pq.CopyIn("posts", "title", "content", "published", "author_id", "created_at", "updated_at")))
	prep.ExpectExec().WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	n, err := store.Posts().BatchInsert(context.Background(), []*models.Post{{Title: "Hello", Content: "World", AuthorID: 1}})
	assert.Zero(t, n)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_CountByPost(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectQuery(q("SELECT COUNT(*) FROM comments WHERE post_id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := store.Comments().CountByPost(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCommentRepo_DeleteByPost(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectExec(q("DELETE FROM comments WHERE post_id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.Comments().DeleteByPost(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStoreB_ExistsTag(t *testing.T) {
	store, mock := newMockStoreB(t)
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1)")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := store.Exists(context.Background(), models.KindTag, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "($1, $2)", placeholders(1, 2))
	assert.Equal(t, "($1, $2, $3), ($4, $5, $6)", placeholders(2, 3))
}
