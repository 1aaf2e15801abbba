package service_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybrid-blog-api/internal/config"
	"github.com/hybrid-blog-api/internal/mocks"
	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/service"
)

type env struct {
	svc *service.Services
	a   *mocks.MockStoreA
	b   *mocks.MockStoreB
}

func newEnv(t *testing.T, cascade bool) *env {
	t.Helper()
	stores, a, b := mocks.NewStores()
	cfg := config.Default()
	cfg.CrossStoreCascade = cascade
	return &env{svc: service.NewServices(stores, cfg, zerolog.Nop()), a: a, b: b}
}

func (e *env) user(t *testing.T, email string) *models.UserView {
	t.Helper()
	u, err := e.svc.Users.Create(context.Background(), &models.CreateUserRequest{Email: email, Name: "User " + email})
	require.NoError(t, err)
	return u
}

func (e *env) tag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag, err := e.svc.Tags.Create(context.Background(), &models.CreateTagRequest{Name: name})
	require.NoError(t, err)
	return tag
}

func (e *env) post(t *testing.T, authorID int64, tagIDs ...int64) *models.PostView {
	t.Helper()
	p, err := e.svc.Posts.Create(context.Background(), &models.CreatePostRequest{
		Title: "Title", Content: "Content", AuthorID: authorID, TagIDs: tagIDs,
	})
	require.NoError(t, err)
	return p
}

func (e *env) comment(t *testing.T, userID, postID int64) *models.Comment {
	t.Helper()
	c, err := e.svc.Comments.Create(context.Background(), &models.CreateCommentRequest{Content: "nice post", UserID: userID, PostID: postID})
	require.NoError(t, err)
	return c
}

func (e *env) commentRows(t *testing.T) int {
	t.Helper()
	n, err := e.b.Comments().Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestCommentService_CreateRequiresBothReferences(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	p := e.post(t, u.ID)

	tests := []struct {
		name     string
		userID   int64
		postID   int64
		wantKind models.EntityKind
		wantID   int64
	}{
		{name: "missing user", userID: 99, postID: p.ID, wantKind: models.KindUser, wantID: 99},
		{name: "missing post", userID: u.ID, postID: 77, wantKind: models.KindPost, wantID: 77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Comments.Create(ctx, &models.CreateCommentRequest{Content: "hi", UserID: tt.userID, PostID: tt.postID})
			require.ErrorIs(t, err, models.ErrNotFound)

			var nf *models.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.wantKind, nf.Kind)
			assert.Equal(t, tt.wantID, nf.ID)
			assert.Zero(t, e.commentRows(t), "no write to store B")
		})
	}
}

func TestCommentService_CreateWithStoreADown(t *testing.T) {
	e := newEnv(t, false)
	e.a.SetDown(true)

	_, err := e.svc.Comments.Create(context.Background(), &models.CreateCommentRequest{Content: "hi", UserID: 1, PostID: 1})
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, e.commentRows(t))
}

func TestCommentService_InvalidPayload(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.svc.Comments.Create(context.Background(), &models.CreateCommentRequest{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	c := e.comment(t, u.ID, e.post(t, u.ID).ID)

	content := "edited"
	updated, err := e.svc.Comments.Update(ctx, c.ID, &models.UpdateCommentRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, e.svc.Comments.Delete(ctx, c.ID))
	assert.ErrorIs(t, e.svc.Comments.Delete(ctx, c.ID), models.ErrNotFound)
	_, err = e.svc.Comments.Get(ctx, c.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostService_CreateLinksTags(t *testing.T) {
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	goTag, sqlTag := e.tag(t, "go"), e.tag(t, "sql")

	p := e.post(t, u.ID, goTag.ID, sqlTag.ID, goTag.ID)
	assert.Equal(t, 2, p.TagCount)
	require.NotNil(t, p.Author)
	assert.Equal(t, u.Name, p.Author.Name)
	assert.False(t, p.Published)
}

func TestPostService_CreateWithUnknownAuthor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)

	_, err := e.svc.Posts.Create(ctx, &models.CreatePostRequest{Title: "T", Content: "C", AuthorID: 5})
	require.ErrorIs(t, err, models.ErrNotFound)

	n, err := e.a.Posts().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostService_UpdateTagSemantics(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	goTag, sqlTag := e.tag(t, "go"), e.tag(t, "sql")
	p := e.post(t, u.ID, goTag.ID)

	title := "Renamed"
	view, err := e.svc.Posts.Update(ctx, p.ID, &models.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Title)
	assert.Equal(t, 1, view.TagCount, "nil tagIds leaves tags untouched")

	view, err = e.svc.Posts.Update(ctx, p.ID, &models.UpdatePostRequest{TagIDs: []int64{sqlTag.ID}})
	require.NoError(t, err)
	assert.Equal(t, []models.TagRef{sqlTag.Ref()}, view.Tags)

	view, err = e.svc.Posts.Update(ctx, p.ID, &models.UpdatePostRequest{TagIDs: []int64{}})
	require.NoError(t, err)
	assert.Equal(t, 0, view.TagCount)

	_, err = e.svc.Posts.Update(ctx, 404, &models.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostService_UpdateWithUnknownTagWritesNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	goTag := e.tag(t, "go")
	p := e.post(t, u.ID, goTag.ID)

	title := "Renamed"
	_, err := e.svc.Posts.Update(ctx, p.ID, &models.UpdatePostRequest{Title: &title, TagIDs: []int64{goTag.ID, 999}})
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, models.KindTag, notFound.Kind)
	assert.Equal(t, int64(999), notFound.ID)

	view, err := e.svc.Posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, view.Title)
	assert.Equal(t, []models.TagRef{goTag.Ref()}, view.Tags)
}

func TestPostService_LinkTag(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	p := e.post(t, u.ID)
	tag := e.tag(t, "go")

	inserted, err := e.svc.Posts.LinkTag(ctx, p.ID, tag.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = e.svc.Posts.LinkTag(ctx, p.ID, tag.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	_, err = e.svc.Posts.LinkTag(ctx, 404, tag.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	tags, err := e.svc.Posts.Tags(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Name)
}

func TestPostService_DeleteLeavesStoreBRows(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	tag := e.tag(t, "go")
	p := e.post(t, u.ID, tag.ID)
	e.comment(t, u.ID, p.ID)

	require.NoError(t, e.svc.Posts.Delete(ctx, p.ID))
	_, err := e.svc.Posts.Get(ctx, p.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	assert.Equal(t, 1, e.commentRows(t))
	tv, err := e.svc.Tags.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tv.PostCount)

	comments, err := e.svc.Comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Nil(t, comments[0].Post)
	require.NotNil(t, comments[0].Author)
}

func TestPostService_DeleteWithCascade(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, true)
	u := e.user(t, "ada@example.com")
	tag := e.tag(t, "go")
	p := e.post(t, u.ID, tag.ID)
	e.comment(t, u.ID, p.ID)

	require.NoError(t, e.svc.Posts.Delete(ctx, p.ID))

	assert.Zero(t, e.commentRows(t))
	tv, err := e.svc.Tags.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Zero(t, tv.PostCount)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author of posts is rejected by store A", func(t *testing.T) {
		e := newEnv(t, false)
		u := e.user(t, "ada@example.com")
		e.post(t, u.ID)

		err := e.svc.Users.Delete(ctx, u.ID)
		require.ErrorIs(t, err, models.ErrConflict)
		_, err = e.svc.Users.Get(ctx, u.ID)
		assert.NoError(t, err)
	})

	t.Run("comments survive without cascade", func(t *testing.T) {
		e := newEnv(t, false)
		author, commenter := e.user(t, "ada@example.com"), e.user(t, "bob@example.com")
		e.comment(t, commenter.ID, e.post(t, author.ID).ID)

		require.NoError(t, e.svc.Users.Delete(ctx, commenter.ID))
		assert.Equal(t, 1, e.commentRows(t))
	})

	t.Run("comments removed with cascade", func(t *testing.T) {
		e := newEnv(t, true)
		author, commenter := e.user(t, "ada@example.com"), e.user(t, "bob@example.com")
		e.comment(t, commenter.ID, e.post(t, author.ID).ID)

		require.NoError(t, e.svc.Users.Delete(ctx, commenter.ID))
		assert.Zero(t, e.commentRows(t))
	})

	t.Run("unknown user", func(t *testing.T) {
		e := newEnv(t, false)
		assert.ErrorIs(t, e.svc.Users.Delete(ctx, 3), models.ErrNotFound)
	})
}

func TestUserService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	e.user(t, "bob@example.com")

	_, err := e.svc.Users.Create(ctx, &models.CreateUserRequest{Email: "ada@example.com", Name: "Dup"})
	require.ErrorIs(t, err, models.ErrConflict)

	taken := "bob@example.com"
	_, err = e.svc.Users.Update(ctx, u.ID, &models.UpdateUserRequest{Email: &taken})
	require.ErrorIs(t, err, models.ErrConflict)

	bio := "writes Go"
	view, err := e.svc.Users.Update(ctx, u.ID, &models.UpdateUserRequest{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, view.Bio)
	assert.Equal(t, "writes Go", *view.Bio)
	assert.Equal(t, "ada@example.com", view.Email)

	users, err := e.svc.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestTagService_DeleteUnlinksPosts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	tag := e.tag(t, "go")
	p := e.post(t, u.ID, tag.ID)

	require.NoError(t, e.svc.Tags.Delete(ctx, tag.ID))

	view, err := e.svc.Posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, view.TagCount)
	n, err := e.b.PostTags().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, e.svc.Tags.Delete(ctx, tag.ID), models.ErrNotFound)
}

func TestTagService_Popular(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	goTag, sqlTag := e.tag(t, "go"), e.tag(t, "sql")
	for i := 0; i < 12; i++ {
		e.tag(t, "extra-"+string(rune('a'+i)))
	}
	e.post(t, u.ID, goTag.ID, sqlTag.ID)
	e.post(t, u.ID, goTag.ID)

	popular, err := e.svc.Tags.Popular(ctx, 0)
	require.NoError(t, err)
	require.Len(t, popular, models.DefaultPopularTagsLimit)
	assert.Equal(t, "go", popular[0].Name)
	assert.Equal(t, 2, popular[0].PostCount)
	assert.Equal(t, "sql", popular[1].Name)

	popular, err = e.svc.Tags.Popular(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, popular, 1)
}

func TestTagService_PopularClampsLimit(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	for i := 0; i < models.MaxPopularTagsLimit+5; i++ {
		e.tag(t, fmt.Sprintf("tag-%03d", i))
	}

	popular, err := e.svc.Tags.Popular(ctx, math.MaxInt32)
	require.NoError(t, err)
	assert.Len(t, popular, models.MaxPopularTagsLimit)
}

func TestTagService_Update(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	tag := e.tag(t, "go")
	e.tag(t, "sql")

	name := "sql"
	_, err := e.svc.Tags.Update(ctx, tag.ID, &models.UpdateTagRequest{Name: &name})
	require.ErrorIs(t, err, models.ErrConflict)

	desc := "The Go language"
	updated, err := e.svc.Tags.Update(ctx, tag.ID, &models.UpdateTagRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "go", updated.Name)
	assert.Equal(t, &desc, updated.Description)
}

func TestServices_EndToEnd(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)

	u1 := e.user(t, "ada@example.com")
	p1 := e.post(t, u1.ID)
	t1 := e.tag(t, "go")
	_, err := e.svc.Posts.LinkTag(ctx, p1.ID, t1.ID)
	require.NoError(t, err)

	view, err := e.svc.Posts.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.TagRef{{ID: t1.ID, Name: "go"}}, view.Tags)
	assert.Equal(t, 1, view.TagCount)
	assert.Equal(t, 0, view.CommentCount)

	c1 := e.comment(t, u1.ID, p1.ID)

	view, err = e.svc.Posts.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CommentCount)

	details, err := e.svc.Posts.GetWithDetails(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, details.Comments, 1)
	assert.Equal(t, c1.ID, details.Comments[0].ID)
	require.NotNil(t, details.Comments[0].AuthorName)
	assert.Equal(t, u1.Name, *details.Comments[0].AuthorName)

	withComments, err := e.svc.Users.GetWithComments(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, withComments.CommentCount)

	userView, err := e.svc.Users.Get(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, userView.CommentCount)
}

func TestStatusService(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, false)
	u := e.user(t, "ada@example.com")
	e.comment(t, u.ID, e.post(t, u.ID, e.tag(t, "go").ID).ID)

	report := e.svc.Status.Health(ctx)
	assert.True(t, report.Healthy())
	assert.Equal(t, "ok", report.Stores[models.StoreA])

	m, err := e.svc.Status.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Metrics{Users: 1, Posts: 1, Comments: 1, Tags: 1, PostTags: 1}, *m)

	e.b.SetDown(true)
	report = e.svc.Status.Health(ctx)
	assert.False(t, report.Healthy())
	assert.Equal(t, "ok", report.Stores[models.StoreA])
	assert.Equal(t, "unreachable", report.Stores[models.StoreB])

	_, err = e.svc.Status.Metrics(ctx)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}
