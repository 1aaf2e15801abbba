package crossstore

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// EnrichmentResolver builds read views by querying the store that does not
// own the primary record and merging the results. Each secondary read is a
// separate query, so a view is a best-effort snapshot rather than a
// point-in-time join. Nothing is cached.
type EnrichmentResolver struct {
	a           repository.StoreA
	b           repository.StoreB
	concurrency int
}

// NewEnrichmentResolver bounds list enrichment to concurrency records in flight.
func NewEnrichmentResolver(a repository.StoreA, b repository.StoreB, concurrency int) *EnrichmentResolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &EnrichmentResolver{a: a, b: b, concurrency: concurrency}
}

// EnrichPost attaches tags, tagCount and commentCount. The tag lookup and the
// comment count touch disjoint keys and run concurrently.
func (r *EnrichmentResolver) EnrichPost(ctx context.Context, post *models.Post) (*models.PostView, error) {
	var (
		tags     []models.Tag
		comments int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tags, err = r.b.PostTags().TagsForPost(gctx, post.ID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = r.b.Comments().CountByPost(gctx, post.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]models.TagRef, 0, len(tags))
	for i := range tags {
		refs = append(refs, tags[i].Ref())
	}
	return &models.PostView{
		Post:         *post,
		Tags:         refs,
		TagCount:     len(refs),
		CommentCount: comments,
	}, nil
}

// EnrichUser attaches commentCount
func (r *EnrichmentResolver) EnrichUser(ctx context.Context, user *models.User) (*models.UserView, error) {
	count, err := r.b.Comments().CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.UserView{User: *user, CommentCount: count}, nil
}

// EnrichTag attaches postCount from the bridge. Links to posts already
// deleted from Store A are still counted.
func (r *EnrichmentResolver) EnrichTag(ctx context.Context, tag *models.Tag) (*models.TagView, error) {
	count, err := r.b.PostTags().CountByTag(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	return &models.TagView{Tag: *tag, PostCount: count}, nil
}

// EnrichComment attaches author and post projections from Store A. A parent
// that no longer exists leaves its field nil instead of failing.
func (r *EnrichmentResolver) EnrichComment(ctx context.Context, comment *models.Comment) (*models.CommentView, error) {
	views, err := r.EnrichComments(ctx, []*models.Comment{comment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// EnrichComments resolves the authors and posts of all comments with one
// lookup each against Store A.
func (r *EnrichmentResolver) EnrichComments(ctx context.Context, comments []*models.Comment) ([]models.CommentView, error) {
	userIDs := make([]int64, 0, len(comments))
	postIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
		postIDs = append(postIDs, c.PostID)
	}

	var (
		users map[int64]models.UserRef
		posts map[int64]models.PostRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = r.a.Users().Refs(gctx, dedup(userIDs))
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = r.a.Posts().Refs(gctx, dedup(postIDs))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		view := models.CommentView{Comment: *c}
		if u, ok := users[c.UserID]; ok {
			view.Author = &u
		}
		if p, ok := posts[c.PostID]; ok {
			view.Post = &p
		}
		views = append(views, view)
	}
	return views, nil
}

// enrichAll runs enrich for every element with at most limit calls in
// flight. Results keep the input order; the first error cancels the rest.
func enrichAll[T, V any](ctx context.Context, limit int, items []T, enrich func(context.Context, T) (*V, error)) ([]V, error) {
	out := make([]V, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := enrich(gctx, item)
			if err != nil {
				return err
			}
			out[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrichPosts enriches a list of posts concurrently
func (r *EnrichmentResolver) EnrichPosts(ctx context.Context, posts []*models.Post) ([]models.PostView, error) {
	return enrichAll(ctx, r.concurrency, posts, r.EnrichPost)
}

// EnrichUsers enriches a list of users concurrently
func (r *EnrichmentResolver) EnrichUsers(ctx context.Context, users []*models.User) ([]models.UserView, error) {
	return enrichAll(ctx, r.concurrency, users, r.EnrichUser)
}

// EnrichTags enriches a list of tags concurrently
func (r *EnrichmentResolver) EnrichTags(ctx context.Context, tags []*models.Tag) ([]models.TagView, error) {
	return enrichAll(ctx, r.concurrency, tags, r.EnrichTag)
}

// ResolvePostDetails returns the post with its full comments, each carrying
// the author's name and email, and its full tag rows.
func (r *EnrichmentResolver) ResolvePostDetails(ctx context.Context, postID int64) (*models.PostDetails, error) {
	post, err := r.a.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFound(models.KindPost, postID)
	}

	var (
		tags     []models.Tag
		comments []*models.Comment
		authors  map[int64]models.UserRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tags, err = r.b.PostTags().TagsForPost(gctx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = r.b.Comments().ListByPost(gctx, postID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(comments))
		for _, c := range comments {
			ids = append(ids, c.UserID)
		}
		authors, err = r.a.Users().Refs(gctx, dedup(ids))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details := make([]models.CommentDetail, 0, len(comments))
	for _, c := range comments {
		d := models.CommentDetail{Comment: *c}
		if u, ok := authors[c.UserID]; ok {
			d.AuthorName, d.AuthorEmail = &u.Name, &u.Email
		}
		details = append(details, d)
	}

	return &models.PostDetails{
		Post:         *post,
		Tags:         tags,
		Comments:     details,
		TagCount:     len(tags),
		CommentCount: len(details),
	}, nil
}

// ResolveUserComments returns the user with their full comments, each
// carrying the title of its post when the post still exists.
func (r *EnrichmentResolver) ResolveUserComments(ctx context.Context, userID int64) (*models.UserWithComments, error) {
	user, err := r.a.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFound(models.KindUser, userID)
	}

	comments, err := r.b.Comments().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.PostID)
	}
	posts, err := r.a.Posts().Refs(ctx, dedup(ids))
	if err != nil {
		return nil, err
	}

	out := make([]models.UserComment, 0, len(comments))
	for _, c := range comments {
		uc := models.UserComment{Comment: *c}
		if p, ok := posts[c.PostID]; ok {
			uc.PostTitle = &p.Title
		}
		out = append(out, uc)
	}

	return &models.UserWithComments{
		UserView: models.UserView{User: *user, CommentCount: len(out)},
		Comments: out,
	}, nil
}

// ResolveTagPosts returns the tag with the Store A posts linked to it.
// Bridge rows naming deleted posts count toward postCount but yield no post.
func (r *EnrichmentResolver) ResolveTagPosts(ctx context.Context, tagID int64) (*models.TagWithPosts, error) {
	tag, err := r.b.Tags().GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, models.NewNotFound(models.KindTag, tagID)
	}

	ids, err := r.b.PostTags().PostIDsForTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	posts, err := r.a.Posts().ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, *p)
	}
	return &models.TagWithPosts{
		TagView: models.TagView{Tag: *tag, PostCount: len(ids)},
		Posts:   out,
	}, nil
}
