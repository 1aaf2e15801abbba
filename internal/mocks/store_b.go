package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// MockStoreB is an in-memory Store B. Like the real schema it has no
// knowledge of Store A ids.
type MockStoreB struct {
	mu          sync.RWMutex
	comments    map[int64]*models.Comment
	tags        map[int64]*models.Tag
	postTags    map[models.PostTag]time.Time
	nextComment int64
	nextTag     int64
	down        bool

	// InsertManyErr, when set, makes PostTags().InsertMany fail without writing.
	InsertManyErr error

	TagsForPostCalls atomic.Int64
	CountByPostCalls atomic.Int64
}

var _ repository.StoreB = (*MockStoreB)(nil)

func NewMockStoreB() *MockStoreB {
	return &MockStoreB{
		comments: make(map[int64]*models.Comment),
		tags:     make(map[int64]*models.Tag),
		postTags: make(map[models.PostTag]time.Time),
	}
}

// SetDown makes every subsequent call fail as an unreachable store.
func (s *MockStoreB) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *MockStoreB) unavailable() error {
	if s.down {
		return models.NewStoreUnavailable(models.StoreB, ErrConnectionRefused)
	}
	return nil
}

func (s *MockStoreB) Name() models.StoreName { return models.StoreB }

func (s *MockStoreB) Comments() repository.CommentRepository { return (*mockComments)(s) }

func (s *MockStoreB) Tags() repository.TagRepository { return (*mockTags)(s) }

func (s *MockStoreB) PostTags() repository.PostTagRepository { return (*mockPostTags)(s) }

func (s *MockStoreB) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unavailable()
}

func (s *MockStoreB) Exists(ctx context.Context, kind models.EntityKind, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.unavailable(); err != nil {
		return false, err
	}
	switch kind {
	case models.KindComment:
		_, ok := s.comments[id]
		return ok, nil
	case models.KindTag:
		_, ok := s.tags[id]
		return ok, nil
	}
	return false, fmt.Errorf("store B does not own %s rows", kind)
}

func (s *MockStoreB) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return err
	}
	s.comments = make(map[int64]*models.Comment)
	s.tags = make(map[int64]*models.Tag)
	s.postTags = make(map[models.PostTag]time.Time)
	return nil
}

type mockComments MockStoreB

func (m *mockComments) store() *MockStoreB { return (*MockStoreB)(m) }

func (m *mockComments) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return err
	}
	m.nextComment++
	now := time.Now()
	comment.ID, comment.CreatedAt, comment.UpdatedAt = m.nextComment, now, now
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockComments) BatchInsert(ctx context.Context, comments []*models.Comment) (int, error) {
	for i, c := range comments {
		if err := m.Create(ctx, c); err != nil {
			return i, err
		}
	}
	return len(comments), nil
}

func (m *mockComments) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	c, ok := m.comments[id]
	if !ok {
		return nil, nil
	}
	comment := *c
	return &comment, nil
}

// filter returns matching comments newest first
func (m *mockComments) filter(match func(*models.Comment) bool) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	comments := make([]*models.Comment, 0)
	for _, c := range m.comments {
		if match(c) {
			comment := *c
			comments = append(comments, &comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID > comments[j].ID })
	return comments, nil
}

func (m *mockComments) List(ctx context.Context) ([]*models.Comment, error) {
	return m.filter(func(*models.Comment) bool { return true })
}

func (m *mockComments) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return m.filter(func(c *models.Comment) bool { return c.PostID == postID })
}

func (m *mockComments) ListByUser(ctx context.Context, userID int64) ([]*models.Comment, error) {
	return m.filter(func(c *models.Comment) bool { return c.UserID == userID })
}

func (m *mockComments) Update(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return err
	}
	stored, ok := m.comments[comment.ID]
	if !ok {
		return models.NewNotFound(models.KindComment, comment.ID)
	}
	stored.Content = comment.Content
	stored.UpdatedAt = time.Now()
	*comment = *stored
	return nil
}

func (m *mockComments) deleteWhere(match func(*models.Comment) bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range m.comments {
		if match(c) {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

func (m *mockComments) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := m.deleteWhere(func(c *models.Comment) bool { return c.ID == id })
	return n > 0, err
}

func (m *mockComments) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return m.deleteWhere(func(c *models.Comment) bool { return c.PostID == postID })
}

func (m *mockComments) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return m.deleteWhere(func(c *models.Comment) bool { return c.UserID == userID })
}

func (m *mockComments) countWhere(match func(*models.Comment) bool) (int, error) {
	comments, err := m.filter(match)
	return len(comments), err
}

func (m *mockComments) CountByPost(ctx context.Context, postID int64) (int, error) {
	m.CountByPostCalls.Add(1)
	return m.countWhere(func(c *models.Comment) bool { return c.PostID == postID })
}

func (m *mockComments) CountByUser(ctx context.Context, userID int64) (int, error) {
	return m.countWhere(func(c *models.Comment) bool { return c.UserID == userID })
}

func (m *mockComments) Count(ctx context.Context) (int, error) {
	return m.countWhere(func(*models.Comment) bool { return true })
}

type mockTags MockStoreB

func (m *mockTags) store() *MockStoreB { return (*MockStoreB)(m) }

func (m *mockTags) nameTaken(name string, except int64) bool {
	for _, t := range m.tags {
		if t.Name == name && t.ID != except {
			return true
		}
	}
	return false
}

func (m *mockTags) Create(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return err
	}
	if m.nameTaken(tag.Name, 0) {
		return &models.ConflictError{Kind: models.KindTag, Reason: `unique constraint "tags_name_key" violated`}
	}
	m.nextTag++
	now := time.Now()
	tag.ID, tag.CreatedAt, tag.UpdatedAt = m.nextTag, now, now
	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *mockTags) BatchInsert(ctx context.Context, tags []*models.Tag) (int, error) {
	inserted := 0
	for _, t := range tags {
		if err := m.Create(ctx, t); err != nil {
			if errors.Is(err, models.ErrConflict) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (m *mockTags) find(match func(*models.Tag) bool) (*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	for _, t := range m.tags {
		if match(t) {
			tag := *t
			return &tag, nil
		}
	}
	return nil, nil
}

func (m *mockTags) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	return m.find(func(t *models.Tag) bool { return t.ID == id })
}

func (m *mockTags) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return m.find(func(t *models.Tag) bool { return t.Name == name })
}

func (m *mockTags) List(ctx context.Context) ([]*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	tags := make([]*models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		tag := *t
		tags = append(tags, &tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (m *mockTags) Update(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return err
	}
	stored, ok := m.tags[tag.ID]
	if !ok {
		return models.NewNotFound(models.KindTag, tag.ID)
	}
	if m.nameTaken(tag.Name, tag.ID) {
		return &models.ConflictError{Kind: models.KindTag, Reason: `unique constraint "tags_name_key" violated`}
	}
	stored.Name, stored.Description = tag.Name, tag.Description
	stored.UpdatedAt = time.Now()
	*tag = *stored
	return nil
}

func (m *mockTags) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return false, err
	}
	if _, ok := m.tags[id]; !ok {
		return false, nil
	}
	delete(m.tags, id)
	return true, nil
}

func (m *mockTags) Popular(ctx context.Context, limit int) ([]models.PopularTag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	counts := make(map[int64]int)
	for link := range m.postTags {
		counts[link.TagID]++
	}
	popular := make([]models.PopularTag, 0, len(m.tags))
	for _, t := range m.tags {
		popular = append(popular, models.PopularTag{Tag: *t, PostCount: counts[t.ID]})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].PostCount != popular[j].PostCount {
			return popular[i].PostCount > popular[j].PostCount
		}
		return popular[i].ID < popular[j].ID
	})
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

func (m *mockTags) ListIDs(ctx context.Context) ([]int64, error) {
	tags, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockTags) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return 0, err
	}
	return len(m.tags), nil
}

type mockPostTags MockStoreB

func (m *mockPostTags) store() *MockStoreB { return (*MockStoreB)(m) }

func (m *mockPostTags) Insert(ctx context.Context, link models.PostTag) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return false, err
	}
	key := models.PostTag{PostID: link.PostID, TagID: link.TagID}
	if _, ok := m.postTags[key]; ok {
		return false, nil
	}
	m.postTags[key] = time.Now()
	return true, nil
}

func (m *mockPostTags) InsertMany(ctx context.Context, links []models.PostTag) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return 0, err
	}
	if m.InsertManyErr != nil {
		return 0, m.InsertManyErr
	}
	inserted := 0
	now := time.Now()
	for _, link := range links {
		key := models.PostTag{PostID: link.PostID, TagID: link.TagID}
		if _, ok := m.postTags[key]; ok {
			continue
		}
		m.postTags[key] = now
		inserted++
	}
	return inserted, nil
}

func (m *mockPostTags) deleteWhere(match func(models.PostTag) bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return 0, err
	}
	var n int64
	for link := range m.postTags {
		if match(link) {
			delete(m.postTags, link)
			n++
		}
	}
	return n, nil
}

func (m *mockPostTags) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return m.deleteWhere(func(l models.PostTag) bool { return l.PostID == postID })
}

func (m *mockPostTags) DeleteByTag(ctx context.Context, tagID int64) (int64, error) {
	return m.deleteWhere(func(l models.PostTag) bool { return l.TagID == tagID })
}

func (m *mockPostTags) TagsForPost(ctx context.Context, postID int64) ([]models.Tag, error) {
	m.TagsForPostCalls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0)
	for link := range m.postTags {
		if link.PostID != postID {
			continue
		}
		if t, ok := m.tags[link.TagID]; ok {
			tags = append(tags, *t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (m *mockPostTags) PostIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	for link := range m.postTags {
		if link.TagID == tagID {
			ids = append(ids, link.PostID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockPostTags) CountByTag(ctx context.Context, tagID int64) (int, error) {
	ids, err := m.PostIDsForTag(ctx, tagID)
	return len(ids), err
}

func (m *mockPostTags) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return 0, err
	}
	return len(m.postTags), nil
}
