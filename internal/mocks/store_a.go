package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// ErrConnectionRefused is the cause wrapped by a store taken down with SetDown.
var ErrConnectionRefused = errors.New("connection refused")

// MockStoreA is an in-memory Store A. It enforces the same intra-store rules
// as the real schema: unique email and a restricting post author key.
type MockStoreA struct {
	mu       sync.RWMutex
	users    map[int64]*models.User
	posts    map[int64]*models.Post
	nextUser int64
	nextPost int64
	down     bool
}

var _ repository.StoreA = (*MockStoreA)(nil)

func NewMockStoreA() *MockStoreA {
	return &MockStoreA{
		users: make(map[int64]*models.User),
		posts: make(map[int64]*models.Post),
	}
}

// SetDown makes every subsequent call fail as an unreachable store.
func (s *MockStoreA) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *MockStoreA) unavailable() error {
	if s.down {
		return models.NewStoreUnavailable(models.StoreA, ErrConnectionRefused)
	}
	return nil
}

func (s *MockStoreA) Name() models.StoreName { return models.StoreA }

func (s *MockStoreA) Users() repository.UserRepository { return (*mockUsers)(s) }

func (s *MockStoreA) Posts() repository.PostRepository { return (*mockPosts)(s) }

func (s *MockStoreA) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unavailable()
}

func (s *MockStoreA) Exists(ctx context.Context, kind models.EntityKind, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.unavailable(); err != nil {
		return false, err
	}
	switch kind {
	case models.KindUser:
		_, ok := s.users[id]
		return ok, nil
	case models.KindPost:
		_, ok := s.posts[id]
		return ok, nil
	}
	return false, fmt.Errorf("store A does not own %s rows", kind)
}

func (s *MockStoreA) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return err
	}
	s.users = make(map[int64]*models.User)
	s.posts = make(map[int64]*models.Post)
	return nil
}

// withAuthor returns a copy of p carrying its author projection
func (s *MockStoreA) withAuthor(p *models.Post) *models.Post {
	post := *p
	post.Author = nil
	if u, ok := s.users[p.AuthorID]; ok {
		ref := u.Ref()
		post.Author = &ref
	}
	return &post
}

type mockUsers MockStoreA

func (m *mockUsers) emailTaken(email string, except int64) bool {
	for _, u := range m.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (m *mockUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return err
	}
	if m.emailTaken(user.Email, 0) {
		return &models.ConflictError{Kind: models.KindUser, Reason: `unique constraint "users_email_key" violated`}
	}
	m.nextUser++
	now := time.Now()
	user.ID, user.CreatedAt, user.UpdatedAt = m.nextUser, now, now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUsers) BatchInsert(ctx context.Context, users []*models.User) (int, error) {
	inserted := 0
	for _, u := range users {
		if err := m.Create(ctx, u); err != nil {
			if errors.Is(err, models.ErrConflict) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	user := *u
	return &user, nil
}

func (m *mockUsers) List(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		user := *u
		users = append(users, &user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *mockUsers) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return err
	}
	stored, ok := m.users[user.ID]
	if !ok {
		return models.NewNotFound(models.KindUser, user.ID)
	}
	if m.emailTaken(user.Email, user.ID) {
		return &models.ConflictError{Kind: models.KindUser, Reason: `unique constraint "users_email_key" violated`}
	}
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()
	updated := *user
	m.users[user.ID] = &updated
	return nil
}

func (m *mockUsers) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return false, err
	}
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	for _, p := range m.posts {
		if p.AuthorID == id {
			return false, &models.ConflictError{Kind: models.KindUser, Reason: `foreign key "posts_author_id_fkey" violated`}
		}
	}
	delete(m.users, id)
	return true, nil
}

func (m *mockUsers) Refs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return nil, err
	}
	refs := make(map[int64]models.UserRef, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			refs[id] = u.Ref()
		}
	}
	return refs, nil
}

func (m *mockUsers) ListIDs(ctx context.Context) ([]int64, error) {
	users, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (m *mockUsers) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := (*MockStoreA)(m).unavailable(); err != nil {
		return 0, err
	}
	return len(m.users), nil
}

type mockPosts MockStoreA

func (m *mockPosts) store() *MockStoreA { return (*MockStoreA)(m) }

func (m *mockPosts) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return err
	}
	if _, ok := m.users[post.AuthorID]; !ok {
		return &models.ConflictError{Kind: models.KindPost, Reason: `foreign key "posts_author_id_fkey" violated`}
	}
	m.nextPost++
	now := time.Now()
	post.ID, post.CreatedAt, post.UpdatedAt = m.nextPost, now, now
	stored := *post
	stored.Author = nil
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPosts) BatchInsert(ctx context.Context, posts []*models.Post) (int, error) {
	inserted := 0
	for _, p := range posts {
		if err := m.Create(ctx, p); err != nil {
			if errors.Is(err, models.ErrConflict) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (m *mockPosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return m.store().withAuthor(p), nil
}

// filter returns matching posts newest first
func (m *mockPosts) filter(match func(*models.Post) bool) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0)
	for _, p := range m.posts {
		if match(p) {
			posts = append(posts, m.store().withAuthor(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (m *mockPosts) List(ctx context.Context) ([]*models.Post, error) {
	return m.filter(func(*models.Post) bool { return true })
}

func (m *mockPosts) ListByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.AuthorID == authorID })
}

func (m *mockPosts) ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return m.filter(func(p *models.Post) bool { return wanted[p.ID] })
}

func (m *mockPosts) Update(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return err
	}
	stored, ok := m.posts[post.ID]
	if !ok {
		return models.NewNotFound(models.KindPost, post.ID)
	}
	stored.Title, stored.Content, stored.Published = post.Title, post.Content, post.Published
	stored.UpdatedAt = time.Now()
	post.AuthorID, post.CreatedAt, post.UpdatedAt = stored.AuthorID, stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (m *mockPosts) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store().unavailable(); err != nil {
		return false, err
	}
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

func (m *mockPosts) Refs(ctx context.Context, ids []int64) (map[int64]models.PostRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	refs := make(map[int64]models.PostRef, len(ids))
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			refs[id] = p.Ref()
		}
	}
	return refs, nil
}

func (m *mockPosts) ListIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockPosts) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.store().unavailable(); err != nil {
		return 0, err
	}
	return len(m.posts), nil
}
