package mocks

import "github.com/hybrid-blog-api/internal/repository"

// NewStores returns both in-memory stores wired as repository.Stores.
func NewStores() (*repository.Stores, *MockStoreA, *MockStoreB) {
	a, b := NewMockStoreA(), NewMockStoreB()
	return &repository.Stores{A: a, B: b}, a, b
}
