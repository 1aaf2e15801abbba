package crossstore

import (
	"context"
	"fmt"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/repository"
)

// ReferenceValidator tests that an id names an existing row in the store
// owning its kind. Callers only ever see a boolean or a NotFoundError.
type ReferenceValidator struct {
	stores map[models.StoreName]repository.Store
}

func NewReferenceValidator(a repository.StoreA, b repository.StoreB) *ReferenceValidator {
	return &ReferenceValidator{
		stores: map[models.StoreName]repository.Store{
			models.StoreA: a,
			models.StoreB: b,
		},
	}
}

// ValidateExists issues a primary-key existence query against store. A
// missing row is false, not an error; an unreachable store is a
// *models.StoreUnavailableError. Nothing is retried.
func (v *ReferenceValidator) ValidateExists(ctx context.Context, store models.StoreName, kind models.EntityKind, id int64) (bool, error) {
	s, ok := v.stores[store]
	if !ok {
		return false, fmt.Errorf("unknown store %q", store)
	}
	return s.Exists(ctx, kind, id)
}

// Require checks id against the store owning kind and turns absence into a
// NotFoundError naming kind and id.
func (v *ReferenceValidator) Require(ctx context.Context, kind models.EntityKind, id int64) error {
	exists, err := v.ValidateExists(ctx, kind.Owner(), kind, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFound(kind, id)
	}
	return nil
}
