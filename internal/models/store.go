package models

// StoreName identifies one of the two independent data stores.
type StoreName string

const (
	StoreA StoreName = "A"
	StoreB StoreName = "B"
)

// EntityKind names an entity type for existence checks and NotFound errors.
type EntityKind string

const (
	KindUser    EntityKind = "User"
	KindPost    EntityKind = "Post"
	KindComment EntityKind = "Comment"
	KindTag     EntityKind = "Tag"
)

// Owner returns the store that owns rows of the given kind.
func (k EntityKind) Owner() StoreName {
	switch k {
	case KindUser, KindPost:
		return StoreA
	default:
		return StoreB
	}
}
