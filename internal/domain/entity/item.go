package entity

import "time"

// ItemStatus represents the availability of a listed item.
type ItemStatus string

const (
	// ItemAvailable marks an item that can still be claimed.
	ItemAvailable ItemStatus = "available"
	// ItemTaken marks an item that has been claimed.
	ItemTaken ItemStatus = "taken"
)

// String returns the string representation of the ItemStatus.
func (s ItemStatus) String() string {
	return string(s)
}

// IsValid checks if the ItemStatus is a valid value.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemAvailable, ItemTaken:
		return true
	default:
		return false
	}
}

// Item is a single shareable thing listed by a user. It belongs to exactly
// one ItemType and one owner; contact fields default from the owner's
// profile at creation. Attributes is an open key/value mapping whose keys
// are expected, but not required, to follow the owning type's schema.
type Item struct {
	ID          uint
	TypeID      uint
	OwnerID     uint
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Image       string // Opaque upload path; empty when no image was attached.
	Attributes  map[string]any
	Status      ItemStatus
	CreatedAt   time.Time

	// Denormalized for listings; populated by the repository, not stored.
	TypeName      string
	OwnerUsername string
}
