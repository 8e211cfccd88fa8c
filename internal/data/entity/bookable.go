package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// BookableKind tags which catalog table a booking or review points at.
type BookableKind string

const (
	BookableHotel BookableKind = "hotel"
	BookableYacht BookableKind = "yacht"
)

func ParseBookableKind(s string) (BookableKind, error) {
	switch BookableKind(s) {
	case BookableHotel:
		return BookableHotel, nil
	case BookableYacht:
		return BookableYacht, nil
	default:
		return "", fmt.Errorf("unknown bookable kind %q", s)
	}
}

// BookableRef identifies a single bookable resource: a (kind, id) pair
// instead of a stringly-typed class-name tag.
type BookableRef struct {
	Kind BookableKind `db:"bookable_kind"`
	ID   uuid.UUID    `db:"bookable_id"`
}

func (r BookableRef) String() string {
	return string(r.Kind) + "/" + r.ID.String()
}

// Bookable is the engine-facing snapshot of a hotel or yacht row:
// exactly what reservation creation needs while holding the row lock.
type Bookable struct {
	Ref       BookableRef
	Name      string
	UnitPrice float64
	IsActive  bool
}
