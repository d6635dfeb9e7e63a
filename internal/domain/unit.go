package domain

import "time"

type AccommodationType string

const (
	AccommodationHouse      AccommodationType = "HOUSE"
	AccommodationFlat       AccommodationType = "FLAT"
	AccommodationApartments AccommodationType = "APARTMENTS"
)

func (t AccommodationType) Valid() bool {
	switch t {
	case AccommodationHouse, AccommodationFlat, AccommodationApartments:
		return true
	}
	return false
}

// Unit is an accommodation unit owned by a user. BaseCostCents is the
// stored nightly price; the user-facing price is derived by applying the
// markup (see internal/pricing) and is never persisted.
type Unit struct {
	ID                int64
	NumberOfRooms     int
	AccommodationType AccommodationType
	Floor             int
	BaseCostCents     int64
	Description       string
	OwnerID           int64
	CreatedAt         time.Time
}
