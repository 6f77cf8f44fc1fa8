package domain

import "time"

// AvailabilityStatus is a derived, advisory label. CurrentCapacity against
// MaxCapacity is the authoritative record.
type AvailabilityStatus string

const (
	AvailabilityStatusAvailable AvailabilityStatus = "available"
	AvailabilityStatusLimited   AvailabilityStatus = "limited"
	AvailabilityStatusFull      AvailabilityStatus = "full"
)

type Supervisor struct {
	ID                 string             `firestore:"-" json:"id"`
	Email              string             `firestore:"email" json:"email"`
	PasswordHash       string             `firestore:"passwordHash" json:"-"`
	Name               string             `firestore:"name" json:"name"`
	Department         string             `firestore:"department" json:"department"`
	ResearchInterests  []string           `firestore:"researchInterests" json:"researchInterests"`
	MaxCapacity        int                `firestore:"maxCapacity" json:"maxCapacity"`
	CurrentCapacity    int                `firestore:"currentCapacity" json:"currentCapacity"`
	AvailabilityStatus AvailabilityStatus `firestore:"availabilityStatus" json:"availabilityStatus"`
	CreatedOn          time.Time          `firestore:"createdOn" json:"createdOn"`
	UpdatedOn          time.Time          `firestore:"updatedOn" json:"updatedOn"`
}

// Availability derives the advisory label from the capacity counters.
func (s *Supervisor) Availability() AvailabilityStatus {
	remaining := s.MaxCapacity - s.CurrentCapacity
	switch {
	case remaining <= 0:
		return AvailabilityStatusFull
	case remaining == 1:
		return AvailabilityStatusLimited
	default:
		return AvailabilityStatusAvailable
	}
}
