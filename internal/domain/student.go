package domain

import "time"

type PartnershipStatus string

const (
	PartnershipStatusNone            PartnershipStatus = "none"
	PartnershipStatusPendingSent     PartnershipStatus = "pending_sent"
	PartnershipStatusPendingReceived PartnershipStatus = "pending_received"
	PartnershipStatusPaired          PartnershipStatus = "paired"
)

type MatchStatus string

const (
	MatchStatusUnmatched MatchStatus = "unmatched"
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusMatched   MatchStatus = "matched"
)

// Student carries a PartnerID exactly when PartnershipStatus is paired, and
// the partner's own PartnerID must point back.
type Student struct {
	ID                   string            `firestore:"-" json:"id"`
	Email                string            `firestore:"email" json:"email"`
	PasswordHash         string            `firestore:"passwordHash" json:"-"`
	Name                 string            `firestore:"name" json:"name"`
	StudentNumber        string            `firestore:"studentNumber" json:"studentNumber"`
	Program              string            `firestore:"program" json:"program"`
	PartnershipStatus    PartnershipStatus `firestore:"partnershipStatus" json:"partnershipStatus"`
	PartnerID            string            `firestore:"partnerId" json:"partnerId,omitempty"`
	MatchStatus          MatchStatus       `firestore:"matchStatus" json:"matchStatus"`
	AssignedSupervisorID string            `firestore:"assignedSupervisorId" json:"assignedSupervisorId,omitempty"`
	CreatedOn            time.Time         `firestore:"createdOn" json:"createdOn"`
	UpdatedOn            time.Time         `firestore:"updatedOn" json:"updatedOn"`
}
