package domain

import "time"

type PartnershipRequestStatus string

const (
	PartnershipRequestStatusPending   PartnershipRequestStatus = "pending"
	PartnershipRequestStatusAccepted  PartnershipRequestStatus = "accepted"
	PartnershipRequestStatusRejected  PartnershipRequestStatus = "rejected"
	PartnershipRequestStatusCancelled PartnershipRequestStatus = "cancelled"
)

// StudentPartnershipRequest is one student asking another to be their project
// partner. At most one pending request may exist per ordered
// (requester, target) pair.
type StudentPartnershipRequest struct {
	ID            string                   `firestore:"-" json:"id"`
	RequesterID   string                   `firestore:"requesterId" json:"requesterId"`
	TargetID      string                   `firestore:"targetId" json:"targetId"`
	RequesterName string                   `firestore:"requesterName" json:"requesterName"`
	TargetName    string                   `firestore:"targetName" json:"targetName"`
	Message       string                   `firestore:"message" json:"message,omitempty"`
	Status        PartnershipRequestStatus `firestore:"status" json:"status"`
	CreatedOn     time.Time                `firestore:"createdOn" json:"createdOn"`
	RespondedOn   *time.Time               `firestore:"respondedOn" json:"respondedOn,omitempty"`
}

// SupervisorPartnershipRequest mirrors the student protocol but is scoped to
// one project: a supervisor may run independent co-supervision negotiations
// per project, and each project holds at most one co-supervisor.
type SupervisorPartnershipRequest struct {
	ID            string                   `firestore:"-" json:"id"`
	ProjectID     string                   `firestore:"projectId" json:"projectId"`
	RequesterID   string                   `firestore:"requesterId" json:"requesterId"`
	TargetID      string                   `firestore:"targetId" json:"targetId"`
	RequesterName string                   `firestore:"requesterName" json:"requesterName"`
	TargetName    string                   `firestore:"targetName" json:"targetName"`
	Message       string                   `firestore:"message" json:"message,omitempty"`
	Status        PartnershipRequestStatus `firestore:"status" json:"status"`
	CreatedOn     time.Time                `firestore:"createdOn" json:"createdOn"`
	RespondedOn   *time.Time               `firestore:"respondedOn" json:"respondedOn,omitempty"`
}
