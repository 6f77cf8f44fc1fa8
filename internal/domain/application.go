package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending           ApplicationStatus = "pending"
	ApplicationStatusUnderReview       ApplicationStatus = "under_review"
	ApplicationStatusApproved          ApplicationStatus = "approved"
	ApplicationStatusRejected          ApplicationStatus = "rejected"
	ApplicationStatusRevisionRequested ApplicationStatus = "revision_requested"
)

// IsTerminal reports whether no further status transition may leave s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// Application is a student's request to be supervised on a capstone project.
// Student and supervisor name/email fields are snapshots taken at creation
// time so listings do not fan out into profile reads.
type Application struct {
	ID             string            `firestore:"-" json:"id"`
	StudentID      string            `firestore:"studentId" json:"studentId"`
	SupervisorID   string            `firestore:"supervisorId" json:"supervisorId"`
	StudentName    string            `firestore:"studentName" json:"studentName"`
	StudentEmail   string            `firestore:"studentEmail" json:"studentEmail"`
	SupervisorName string            `firestore:"supervisorName" json:"supervisorName"`
	Title          string            `firestore:"title" json:"title"`
	Description    string            `firestore:"description" json:"description"`
	Status         ApplicationStatus `firestore:"status" json:"status"`
	Feedback       string            `firestore:"feedback" json:"feedback,omitempty"`

	// Partner linkage. A paired student's application is the lead; the
	// partner's mirror application carries IsLeadApplication=false and only
	// the lead counts toward supervisor capacity.
	HasPartner          bool   `firestore:"hasPartner" json:"hasPartner"`
	PartnerID           string `firestore:"partnerId" json:"partnerId,omitempty"`
	LinkedApplicationID string `firestore:"linkedApplicationId" json:"linkedApplicationId,omitempty"`
	IsLeadApplication   bool   `firestore:"isLeadApplication" json:"isLeadApplication"`

	CreatedOn time.Time `firestore:"createdOn" json:"createdOn"`
	UpdatedOn time.Time `firestore:"updatedOn" json:"updatedOn"`
}
