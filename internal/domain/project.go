package domain

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Project is created when an application is approved. The matching engines
// only reference it; they never mutate a project outside co-supervisor
// assignment.
type Project struct {
	ID                  string        `firestore:"-" json:"id"`
	Title               string        `firestore:"title" json:"title"`
	Description         string        `firestore:"description" json:"description"`
	SupervisorID        string        `firestore:"supervisorId" json:"supervisorId"`
	CoSupervisorID      string        `firestore:"coSupervisorId" json:"coSupervisorId,omitempty"`
	StudentIDs          []string      `firestore:"studentIds" json:"studentIds"`
	SourceApplicationID string        `firestore:"sourceApplicationId" json:"sourceApplicationId"`
	Status              ProjectStatus `firestore:"status" json:"status"`
	CreatedOn           time.Time     `firestore:"createdOn" json:"createdOn"`
	UpdatedOn           time.Time     `firestore:"updatedOn" json:"updatedOn"`
}
