package domain

import "time"

type Notification struct {
	ID         string            `firestore:"-" json:"id"`
	UserID     string            `firestore:"userId" json:"userId"`
	Role       Role              `firestore:"role" json:"role"`
	Title      string            `firestore:"title" json:"title"`
	Message    string            `firestore:"message" json:"message"`
	IsRead     bool              `firestore:"isRead" json:"isRead"`
	Attributes map[string]string `firestore:"attributes" json:"attributes"`
	CreatedOn  time.Time         `firestore:"createdOn" json:"createdOn"`
}
