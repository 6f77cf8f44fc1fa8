package domain

import "time"

// Admin is a portal administrator account. Admins are provisioned out of
// band (seeded directly into the store), not through signup.
type Admin struct {
	ID           string    `firestore:"-" json:"id"`
	Email        string    `firestore:"email" json:"email"`
	PasswordHash string    `firestore:"passwordHash" json:"-"`
	Name         string    `firestore:"name" json:"name"`
	CreatedOn    time.Time `firestore:"createdOn" json:"createdOn"`
}
