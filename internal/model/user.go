// Package model defines the records stored for the pet adoption app.
//
// Each struct mirrors one table from package schema. Foreign keys are
// pointers because the columns are nullable: a pet without an owner has a
// nil OwnerID, not an OwnerID of 0.
package model

// User is a registered account.
//
// HashedPassword never leaves the server: the json:"-" tag keeps it out of
// every API response.
type User struct {
	ID             int64  `json:"id"    db:"id"`
	Email          string `json:"email" db:"email"`
	HashedPassword string `json:"-"     db:"hashed_password"`
}
