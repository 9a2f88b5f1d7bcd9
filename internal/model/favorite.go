package model

// Favorite is a named preference a user has saved.
type Favorite struct {
	ID     int64  `json:"id"     db:"id"`
	Name   string `json:"name"   db:"name"`
	UserID *int64 `json:"userId" db:"user_id"`
}
