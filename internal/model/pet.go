package model

// Pet is an animal listed for adoption. OwnerID is the user who listed it.
type Pet struct {
	ID      int64  `json:"id"      db:"id"`
	Name    string `json:"name"    db:"name"`
	OwnerID *int64 `json:"ownerId" db:"owner_id"`
}
