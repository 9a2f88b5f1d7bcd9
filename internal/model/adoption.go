package model

// Adoption records that a user adopted a pet.
type Adoption struct {
	ID     int64  `json:"id"     db:"id"`
	PetID  *int64 `json:"petId"  db:"pet_id"`
	UserID *int64 `json:"userId" db:"user_id"`
}

// Int64 returns a pointer to v. Handy for filling nullable foreign keys.
func Int64(v int64) *int64 {
	return &v
}
