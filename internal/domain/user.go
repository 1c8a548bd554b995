package domain

import "time"

// User is the domain model for every account in the system; the role field
// determines what the account may do.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Picture      *ImageBlob
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
