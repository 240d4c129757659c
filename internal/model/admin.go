package model

import "time"

// Admin is an identity allowed to create and modify job postings. Records are
// created lazily on the first successful login for a username and are never
// deleted. The password is stored as a salted PBKDF2 hash.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never expose
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
