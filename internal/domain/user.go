package domain

import "time"

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey"`                    // Primary key
	Email        string     `gorm:"uniqueIndex;size:120;not null"` // Unique login email
	PasswordHash string     `gorm:"size:256;not null"`             // Salted bcrypt hash, never plaintext
	CreatedAt    time.Time  // Timestamp of registration
	Character    *Character `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-one persona, removed with the user
}
