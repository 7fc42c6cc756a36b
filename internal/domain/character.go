package domain

import "time"

// Character Model
type Character struct {
	ID          uint      `gorm:"primaryKey"`          // Primary key
	UserID      uint      `gorm:"uniqueIndex;not null"` // Foreign key to User; unique makes the relation one-to-one
	Name        string    `gorm:"size:100;not null"`   // Persona name
	Description string    `gorm:"type:text;not null"`  // Persona description fed to the generator
	ImagePath   *string   `gorm:"size:256"`            // Stored image filename, nil when no image was uploaded
	CreatedAt   time.Time // Anchors question availability; never mutated after creation
	Answers     []Answer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Ledger rows, removed with the character
}
