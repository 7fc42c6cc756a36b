package domain

import "time"

// Question Model
type Question struct {
	ID        uint      `gorm:"primaryKey"`           // Primary key
	Content   string    `gorm:"type:text;not null"`   // Question text
	DayNumber int       `gorm:"uniqueIndex;not null"` // Position in the daily unlock sequence
	CreatedAt time.Time // Timestamp of seeding
}
