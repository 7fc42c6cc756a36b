package domain

import "time"

// Answer Model
type Answer struct {
	ID          uint      `gorm:"primaryKey"`                                    // Primary key
	CharacterID uint      `gorm:"not null;uniqueIndex:idx_character_question"`   // Foreign key to Character
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_character_question"`   // Foreign key to Question
	Content     string    `gorm:"type:text;not null"`                            // Generated text, stored verbatim (placeholders included)
	CreatedAt   time.Time // Timestamp of creation
}
