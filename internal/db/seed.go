package db

import (
	"errors"

	"persona_diary/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// defaultQuestions is the fixed daily catalog. Day numbers are the unlock
// sequence; content is immutable once seeded.
var defaultQuestions = []domain.Question{
	{DayNumber: 1, Content: "What is your favorite food?"},
	{DayNumber: 2, Content: "When were you happiest?"},
	{DayNumber: 3, Content: "What are you most interested in these days?"},
	{DayNumber: 4, Content: "What do you do when you are stressed?"},
	{DayNumber: 5, Content: "What is your favorite season?"},
	{DayNumber: 6, Content: "What was your childhood dream?"},
	{DayNumber: 7, Content: "Who is the most precious person to you?"},
}

// SeedQuestions ensures the fixed question catalog exists, insert-if-absent
// keyed by day_number. Runs on every process start; safe to repeat.
func SeedQuestions(gdb *gorm.DB) error {
	for _, q := range defaultQuestions {
		var existing domain.Question
		err := gdb.Where("day_number = ?", q.DayNumber).First(&existing).Error
		if err == nil {
			continue // Already seeded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		question := q // Fresh copy so gorm does not write IDs back into the catalog slice
		if err := gdb.Create(&question).Error; err != nil {
			// A concurrent seeder may have won the insert; that is fine
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}
