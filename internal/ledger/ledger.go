// Package ledger records at most one generated answer per (character,
// question) pair. The composite unique index on answers is the source of
// truth; the pre-check only short-circuits the common case.
package ledger

import (
	"context"
	"errors"

	"persona_diary/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// GenerateFunc produces answer text in the persona's voice. Implementations
// must not fail: generator errors come back as placeholder content.
type GenerateFunc func(ctx context.Context, name, description, question string) string

// GetOrCreate returns the stored answer for (character, question), invoking
// the generator and inserting a new row when none exists yet. created reports
// whether this call produced the row; false means the question was already
// answered, which callers surface as informational, not as a failure.
//
// Two concurrent calls for the same pair race between the pre-check and the
// insert. The loser's insert hits the unique index and is translated back to
// the already-answered outcome by re-reading the winner's row, so exactly one
// answer is ever stored and no generator output is double-written.
func GetOrCreate(ctx context.Context, gdb *gorm.DB, character *domain.Character, question *domain.Question, generate GenerateFunc) (*domain.Answer, bool, error) {
	var existing domain.Answer
	err := gdb.WithContext(ctx).
		Where("character_id = ? AND question_id = ?", character.ID, question.ID).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil // Already answered; no generator call
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// Blocking call, bounded by the generator's own timeout. Placeholder
	// strings from generator failures are stored like any other content.
	content := generate(ctx, character.Name, character.Description, question.Content)

	answer := domain.Answer{
		CharacterID: character.ID,
		QuestionID:  question.ID,
		Content:     content,
	}
	if err := gdb.WithContext(ctx).Create(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; hand back the row that won
			if err := gdb.WithContext(ctx).
				Where("character_id = ? AND question_id = ?", character.ID, question.ID).
				First(&existing).Error; err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &answer, true, nil
}
