package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"persona_diary/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens an isolated in-memory database with the app schema
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.User{}, &domain.Character{}, &domain.Question{}, &domain.Answer{}))
	// One connection keeps the in-memory database alive and serializes writers
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return gdb
}

// seedPair stores a user, a character and one question
func seedPair(t *testing.T, gdb *gorm.DB) (*domain.Character, *domain.Question) {
	t.Helper()
	user := domain.User{Email: "a@b.c", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&user).Error)
	character := domain.Character{UserID: user.ID, Name: "Mika", Description: "a cheerful ramen cook"}
	require.NoError(t, gdb.Create(&character).Error)
	question := domain.Question{DayNumber: 1, Content: "What is your favorite food?"}
	require.NoError(t, gdb.Create(&question).Error)
	return &character, &question
}

// staticGenerate returns fixed content and counts invocations
func staticGenerate(content string, calls *atomic.Int64) GenerateFunc {
	return func(ctx context.Context, name, description, question string) string {
		if calls != nil {
			calls.Add(1)
		}
		return content
	}
}

func TestGetOrCreateInsertsOnFirstCall(t *testing.T) {
	gdb := openTestDB(t)
	character, question := seedPair(t, gdb)

	answer, created, err := GetOrCreate(context.Background(), gdb, character, question, staticGenerate("ramen, obviously", nil))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ramen, obviously", answer.Content)
	assert.Equal(t, character.ID, answer.CharacterID)
	assert.Equal(t, question.ID, answer.QuestionID)

	var count int64
	require.NoError(t, gdb.Model(&domain.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	character, question := seedPair(t, gdb)

	var calls atomic.Int64
	first, created, err := GetOrCreate(context.Background(), gdb, character, question, staticGenerate("first", &calls))
	require.NoError(t, err)
	require.True(t, created)

	// Second call reports already-answered and must not touch the generator
	second, created, err := GetOrCreate(context.Background(), gdb, character, question, staticGenerate("second", &calls))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Content)
	assert.EqualValues(t, 1, calls.Load())

	var count int64
	require.NoError(t, gdb.Model(&domain.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateTranslatesDuplicateInsert(t *testing.T) {
	gdb := openTestDB(t)
	character, question := seedPair(t, gdb)

	// The generator sneaks a rival row in after the pre-check has passed,
	// forcing this call's insert onto the unique index.
	rival := func(ctx context.Context, name, description, q string) string {
		row := domain.Answer{CharacterID: character.ID, QuestionID: question.ID, Content: "rival won"}
		require.NoError(t, gdb.Create(&row).Error)
		return "loser content"
	}

	answer, created, err := GetOrCreate(context.Background(), gdb, character, question, rival)
	require.NoError(t, err)
	assert.False(t, created, "constraint violation must become the already-answered outcome")
	assert.Equal(t, "rival won", answer.Content)

	var count int64
	require.NoError(t, gdb.Model(&domain.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateConcurrentCallers(t *testing.T) {
	gdb := openTestDB(t)
	character, question := seedPair(t, gdb)

	const n = 8
	var createdCount atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			gen := staticGenerate(fmt.Sprintf("answer from caller %d", i), nil)
			_, created, err := GetOrCreate(context.Background(), gdb, character, question, gen)
			assert.NoError(t, err)
			if created {
				createdCount.Add(1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	// Exactly one caller creates; the rest see already-answered
	assert.EqualValues(t, 1, createdCount.Load())
	var count int64
	require.NoError(t, gdb.Model(&domain.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateStoresPlaceholderContent(t *testing.T) {
	gdb := openTestDB(t)
	character, question := seedPair(t, gdb)

	placeholder := "[generator error] upstream returned status 500"
	answer, created, err := GetOrCreate(context.Background(), gdb, character, question, staticGenerate(placeholder, nil))
	require.NoError(t, err)
	assert.True(t, created)
	// Placeholders are answers too; the row is stored verbatim
	assert.Equal(t, placeholder, answer.Content)
}
