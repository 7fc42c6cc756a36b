package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Cache key building
	"time"     // Availability clock and cache TTL

	"persona_diary/internal/domain" // Importing domain models
	"persona_diary/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// dashboardCacheTTL bounds staleness of the cached dashboard payload. The
// unlock boundary moves at most once per day, so 60 seconds only delays the
// midnight rollover, never an answer (writes invalidate).
const dashboardCacheTTL = 60 * time.Second

// dashboardCacheKey builds the Redis key for a character's dashboard payload
func dashboardCacheKey(characterID uint) string {
	return "dashboard:character:" + strconv.Itoa(int(characterID))
}

// QuestionCard pairs an unlocked question with its answer, if any
type QuestionCard struct {
	Question   domain.Question `json:"question"`
	Answer     *domain.Answer  `json:"answer"` // nil until answered
	IsAnswered bool            `json:"is_answered"`
}

// dashboardView is the cached portion of the dashboard payload; flash
// messages are one-shot and never cached
type dashboardView struct {
	Character domain.Character `json:"character"`
	Questions []QuestionCard   `json:"questions"`
}

// DashboardHandler returns the persona plus one card per unlocked question.
// Runs behind the character middleware, so the persona is always present.
func DashboardHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		character := c.MustGet("character").(*domain.Character)

		ctx := c.Request.Context()
		cacheKey := dashboardCacheKey(character.ID)
		var view dashboardView
		found, err := utils.GetCache(ctx, rdb, cacheKey, &view) // Try the cache first
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"character": view.Character,
				"questions": view.Questions,
				"flash":     utils.PopFlash(c, rdb),
				"cached":    true,
			})
			return
		}

		var catalog []domain.Question // Full question catalog
		if err := gdb.Order("day_number").Find(&catalog).Error; err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to load question catalog")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load questions"})
			return
		}
		available := domain.AvailableQuestions(character, catalog, time.Now())

		var answers []domain.Answer // This persona's ledger rows
		if err := gdb.Where("character_id = ?", character.ID).Find(&answers).Error; err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to load answers")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load answers"})
			return
		}
		answerByQuestion := make(map[uint]*domain.Answer, len(answers))
		for i := range answers {
			answerByQuestion[answers[i].QuestionID] = &answers[i]
		}

		cards := make([]QuestionCard, 0, len(available))
		for _, q := range available {
			answer := answerByQuestion[q.ID]
			cards = append(cards, QuestionCard{
				Question:   q,
				Answer:     answer,
				IsAnswered: answer != nil,
			})
		}

		view = dashboardView{Character: *character, Questions: cards}
		_ = utils.SetCache(ctx, rdb, cacheKey, view, dashboardCacheTTL) // Cache for the next hit
		c.JSON(http.StatusOK, gin.H{
			"character": view.Character,
			"questions": view.Questions,
			"flash":     utils.PopFlash(c, rdb),
			"cached":    false,
		})
	}
}
