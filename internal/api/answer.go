package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Route parameter parsing
	"time"     // Availability clock

	"persona_diary/internal/domain" // Importing domain models
	"persona_diary/internal/ledger" // Answer ledger
	"persona_diary/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// AnswerQuestionHandler runs the answer action for one question: checks the
// question exists and is unlocked for the persona, then lets the ledger
// generate and store the answer. Every outcome lands back on the dashboard
// with a flash message; a generator failure still stores a placeholder
// answer, so this route never fails for a successfully unlocked question.
func AnswerQuestionHandler(gdb *gorm.DB, rdb *redis.Client, generate ledger.GenerateFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		character := c.MustGet("character").(*domain.Character)

		questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			utils.SetFlash(c, rdb, utils.FlashError, "Question not found.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
		var question domain.Question // Fetch the question
		if err := gdb.First(&question, questionID).Error; err != nil {
			utils.SetFlash(c, rdb, utils.FlashError, "Question not found.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}

		var catalog []domain.Question // Availability is computed over the full catalog
		if err := gdb.Order("day_number").Find(&catalog).Error; err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to load question catalog")
			utils.SetFlash(c, rdb, utils.FlashError, "Could not save the answer. Please try again.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
		unlocked := false
		for _, q := range domain.AvailableQuestions(character, catalog, time.Now()) {
			if q.ID == question.ID {
				unlocked = true
				break
			}
		}
		if !unlocked {
			utils.SetFlash(c, rdb, utils.FlashError, "That question is not available yet.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}

		answer, created, err := ledger.GetOrCreate(c.Request.Context(), gdb, character, &question, generate)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"character_id": character.ID,
				"question_id":  question.ID,
				"error":        err.Error(),
			}).Error("Failed to store answer")
			utils.SetFlash(c, rdb, utils.FlashError, "Could not save the answer. Please try again.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
		if !created {
			// Idempotent outcome, informational rather than an error
			utils.SetFlash(c, rdb, utils.FlashInfo, "You already answered this question.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
		logrus.WithFields(logrus.Fields{
			"character_id": character.ID,
			"question_id":  question.ID,
			"answer_id":    answer.ID,
		}).Info("Answer created")
		// The dashboard changed; drop its cached payload
		_ = utils.DeleteCache(c.Request.Context(), rdb, dashboardCacheKey(character.ID))
		utils.SetFlash(c, rdb, utils.FlashSuccess, "Answer created!")
		c.Redirect(http.StatusSeeOther, "/dashboard")
	}
}
