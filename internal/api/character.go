package api

import (
	"errors"
	"fmt"
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"persona_diary/internal/domain" // Importing domain models
	"persona_diary/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// hasCharacter reports whether the user already owns a persona
func hasCharacter(gdb *gorm.DB, userID any) bool {
	var character domain.Character
	return gdb.Where("user_id = ?", userID).First(&character).Error == nil
}

// CreateCharacterPageHandler renders the persona creation form payload
func CreateCharacterPageHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		// One persona per user; a second visit goes straight to the dashboard
		if hasCharacter(gdb, userID) {
			utils.SetFlash(c, rdb, utils.FlashInfo, "You already have a character.")
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": "create_character", "flash": utils.PopFlash(c, rdb)})
	}
}

// CreateCharacterHandler creates the user's single persona, with an optional
// image upload. Rejected uploads (bad extension, oversized) are treated as
// "no image" rather than failing the whole creation.
func CreateCharacterHandler(gdb *gorm.DB, rdb *redis.Client, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if hasCharacter(gdb, userID) {
			utils.SetFlash(c, rdb, utils.FlashInfo, "You already have a character.")
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		description := strings.TrimSpace(c.PostForm("description"))
		if name == "" || description == "" {
			utils.SetFlash(c, rdb, utils.FlashError, "Please enter a name and description.")
			c.Redirect(http.StatusSeeOther, "/character/create")
			return
		}

		// Optional image; failures downgrade to no image
		var imagePath *string
		if fh, err := c.FormFile("image"); err == nil && fh.Filename != "" {
			stored, err := utils.SaveImage(fh, uploadDir)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id":  userID,
					"filename": fh.Filename,
					"error":    err.Error(),
				}).Warn("Image upload rejected")
			} else {
				imagePath = &stored
			}
		}

		character := domain.Character{
			UserID:      userID.(uint),
			Name:        name,
			Description: description,
			ImagePath:   imagePath,
		}
		if err := gdb.Create(&character).Error; err != nil {
			// The unique user_id index closes the race between two concurrent creates
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				utils.SetFlash(c, rdb, utils.FlashInfo, "You already have a character.")
				c.Redirect(http.StatusSeeOther, "/dashboard")
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to create character")
			utils.SetFlash(c, rdb, utils.FlashError, "Could not create the character. Please try again.")
			c.Redirect(http.StatusSeeOther, "/character/create")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,
			"character_id": character.ID,
			"name":         name,
		}).Info("Character created")
		utils.SetFlash(c, rdb, utils.FlashSuccess, fmt.Sprintf("%s has been created!", name))
		c.Redirect(http.StatusSeeOther, "/dashboard")
	}
}
