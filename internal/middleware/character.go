package middleware

import (
	"net/http"                      // HTTP status codes
	"persona_diary/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RequireCharacterMiddleware loads the authenticated user's character on each
// request and redirects to persona creation when none exists. Routes behind
// it can take the character from the context.
func RequireCharacterMiddleware(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		var character domain.Character // Fetch the persona from the database
		if err := gdb.Where("user_id = ?", userID).First(&character).Error; err != nil {
			// No persona yet; the dashboard and answer routes need one
			c.Redirect(http.StatusFound, "/character/create")
			c.Abort()
			return
		}
		c.Set("character", &character) // Store the persona in context
		c.Next()                       // Proceed to the next handler
	}
}
