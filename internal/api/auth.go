package api

import (
	"errors"
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Revocation TTLs

	"persona_diary/internal/domain"     // Importing domain models
	"persona_diary/internal/middleware" // Session cookie names
	"persona_diary/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// minPasswordLength is the registration password floor
const minPasswordLength = 6

// setSessionCookie establishes an authenticated session for the user
func setSessionCookie(c *gin.Context, userID uint, secret string) error {
	token, err := utils.GenerateSessionToken(userID, secret)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.SessionCookie, token, int(utils.SessionDuration.Seconds()), "/", "", false, true)
	return nil
}

// currentUserID resolves the session cookie on public routes, where the auth
// middleware does not run. Reports false for missing, invalid or revoked
// sessions.
func currentUserID(c *gin.Context, secret string, rdb *redis.Client) (uint, bool) {
	tokenStr, err := c.Cookie(middleware.SessionCookie)
	if err != nil || tokenStr == "" {
		return 0, false
	}
	claims, err := utils.ParseSessionToken(tokenStr, secret)
	if err != nil {
		return 0, false
	}
	revoked, err := rdb.Exists(c.Request.Context(), middleware.RevokedSessionKey(claims.ID)).Result()
	if err == nil && revoked > 0 {
		return 0, false
	}
	return claims.UserID, true
}

// IndexHandler routes the visitor to the page matching their state: login
// when signed out, persona creation when signed in without a character,
// dashboard otherwise
func IndexHandler(gdb *gorm.DB, secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c, secret, rdb)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		var character domain.Character
		if err := gdb.Where("user_id = ?", userID).First(&character).Error; err != nil {
			c.Redirect(http.StatusFound, "/character/create")
			return
		}
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

// RegisterPageHandler renders the registration form payload
func RegisterPageHandler(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Signed-in users have no business on the registration form
		if _, ok := currentUserID(c, secret, rdb); ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": "register", "flash": utils.PopFlash(c, rdb)})
	}
}

// RegisterHandler validates the registration form, creates the user and
// immediately signs them in. Every validation failure gets its own flash
// message and leaves the database untouched.
func RegisterHandler(gdb *gorm.DB, secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c, secret, rdb); ok {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")
		confirm := c.PostForm("confirm")

		// Field checks, each with a distinct message
		if email == "" || password == "" {
			utils.SetFlash(c, rdb, utils.FlashError, "Please enter an email and password.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}
		if password != confirm {
			utils.SetFlash(c, rdb, utils.FlashError, "Passwords do not match.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}
		if len(password) < minPasswordLength {
			utils.SetFlash(c, rdb, utils.FlashError, "Password must be at least 6 characters.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}
		var existing domain.User
		if err := gdb.Where("email = ?", email).First(&existing).Error; err == nil {
			utils.SetFlash(c, rdb, utils.FlashError, "That email is already in use.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}

		// Hash the password; plaintext is never stored or logged
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to hash password")
			utils.SetFlash(c, rdb, utils.FlashError, "Registration failed. Please try again.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}
		user := domain.User{Email: email, PasswordHash: string(hash)}
		if err := gdb.Create(&user).Error; err != nil {
			// The unique index closes the race two concurrent signups can hit
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				utils.SetFlash(c, rdb, utils.FlashError, "That email is already in use.")
				c.Redirect(http.StatusSeeOther, "/register")
				return
			}
			logrus.WithFields(logrus.Fields{
				"email": email,
				"error": err.Error(),
			}).Error("Failed to create user")
			utils.SetFlash(c, rdb, utils.FlashError, "Registration failed. Please try again.")
			c.Redirect(http.StatusSeeOther, "/register")
			return
		}

		// Registration establishes a session right away
		if err := setSessionCookie(c, user.ID, secret); err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to create session")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   email,
		}).Info("User registered")
		utils.SetFlash(c, rdb, utils.FlashSuccess, "Welcome! Your account has been created.")
		c.Redirect(http.StatusSeeOther, "/character/create")
	}
}

// LoginPageHandler renders the login form payload
func LoginPageHandler(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c, secret, rdb); ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": "login", "flash": utils.PopFlash(c, rdb)})
	}
}

// LoginHandler authenticates a user and establishes a session. All failures
// share one generic message so the form never reveals which emails exist.
func LoginHandler(gdb *gorm.DB, secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c, secret, rdb); ok {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")

		var user domain.User
		if err := gdb.Where("email = ?", email).First(&user).Error; err != nil {
			utils.SetFlash(c, rdb, utils.FlashError, "Invalid email or password.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			logrus.WithField("user_id", user.ID).Info("Login failed")
			utils.SetFlash(c, rdb, utils.FlashError, "Invalid email or password.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		if err := setSessionCookie(c, user.ID, secret); err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to create session")
			utils.SetFlash(c, rdb, utils.FlashError, "Login failed. Please try again.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// LogoutHandler revokes the current session and clears the cookie
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Get("sessionID")
		expiry, _ := c.Get("sessionExpiry")
		if jti, ok := sessionID.(string); ok && jti != "" {
			// Keep the jti on the revocation list for the token's remaining life
			ttl := utils.SessionDuration
			if exp, ok := expiry.(time.Time); ok {
				ttl = time.Until(exp)
			}
			if ttl > 0 {
				if err := rdb.Set(c.Request.Context(), middleware.RevokedSessionKey(jti), "1", ttl).Err(); err != nil {
					logrus.WithField("error", err.Error()).Error("Failed to revoke session")
				}
			}
		}
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true) // Drop the cookie
		utils.SetFlash(c, rdb, utils.FlashSuccess, "You have been logged out.")
		c.Redirect(http.StatusFound, "/login")
	}
}
