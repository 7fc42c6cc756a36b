package utils

import (
	"time" // TTL for pending messages

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Flash cookie IDs
	"github.com/redis/go-redis/v9" // Redis client
)

// Flash message categories
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// FlashCookie names the browser cookie that ties a visitor to pending flash
// messages. It is independent of the session cookie so validation errors on
// the registration and login forms can flash before any user exists.
const FlashCookie = "flash_id"

// flashTTL bounds how long an unread message waits in Redis
const flashTTL = 10 * time.Minute

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"` // success, error or info
	Message  string `json:"message"`  // User-facing text
}

// flashID returns the visitor's flash cookie, minting one when absent
func flashID(c *gin.Context) string {
	if id, err := c.Cookie(FlashCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(FlashCookie, id, 0, "/", "", false, true) // Session-scoped, HttpOnly
	return id
}

// SetFlash queues a one-shot message for the visitor's next page
func SetFlash(c *gin.Context, rdb *redis.Client, category, message string) {
	key := "flash:" + flashID(c)
	// A newer message replaces any unread one, matching one-slot flash semantics
	_ = SetCache(c.Request.Context(), rdb, key, Flash{Category: category, Message: message}, flashTTL)
}

// PopFlash returns the pending message for the visitor, if any, and clears it
func PopFlash(c *gin.Context, rdb *redis.Client) *Flash {
	id, err := c.Cookie(FlashCookie)
	if err != nil || id == "" {
		return nil // No flash cookie means nothing pending
	}
	key := "flash:" + id
	var flash Flash
	found, err := GetCache(c.Request.Context(), rdb, key, &flash)
	if err != nil || !found {
		return nil
	}
	_ = DeleteCache(c.Request.Context(), rdb, key) // One-shot: consumed on read
	return &flash
}
