package api

import (
	"persona_diary/internal/ledger"     // Answer ledger
	"persona_diary/internal/middleware" // Session and persona gates
	"persona_diary/internal/utils"      // Upload limits

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires every route. Registration and login are public; everything
// else sits behind the session middleware, and the persona-scoped routes
// additionally require a character.
func NewRouter(gdb *gorm.DB, rdb *redis.Client, secret, uploadDir string, generate ledger.GenerateFunc) *gin.Engine {
	r := gin.Default() // Gin router instance

	r.MaxMultipartMemory = utils.MaxUploadSize // Cap in-memory multipart buffering

	// Public routes
	r.GET("/", IndexHandler(gdb, secret, rdb))
	r.GET("/register", RegisterPageHandler(secret, rdb))
	r.POST("/register", RegisterHandler(gdb, secret, rdb))
	r.GET("/login", LoginPageHandler(secret, rdb))
	r.POST("/login", LoginHandler(gdb, secret, rdb))

	// Stored persona images
	r.Static("/uploads", uploadDir)

	// Authenticated routes
	auth := r.Group("")
	auth.Use(middleware.SessionAuthMiddleware(secret, rdb))
	auth.GET("/logout", LogoutHandler(rdb))
	auth.GET("/character/create", CreateCharacterPageHandler(gdb, rdb))
	auth.POST("/character/create", CreateCharacterHandler(gdb, rdb, uploadDir))

	// Persona-scoped routes
	persona := auth.Group("", middleware.RequireCharacterMiddleware(gdb))
	persona.GET("/dashboard", DashboardHandler(gdb, rdb))
	persona.POST("/question/:id/answer", AnswerQuestionHandler(gdb, rdb, generate))

	return r
}
