package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thatcatcamp/catbox/internal/auth"
	"github.com/thatcatcamp/catbox/internal/config"
	"github.com/thatcatcamp/catbox/internal/middleware"
	"github.com/thatcatcamp/catbox/internal/vault"
)

// NewRouter wires the API onto a gin engine
func NewRouter(v *vault.Vault) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.SecurityHeadersMiddleware())

	if blocklist := config.GetStringSlice("security.blocked_ips"); len(blocklist) > 0 {
		r.Use(middleware.IPFilterMiddleware(blocklist))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catbox",
		})
	})

	// Brute-force protection on login
	limit := config.GetInt("auth.login_rate_limit")
	if limit == 0 {
		limit = 5
	}
	window := config.GetDuration("auth.login_rate_window")
	if window == 0 {
		window = time.Minute
	}
	loginLimiter := middleware.NewRateLimiter(limit, window)

	api := r.Group("/api")
	api.POST("/login", middleware.RateLimitMiddleware(loginLimiter), LoginHandler)

	authed := api.Group("")
	authed.Use(auth.RequireAuth())
	{
		authed.GET("/whoami", WhoamiHandler)
		authed.GET("/files/*filepath", GetFileHandler(v))
		authed.PUT("/files/*filepath", UploadFileHandler(v))
		authed.DELETE("/files/*filepath", DeleteFileHandler(v))
		authed.GET("/ls/*filepath", ListHandler(v))
		authed.POST("/mkdir/*filepath", MkdirHandler(v))
		authed.GET("/search", SearchHandler)
	}

	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	{
		admin.GET("/users", ListUsersHandler)
	}

	return r
}
