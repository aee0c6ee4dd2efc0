package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/tenfreethrows/freethrows/internal/admin"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/middleware"
)

// audit records an admin action; a failed insert is logged, not returned.
func audit(ctx context.Context, db *sqlx.DB, c *gin.Context, username, action string, details map[string]any, success bool) {
	if err := admin.LogAdminAction(ctx, db, username, c.ClientIP(), c.FullPath(), action, details, success); err != nil {
		logger.Warn("audit insert failed", "action", action, "err", err)
	}
}

// AdminLogin exchanges an admin username and token for a bearer JWT
func AdminLogin(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Token    string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		ctx := c.Request.Context()
		username := strings.TrimSpace(req.Username)
		acc, err := admin.ValidateAdminCredentials(ctx, db, username, strings.TrimSpace(req.Token), c.ClientIP())
		if err != nil {
			logger.Warn("admin login failed", "username", username, "err", err)
			audit(ctx, db, c, username, "login", map[string]any{"username": username}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, exp, err := middleware.IssueAdminToken(cfg, acc.Username, time.Now())
		if err != nil {
			logger.Error("issue admin token", "username", username, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		audit(ctx, db, c, acc.Username, "login", map[string]any{"username": username}, true)
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp.UTC().Format(time.RFC3339),
			"admin": gin.H{
				"username":     acc.Username,
				"display_name": acc.DisplayName,
				"roles":        acc.Roles,
			},
		})
	}
}

// AdminMe returns the current admin identity
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("admin_username")})
	}
}

// AdminDeleteRound removes a recorded round
func AdminDeleteRound(db *sqlx.DB, store LeaderboardStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round id"})
			return
		}

		ctx := c.Request.Context()
		found, err := store.DeleteRound(ctx, id)
		if err != nil {
			logger.Error("delete round failed", "id", id, "err", err)
			audit(ctx, db, c, adminUsername, "delete_round", map[string]any{"id": id}, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete round"})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}

		audit(ctx, db, c, adminUsername, "delete_round", map[string]any{"id": id}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
