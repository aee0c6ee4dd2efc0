package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/tenfreethrows/freethrows/internal/admin"
)

var errNoRuntimeTuning = errors.New("runtime tuning not configured")

// GetAdminRuntimeConfig returns all runtime config entries
func GetAdminRuntimeConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := admin.GetAllRuntimeConfig(c.Request.Context(), db)
		if err != nil {
			logger.Error("fetch runtime config", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch config"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"configs": configs})
	}
}

// UpdateAdminRuntimeConfig updates a single game rule and reloads the rules
// new sessions start with.
func UpdateAdminRuntimeConfig(db *sqlx.DB, rt *admin.RuntimeTuning) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		key := c.Param("key")

		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}
		if rt == nil {
			logger.Error("update config", "key", key, "err", errNoRuntimeTuning)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoRuntimeTuning.Error()})
			return
		}

		ctx := c.Request.Context()
		details := map[string]any{"key": key, "value": req.Value}
		if err := admin.UpdateRuntimeConfigValue(ctx, db, key, req.Value, adminUsername); err != nil {
			logger.Warn("update config rejected", "key", key, "err", err)
			audit(ctx, db, c, adminUsername, "update_config", details, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		n, err := rt.Reload(ctx, db)
		if err != nil {
			logger.Warn("runtime config saved but not applied", "key", key, "err", err)
		} else {
			logger.Info("runtime config applied", "key", key, "value", req.Value, "entries", n)
		}

		audit(ctx, db, c, adminUsername, "update_config", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
