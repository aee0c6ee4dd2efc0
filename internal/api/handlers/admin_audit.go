package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/tenfreethrows/freethrows/internal/admin"
)

const maxAuditLimit = 200

// GetAdminAuditLogs returns paginated audit log entries
func GetAdminAuditLogs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.Query("admin_username")
		limit := min(max(queryInt(c, "limit", 25), 1), maxAuditLimit)
		offset := max(queryInt(c, "offset", 0), 0)

		logs, err := admin.GetAdminAuditLogs(c.Request.Context(), db, adminUsername, limit, offset)
		if err != nil {
			logger.Error("fetch audit logs", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}

		// viewing the audit log is not itself audited
		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
