package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tenfreethrows/freethrows/internal/leaderboard"
)

// GetLeaderboard returns one page of a leaderboard view
func GetLeaderboard(store LeaderboardStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := leaderboard.Query{
			View:   c.DefaultQuery("view", leaderboard.ViewLeaderboard),
			Search: c.Query("search"),
			Page:   queryInt(c, "page", 1),
			Limit:  queryInt(c, "limit", leaderboard.DefaultLimit),
		}

		res, err := store.Page(c.Request.Context(), q)
		if errors.Is(err, leaderboard.ErrInvalidView) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid view parameter"})
			return
		}
		if err != nil {
			logger.Error("leaderboard query failed", "view", q.View, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// GetUser returns the users matching ?username=
func GetUser(store LeaderboardStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username query parameter is required"})
			return
		}

		users, err := store.FindUsers(c.Request.Context(), username)
		if errors.Is(err, leaderboard.ErrInvalidUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
			return
		}
		if err != nil {
			logger.Error("user lookup failed", "username", username, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": users})
	}
}
