package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/leaderboard"
)

type roundRequest struct {
	Username   string `json:"username" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Score      int    `json:"score"`
	BestStreak int    `json:"best_streak"`
	DaysInARow int    `json:"days_in_a_row"`
}

// validate rejects rounds no game with these rules could produce.
func (r roundRequest) validate(t config.Tuning) error {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	maxScore := t.Rules.Shots * (1 + t.Rules.SwishBonus)
	if r.Score < 0 || r.Score > maxScore {
		return errors.New("score out of range")
	}
	if r.BestStreak < 0 || r.BestStreak > t.Rules.Shots {
		return errors.New("best_streak out of range")
	}
	if r.DaysInARow < 1 {
		return errors.New("days_in_a_row must be at least 1")
	}
	return nil
}

// RecordRound stores a completed round for a player
func RecordRound(store LeaderboardStore, tuning func() config.Tuning) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req roundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		username, err := leaderboard.NormalizeUsername(req.Username)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
			return
		}
		if err := req.validate(tuning()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := store.RecordRound(c.Request.Context(), username, game.RoundResult{
			Date:       req.Date,
			Score:      req.Score,
			BestStreak: req.BestStreak,
			DaysInARow: req.DaysInARow,
		})
		if err != nil {
			logger.Error("record round failed", "username", username, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record round"})
			return
		}

		logger.Info("round recorded", "username", username, "date", req.Date, "score", req.Score)
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}
