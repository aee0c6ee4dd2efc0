package handlers

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/leaderboard"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/models"
)

var logger = logging.Discard()

// SetLogger sets the logger used by every handler.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// LeaderboardStore is the part of leaderboard.Repository the handlers use.
type LeaderboardStore interface {
	Page(ctx context.Context, q leaderboard.Query) (leaderboard.Result, error)
	FindUsers(ctx context.Context, username string) ([]models.User, error)
	RecordRound(ctx context.Context, username string, res game.RoundResult) (int, error)
	DeleteRound(ctx context.Context, id int) (bool, error)
}

// queryInt reads an integer query parameter, falling back to def when it
// is missing or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
