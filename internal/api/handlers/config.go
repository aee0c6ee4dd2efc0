package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tenfreethrows/freethrows/internal/config"
)

// GetConfig returns the rule values a client needs to draw the HUD
func GetConfig(tuning func() config.Tuning) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := tuning()
		c.JSON(http.StatusOK, gin.H{
			"shots":           t.Rules.Shots,
			"swish_bonus":     t.Rules.SwishBonus,
			"made_respawn_ms": t.Rules.MadeRespawnMs,
			"miss_respawn_ms": t.Rules.MissRespawnMs,
			"toast_ms":        t.Feedback.ToastMs,
			"world_width":     t.World.Width,
			"world_height":    t.World.Height,
			"max_pull":        t.Input.MaxPull,
		})
	}
}
