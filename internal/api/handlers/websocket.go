package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tenfreethrows/freethrows/internal/ws"
)

// HandlePlayWebSocket opens a remote play session for ?player=
func HandlePlayWebSocket(deps ws.PlayDeps) gin.HandlerFunc {
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return ws.HandlePlay(deps)
}
