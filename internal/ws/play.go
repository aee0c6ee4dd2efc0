package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/leaderboard"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/store"
)

const recordTimeout = 5 * time.Second

// RoundRecorder stores completed rounds.
type RoundRecorder interface {
	RecordRound(ctx context.Context, username string, res game.RoundResult) (int, error)
}

// PlayDeps are the collaborators of the play endpoint. Redis and Rounds
// may be nil; sessions then keep progress in memory and skip the feed.
type PlayDeps struct {
	Hub         *Hub
	Redis       *redis.Client
	Rounds      RoundRecorder
	Tuning      func() config.Tuning
	TickHz      int
	CheckOrigin func(*http.Request) bool
	Logger      *log.Logger
}

// HandlePlay upgrades the request and runs a session until the client leaves.
func HandlePlay(d PlayDeps) gin.HandlerFunc {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     d.CheckOrigin,
	}

	return func(c *gin.Context) {
		player, err := leaderboard.NormalizeUsername(c.Query("player"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid player name required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("upgrade failed", "player", player, "err", err)
			return
		}

		client := newClient(conn, player, "SESS_"+generateID(8))
		sessLog := logger.With("session", client.id)
		d.Hub.Register(client)
		defer d.Hub.Unregister(client)

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		sess, err := NewSession(ctx, player, client.SendJSON, SessionOptions{
			Tuning: d.Tuning(),
			Slot:   d.slotFor(player),
			TickHz: d.TickHz,
			Logger: sessLog,
			OnRoundComplete: func(res game.RoundResult) {
				client.SendJSON(RoundMessage{Type: TypeRoundComplete, Player: player, Result: res})
				go d.recordRound(player, res, sessLog)
			},
		})
		if err != nil {
			sessLog.Error("session setup failed", "player", player, "err", err)
			client.SendJSON(ErrorMessage{Type: TypeError, Message: "session unavailable"})
			client.close()
			client.writePump(sessLog)
			return
		}

		go client.writePump(sessLog)
		go func() {
			client.readPump(sessLog, func(data []byte) {
				var msg Inbound
				if err := json.Unmarshal(data, &msg); err != nil {
					client.SendJSON(ErrorMessage{Type: TypeError, Message: "invalid message"})
					return
				}
				if !sess.Push(msg) {
					sessLog.Warn("input queue full, dropping message", "player", player)
				}
			})
			cancel()
		}()

		sessLog.Info("session started", "player", player, "clients", d.Hub.Count())
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			sessLog.Error("session ended", "player", player, "err", err)
			return
		}
		sessLog.Info("session closed", "player", player, "frames", sess.driver.Frames())
	}
}

func (d PlayDeps) slotFor(player string) game.Slot {
	if d.Redis == nil {
		return store.NewMemorySlot(nil)
	}
	return store.NewRedisSlot(d.Redis, player)
}

// recordRound stores the round and announces it. Without redis the event
// goes straight to this server's clients.
func (d PlayDeps) recordRound(player string, res game.RoundResult, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	ev := RoundEvent{Type: TypeRoundEvent, Player: player, Result: res}
	if d.Rounds != nil {
		id, err := d.Rounds.RecordRound(ctx, player, res)
		if err != nil {
			logger.Error("record round failed", "player", player, "err", err)
			return
		}
		ev.RoundID = id
	}

	if d.Redis == nil {
		d.Hub.Broadcast(ev)
		return
	}
	if err := PublishRoundEvent(ctx, d.Redis, ev); err != nil {
		logger.Warn("round event not published", "player", player, "err", err)
	}
}
