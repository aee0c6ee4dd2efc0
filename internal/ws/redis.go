package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/tenfreethrows/freethrows/internal/game"
)

// RoundEventsChannel carries completed rounds between server instances.
const RoundEventsChannel = "round_events"

// RoundEvent is published when a player finishes a round.
type RoundEvent struct {
	Type    string           `json:"type"`
	Player  string           `json:"player"`
	RoundID int              `json:"round_id,omitempty"`
	Result  game.RoundResult `json:"result"`
}

func PublishRoundEvent(ctx context.Context, rdb *redis.Client, ev RoundEvent) error {
	ev.Type = TypeRoundEvent
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := rdb.Publish(ctx, RoundEventsChannel, data).Err(); err != nil {
		return fmt.Errorf("publish round event: %w", err)
	}
	return nil
}

// StartRoundEventSubscriber relays round events from redis to every client
// of hub until ctx is done.
func StartRoundEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub, logger *log.Logger) {
	if rdb == nil {
		logger.Warn("redis client not set; round event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, RoundEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		logger.Info("round event subscriber started", "channel", RoundEventsChannel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relayRoundEvent(hub, logger, []byte(msg.Payload))
			}
		}
	}()
}

func relayRoundEvent(hub *Hub, logger *log.Logger, payload []byte) {
	var ev RoundEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		logger.Warn("invalid round event payload", "err", err)
		return
	}
	if ev.Player == "" {
		logger.Warn("round event without player")
		return
	}
	ev.Type = TypeRoundEvent
	n := hub.Broadcast(ev)
	logger.Debug("round event relayed", "player", ev.Player, "score", ev.Result.Score, "clients", n)
}
