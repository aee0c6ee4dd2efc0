package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var ErrSlotEmpty = errors.New("persisted slot is empty")

// Slot is the single key-value slot holding progress between sessions. Load
// returns ErrSlotEmpty when nothing is stored.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// PersistedState is the stored record of the last completed round.
type PersistedState struct {
	SchemaVersion int    `json:"schemaVersion"`
	Date          string `json:"date"`
	Score         int    `json:"score"`
	DaysInARow    int    `json:"daysInARow"`
}

// RoundResult is reported when a round's last shot is taken.
type RoundResult struct {
	Date       string `json:"date"`
	Score      int    `json:"score"`
	BestStreak int    `json:"best_streak"`
	DaysInARow int    `json:"days_in_a_row"`
}

// DecodePersisted parses and validates a stored record for the given schema.
func DecodePersisted(data []byte, schema int) (PersistedState, error) {
	var ps PersistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		return ps, fmt.Errorf("parse persisted state: %w", err)
	}
	if ps.SchemaVersion == 0 || ps.SchemaVersion != schema {
		return ps, fmt.Errorf("unsupported schema version %d", ps.SchemaVersion)
	}
	if _, err := time.Parse(dateLayout, ps.Date); err != nil {
		return ps, fmt.Errorf("bad date %q: %w", ps.Date, err)
	}
	if ps.Score < 0 || ps.DaysInARow < 0 {
		return ps, fmt.Errorf("negative counters in persisted state")
	}
	return ps, nil
}

func (c *Core) today() string {
	return c.now().Format(dateLayout)
}

// loadPersisted applies the stored slot to a fresh state. Any problem with
// the stored record clears the slot and keeps the defaults.
func (c *Core) loadPersisted(ctx context.Context) {
	if c.slot == nil {
		return
	}

	data, err := c.slot.Load(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return
	}
	if err != nil {
		c.log.Warn("persisted state unavailable", "err", err)
		return
	}

	ps, err := DecodePersisted(data, c.tun.Rules.SchemaVersion)
	if err != nil {
		c.log.Warn("discarding persisted state", "err", err)
		if cerr := c.slot.Clear(ctx); cerr != nil {
			c.log.Warn("clear persisted state", "err", cerr)
		}
		return
	}

	c.state.DaysInARow = ps.DaysInARow
	c.lastPlayed = ps.Date
	// dates in YYYY-MM-DD compare correctly as strings
	if ps.Date >= c.today() {
		c.state.ShotsLeft = 0
		c.state.Score = ps.Score
		c.log.Info("resuming finished round", "date", ps.Date, "score", ps.Score)
	}
}

func (c *Core) persist(ctx context.Context, date string) {
	if c.slot == nil {
		return
	}
	data, err := json.Marshal(PersistedState{
		SchemaVersion: c.tun.Rules.SchemaVersion,
		Date:          date,
		Score:         c.state.Score,
		DaysInARow:    c.state.DaysInARow,
	})
	if err != nil {
		c.log.Error("encode persisted state", "err", err)
		return
	}
	if err := c.slot.Save(ctx, data); err != nil {
		c.log.Warn("save persisted state", "err", err)
	}
}
