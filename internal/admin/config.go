package admin

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/models"
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(ctx context.Context, db *sqlx.DB) ([]models.RuntimeConfig, error) {
	var configs []models.RuntimeConfig
	err := db.SelectContext(ctx, &configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(ctx context.Context, db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.GetContext(ctx, &cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateValue checks value against the declared value type.
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// UpdateRuntimeConfigValue updates a single runtime config value
func UpdateRuntimeConfigValue(ctx context.Context, db *sqlx.DB, key, value, adminUsername string) error {
	existing, err := GetRuntimeConfigValue(ctx, db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}
	if err := ValidateValue(existing.ValueType, value); err != nil {
		return err
	}
	// reject values the game would refuse before they reach a session
	probe := config.DefaultTuning()
	if err := ApplyOverride(&probe, key, value); err != nil {
		return err
	}
	if err := probe.Validate(); err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, adminUsername, key)
	return err
}

// ApplyOverride sets one tuning rule from its runtime config key. Unknown
// keys are ignored.
func ApplyOverride(t *config.Tuning, key, value string) error {
	atoi := func(dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if v < 0 {
			return fmt.Errorf("%s: must not be negative", key)
		}
		*dst = v
		return nil
	}

	switch key {
	case "shots":
		return atoi(&t.Rules.Shots)
	case "swish_bonus":
		return atoi(&t.Rules.SwishBonus)
	case "made_respawn_ms":
		return atoi(&t.Rules.MadeRespawnMs)
	case "miss_respawn_ms":
		return atoi(&t.Rules.MissRespawnMs)
	case "toast_ms":
		return atoi(&t.Feedback.ToastMs)
	case "rim_damping":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s: must be in (0, 1]", key)
		}
		t.Rules.RimDamping = v
	}
	return nil
}

// RuntimeTuning holds the tuning new sessions start from: the file/default
// tuning with the database overrides applied on top.
type RuntimeTuning struct {
	mu      sync.RWMutex
	base    config.Tuning
	current config.Tuning
}

func NewRuntimeTuning(base config.Tuning) *RuntimeTuning {
	return &RuntimeTuning{base: base, current: base}
}

// Get returns a copy safe for a session to keep.
func (r *RuntimeTuning) Get() config.Tuning {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Apply rebuilds the current tuning from base plus entries. A bad entry is
// reported and the previous tuning is kept.
func (r *RuntimeTuning) Apply(entries []models.RuntimeConfig) error {
	next := r.base
	for _, e := range entries {
		if err := ApplyOverride(&next, e.Key, e.Value); err != nil {
			return err
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.current = next
	r.mu.Unlock()
	return nil
}

// Reload reads the overrides from the database and applies them.
func (r *RuntimeTuning) Reload(ctx context.Context, db *sqlx.DB) (int, error) {
	entries, err := GetAllRuntimeConfig(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("load runtime config: %w", err)
	}
	if err := r.Apply(entries); err != nil {
		return 0, fmt.Errorf("apply runtime config: %w", err)
	}
	return len(entries), nil
}
