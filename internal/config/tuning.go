package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrUnknownTuningFormat = errors.New("unknown tuning file format")

// Tuning holds every gameplay constant. Units follow the simulation: pixels,
// pixels per step for velocities, milliseconds for delays.
type Tuning struct {
	World     WorldTuning     `yaml:"world" toml:"world"`
	Materials MaterialsTuning `yaml:"materials" toml:"materials"`
	Ball      BallTuning      `yaml:"ball" toml:"ball"`
	Hoop      HoopTuning      `yaml:"hoop" toml:"hoop"`
	Rules     RulesTuning     `yaml:"rules" toml:"rules"`
	Settle    SettleTuning    `yaml:"settle" toml:"settle"`
	Input     InputTuning     `yaml:"input" toml:"input"`
	Shadow    ShadowTuning    `yaml:"shadow" toml:"shadow"`
	Feedback  FeedbackTuning  `yaml:"feedback" toml:"feedback"`
}

type WorldTuning struct {
	Width            float64 `yaml:"width" toml:"width"`
	Height           float64 `yaml:"height" toml:"height"`
	FloorY           float64 `yaml:"floor_y" toml:"floor_y"`
	FloorThickness   float64 `yaml:"floor_thickness" toml:"floor_thickness"`
	Gravity          float64 `yaml:"gravity" toml:"gravity"`
	StepHz           float64 `yaml:"step_hz" toml:"step_hz"`
	Substeps         int     `yaml:"substeps" toml:"substeps"`
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame" toml:"max_steps_per_frame"`
	RestingThreshold float64 `yaml:"resting_threshold" toml:"resting_threshold"`
	OutMarginX       float64 `yaml:"out_margin_x" toml:"out_margin_x"`
	OutMarginTop     float64 `yaml:"out_margin_top" toml:"out_margin_top"`
	MaxFrameSeconds  float64 `yaml:"max_frame_seconds" toml:"max_frame_seconds"`
}

type Material struct {
	Restitution float64 `yaml:"restitution" toml:"restitution"`
	Friction    float64 `yaml:"friction" toml:"friction"`
	Density     float64 `yaml:"density" toml:"density"`
	AirFriction float64 `yaml:"air_friction" toml:"air_friction"`
}

type MaterialsTuning struct {
	Ball      Material `yaml:"ball" toml:"ball"`
	Floor     Material `yaml:"floor" toml:"floor"`
	Rim       Material `yaml:"rim" toml:"rim"`
	Backboard Material `yaml:"backboard" toml:"backboard"`
}

type BallTuning struct {
	Radius         float64 `yaml:"radius" toml:"radius"`
	FreeThrowX     float64 `yaml:"free_throw_x" toml:"free_throw_x"`
	SpawnLift      float64 `yaml:"spawn_lift" toml:"spawn_lift"`
	SpinFactor     float64 `yaml:"spin_factor" toml:"spin_factor"`
	BackspinFactor float64 `yaml:"backspin_factor" toml:"backspin_factor"`
	TrailLength    int     `yaml:"trail_length" toml:"trail_length"`
}

type HoopTuning struct {
	X              float64 `yaml:"x" toml:"x"`
	Y              float64 `yaml:"y" toml:"y"`
	Radius         float64 `yaml:"radius" toml:"radius"`
	LeftPegRadius  float64 `yaml:"left_peg_radius" toml:"left_peg_radius"`
	RightPegRadius float64 `yaml:"right_peg_radius" toml:"right_peg_radius"`
	RightPegInset  float64 `yaml:"right_peg_inset" toml:"right_peg_inset"`
	RightPegDrop   float64 `yaml:"right_peg_drop" toml:"right_peg_drop"`
	BoardWidth     float64 `yaml:"board_width" toml:"board_width"`
	BoardHeight    float64 `yaml:"board_height" toml:"board_height"`
	BoardGap       float64 `yaml:"board_gap" toml:"board_gap"`
	BoardRise      float64 `yaml:"board_rise" toml:"board_rise"`
	BoardBodyTrimW float64 `yaml:"board_body_trim_w" toml:"board_body_trim_w"`
	BoardBodyTrimH float64 `yaml:"board_body_trim_h" toml:"board_body_trim_h"`
	BoardBodyDrop  float64 `yaml:"board_body_drop" toml:"board_body_drop"`
}

type RulesTuning struct {
	Shots                int     `yaml:"shots" toml:"shots"`
	SwishBonus           int     `yaml:"swish_bonus" toml:"swish_bonus"`
	ExitDepthRadii       float64 `yaml:"exit_depth_radii" toml:"exit_depth_radii"`
	RimDamping           float64 `yaml:"rim_damping" toml:"rim_damping"`
	BackboardDampingX    float64 `yaml:"backboard_damping_x" toml:"backboard_damping_x"`
	BackboardDampingY    float64 `yaml:"backboard_damping_y" toml:"backboard_damping_y"`
	BackboardSpinDamping float64 `yaml:"backboard_spin_damping" toml:"backboard_spin_damping"`
	MadeRespawnMs        int     `yaml:"made_respawn_ms" toml:"made_respawn_ms"`
	MissRespawnMs        int     `yaml:"miss_respawn_ms" toml:"miss_respawn_ms"`
	SchemaVersion        int     `yaml:"schema_version" toml:"schema_version"`
}

// SettleTuning drives the floor rest check.
type SettleTuning struct {
	Proximity float64 `yaml:"proximity" toml:"proximity"`
	SlowSpeed float64 `yaml:"slow_speed" toml:"slow_speed"`
	SlowSpin  float64 `yaml:"slow_spin" toml:"slow_spin"`
	DampX     float64 `yaml:"damp_x" toml:"damp_x"`
	DampY     float64 `yaml:"damp_y" toml:"damp_y"`
	DampSpin  float64 `yaml:"damp_spin" toml:"damp_spin"`
	RestSpeed float64 `yaml:"rest_speed" toml:"rest_speed"`
}

type InputTuning struct {
	MaxPull      float64 `yaml:"max_pull" toml:"max_pull"`
	PowerDivisor float64 `yaml:"power_divisor" toml:"power_divisor"`
}

type ShadowTuning struct {
	MaxHeight  float64 `yaml:"max_height" toml:"max_height"`
	BaseScale  float64 `yaml:"base_scale" toml:"base_scale"`
	MaxScale   float64 `yaml:"max_scale" toml:"max_scale"`
	MaxOpacity float64 `yaml:"max_opacity" toml:"max_opacity"`
	MinOpacity float64 `yaml:"min_opacity" toml:"min_opacity"`
}

type FeedbackTuning struct {
	ToastMs           int     `yaml:"toast_ms" toml:"toast_ms"`
	RimCueSpeed       float64 `yaml:"rim_cue_speed" toml:"rim_cue_speed"`
	BackboardCueSpeed float64 `yaml:"backboard_cue_speed" toml:"backboard_cue_speed"`
	FloorCueSpeed     float64 `yaml:"floor_cue_speed" toml:"floor_cue_speed"`
}

// DefaultTuning returns a fresh copy of the stock constants on every call.
func DefaultTuning() Tuning {
	return Tuning{
		World: WorldTuning{
			Width:            900,
			Height:           600,
			FloorY:           600,
			FloorThickness:   50,
			Gravity:          0.5,
			StepHz:           60,
			Substeps:         2,
			MaxStepsPerFrame: 4,
			RestingThreshold: 2,
			OutMarginX:       100,
			OutMarginTop:     200,
			MaxFrameSeconds:  0.016,
		},
		Materials: MaterialsTuning{
			Ball:      Material{Restitution: 0.75, Friction: 0.7, Density: 0.6, AirFriction: 0.008},
			Floor:     Material{Restitution: 0.65, Friction: 0.9},
			Rim:       Material{Restitution: 0.85, Friction: 0.4},
			Backboard: Material{Restitution: 0.7, Friction: 0.2},
		},
		Ball: BallTuning{
			Radius:         28,
			FreeThrowX:     200,
			SpawnLift:      3,
			SpinFactor:     0.8,
			BackspinFactor: -0.02,
			TrailLength:    18,
		},
		Hoop: HoopTuning{
			X:              675,
			Y:              175,
			Radius:         40,
			LeftPegRadius:  5,
			RightPegRadius: 9,
			RightPegInset:  2,
			RightPegDrop:   2,
			BoardWidth:     25,
			BoardHeight:    140,
			BoardGap:       8,
			BoardRise:      120,
			BoardBodyTrimW: 15,
			BoardBodyTrimH: 20,
			BoardBodyDrop:  20,
		},
		Rules: RulesTuning{
			Shots:                10,
			SwishBonus:           1,
			ExitDepthRadii:       2,
			RimDamping:           0.95,
			BackboardDampingX:    0.92,
			BackboardDampingY:    0.96,
			BackboardSpinDamping: 0.8,
			MadeRespawnMs:        1000,
			MissRespawnMs:        350,
			SchemaVersion:        2,
		},
		Settle: SettleTuning{
			Proximity: 2,
			SlowSpeed: 1.2,
			SlowSpin:  0.3,
			DampX:     0.8,
			DampY:     0.6,
			DampSpin:  0.7,
			RestSpeed: 0.3,
		},
		Input: InputTuning{
			MaxPull:      180,
			PowerDivisor: 6,
		},
		Shadow: ShadowTuning{
			MaxHeight:  300,
			BaseScale:  0.8,
			MaxScale:   1.5,
			MaxOpacity: 0.6,
			MinOpacity: 0.1,
		},
		Feedback: FeedbackTuning{
			ToastMs:           1200,
			RimCueSpeed:       6,
			BackboardCueSpeed: 6,
			FloorCueSpeed:     4,
		},
	}
}

// LoadTuning overlays the YAML or TOML file at path on the defaults. An empty
// path yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	case ".toml":
		_, err = toml.Decode(string(data), &t)
	default:
		return t, fmt.Errorf("%w: %s", ErrUnknownTuningFormat, path)
	}
	if err != nil {
		return t, fmt.Errorf("decode tuning file %s: %w", path, err)
	}

	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects values the simulation cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.World.Width <= 0 || t.World.Height <= 0:
		return fmt.Errorf("world size must be positive, got %vx%v", t.World.Width, t.World.Height)
	case t.World.StepHz <= 0:
		return fmt.Errorf("step_hz must be positive, got %v", t.World.StepHz)
	case t.World.MaxFrameSeconds <= 0:
		return fmt.Errorf("max_frame_seconds must be positive, got %v", t.World.MaxFrameSeconds)
	// A clamped frame must cover at least half a step, or the world stalls
	// for several frames between steps.
	case 1/t.World.StepHz > 2*t.World.MaxFrameSeconds:
		return fmt.Errorf("step 1/%v s exceeds twice max_frame_seconds %v", t.World.StepHz, t.World.MaxFrameSeconds)
	case t.Ball.Radius <= 0:
		return fmt.Errorf("ball radius must be positive, got %v", t.Ball.Radius)
	case t.Rules.Shots <= 0:
		return fmt.Errorf("shots must be positive, got %d", t.Rules.Shots)
	case t.Input.PowerDivisor == 0:
		return errors.New("power_divisor must not be zero")
	case t.Input.MaxPull <= 0:
		return fmt.Errorf("max_pull must be positive, got %v", t.Input.MaxPull)
	case t.Shadow.MaxHeight <= 0:
		return fmt.Errorf("shadow max_height must be positive, got %v", t.Shadow.MaxHeight)
	}
	return nil
}
