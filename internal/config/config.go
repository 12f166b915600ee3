package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath overrides the config file location.
const EnvPath = "NPCSEQ_CONFIG"

const DefaultPath = "config/npcseq.toml"

type Config struct {
	Scene      SceneConfig      `toml:"scene"`
	Simulation SimulationConfig `toml:"simulation"`
	Sequence   SequenceConfig   `toml:"sequence"`
	Sync       SyncConfig       `toml:"sync"`
	Console    ConsoleConfig    `toml:"console"`
	Database   DatabaseConfig   `toml:"database"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SceneConfig struct {
	File       string `toml:"file"`
	ScriptsDir string `toml:"scripts_dir"`
}

type SimulationConfig struct {
	TickRate  time.Duration `toml:"tick_rate"`
	AutoStart bool          `toml:"auto_start"`
}

// SequenceConfig holds the defaults every NPC's request starts from.
type SequenceConfig struct {
	PreWalkDelay     time.Duration `toml:"pre_walk_delay"`
	TalkDuration     time.Duration `toml:"talk_duration"`
	PostTalkPause    time.Duration `toml:"post_talk_pause"`
	TurnSpeed        float64       `toml:"turn_speed"` // deg/s
	ArrivalTolerance float64       `toml:"arrival_tolerance"`
	SettleDelay      time.Duration `toml:"settle_delay"`
	TurnSettle       time.Duration `toml:"turn_settle"`
	AngleEpsilon     float64       `toml:"angle_epsilon"` // degrees
	FaceViewerWithin float64       `toml:"face_viewer_within"`
	FaceViewerSpeed  float64       `toml:"face_viewer_speed"` // deg/s
}

type SyncConfig struct {
	MoveThreshold    float64 `toml:"move_threshold"`
	TurnSpeed        float64 `toml:"turn_speed"`
	ArrivalThreshold float64 `toml:"arrival_threshold"`
}

type ConsoleConfig struct {
	Enabled            bool          `toml:"enabled"`
	BindAddress        string        `toml:"bind_address"`
	InQueueSize        int           `toml:"in_queue_size"`
	OutQueueSize       int           `toml:"out_queue_size"`
	MaxCommandsPerTick int           `toml:"max_commands_per_tick"`
	WriteTimeout       time.Duration `toml:"write_timeout"`
	ReadTimeout        time.Duration `toml:"read_timeout"`
	Keyboard           bool          `toml:"keyboard"` // read restart keys from stdin
	// PasswordHash is a bcrypt hash; when set, sessions must log in first.
	PasswordHash string `toml:"password_hash"`
}

// DatabaseConfig configures the run journal. An empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	FlushInterval   int           `toml:"flush_interval"` // ticks
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Path resolves the config file location from the environment.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte, name string) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

// Validate rejects settings the tick loop cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, errors.New("simulation.tick_rate must be positive"))
	}
	s := c.Sequence
	for name, d := range map[string]time.Duration{
		"pre_walk_delay":  s.PreWalkDelay,
		"talk_duration":   s.TalkDuration,
		"post_talk_pause": s.PostTalkPause,
		"settle_delay":    s.SettleDelay,
		"turn_settle":     s.TurnSettle,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("sequence.%s must not be negative", name))
		}
	}
	if s.TurnSpeed <= 0 {
		errs = append(errs, errors.New("sequence.turn_speed must be positive"))
	}
	if s.ArrivalTolerance < 0 || s.AngleEpsilon < 0 || s.FaceViewerWithin < 0 || s.FaceViewerSpeed < 0 {
		errs = append(errs, errors.New("sequence distances and angles must not be negative"))
	}
	if c.Console.Enabled && c.Console.MaxCommandsPerTick <= 0 {
		errs = append(errs, errors.New("console.max_commands_per_tick must be positive"))
	}
	if c.Database.DSN != "" && c.Database.FlushInterval <= 0 {
		errs = append(errs, errors.New("database.flush_interval must be positive"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Scene: SceneConfig{
			File:       "data/scene.yaml",
			ScriptsDir: "scripts",
		},
		Simulation: SimulationConfig{
			TickRate:  50 * time.Millisecond,
			AutoStart: true,
		},
		Sequence: SequenceConfig{
			PreWalkDelay:     3 * time.Second,
			TalkDuration:     8 * time.Second,
			PostTalkPause:    2 * time.Second,
			TurnSpeed:        180,
			ArrivalTolerance: 0.5,
			SettleDelay:      200 * time.Millisecond,
			TurnSettle:       100 * time.Millisecond,
			AngleEpsilon:     1,
			FaceViewerWithin: 2,
			FaceViewerSpeed:  120,
		},
		Sync: SyncConfig{
			MoveThreshold:    0.1,
			TurnSpeed:        120,
			ArrivalThreshold: 0.5,
		},
		Console: ConsoleConfig{
			Enabled:            true,
			BindAddress:        "127.0.0.1:7070",
			InQueueSize:        32,
			OutQueueSize:       64,
			MaxCommandsPerTick: 8,
			WriteTimeout:       5 * time.Second,
			ReadTimeout:        10 * time.Minute,
			Keyboard:           true,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			FlushInterval:   100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
