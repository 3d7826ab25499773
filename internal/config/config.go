package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pullsheet/internal/dismiss"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const envPrefix = "PULLSHEET"

// Config is the whole pullsheet configuration. Missing keys take the
// defaults registered in setDefaults.
type Config struct {
	Gesture    GestureConfig    `mapstructure:"gesture"`
	Timing     TimingConfig     `mapstructure:"timing"`
	Appearance AppearanceConfig `mapstructure:"appearance"`
	Log        LogConfig        `mapstructure:"log"`
}

type GestureConfig struct {
	ScrollTopThreshold float64       `mapstructure:"scroll_top_threshold"`
	VelocityDampening  float64       `mapstructure:"velocity_dampening"`
	VelocityWindow     time.Duration `mapstructure:"velocity_window"`
}

type TimingConfig struct {
	SettleDelay      time.Duration `mapstructure:"settle_delay"`
	RestoreDuration  time.Duration `mapstructure:"restore_duration"`
	EntranceDuration time.Duration `mapstructure:"entrance_duration"`
	FrameRate        int           `mapstructure:"frame_rate"`
}

type AppearanceConfig struct {
	// MatchedTransition tags the entrance as a matched/zoom transition,
	// which keeps the dismiss drag from starting until it finishes.
	MatchedTransition bool `mapstructure:"matched_transition"`
	DimBackdrop       bool `mapstructure:"dim_backdrop"`
	CustomBackground  bool `mapstructure:"custom_background"`
	NoColor           bool `mapstructure:"no_color"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Tunables converts the gesture and timing sections for the state machine.
func (c Config) Tunables() dismiss.Tunables {
	return dismiss.Tunables{
		ScrollTopThreshold: c.Gesture.ScrollTopThreshold,
		VelocityDampening:  c.Gesture.VelocityDampening,
		SettleDelay:        c.Timing.SettleDelay,
		RestoreDuration:    c.Timing.RestoreDuration,
		FrameInterval:      c.FrameInterval(),
	}
}

func (c Config) FrameInterval() time.Duration {
	if c.Timing.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Timing.FrameRate)
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.Gesture.VelocityDampening <= 0:
		return fmt.Errorf("%w: gesture.velocity_dampening must be > 0", ErrInvalid)
	case c.Gesture.ScrollTopThreshold < 0:
		return fmt.Errorf("%w: gesture.scroll_top_threshold must be >= 0", ErrInvalid)
	case c.Gesture.VelocityWindow < 0:
		return fmt.Errorf("%w: gesture.velocity_window must be >= 0", ErrInvalid)
	case c.Timing.SettleDelay < 0, c.Timing.RestoreDuration < 0, c.Timing.EntranceDuration < 0:
		return fmt.Errorf("%w: timing durations must be >= 0", ErrInvalid)
	case c.Timing.FrameRate < 1 || c.Timing.FrameRate > 240:
		return fmt.Errorf("%w: timing.frame_rate must be within 1..240", ErrInvalid)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := dismiss.DefaultTunables()
	v.SetDefault("gesture.scroll_top_threshold", def.ScrollTopThreshold)
	v.SetDefault("gesture.velocity_dampening", def.VelocityDampening)
	v.SetDefault("gesture.velocity_window", "100ms")
	v.SetDefault("timing.settle_delay", def.SettleDelay.String())
	v.SetDefault("timing.restore_duration", def.RestoreDuration.String())
	v.SetDefault("timing.entrance_duration", "250ms")
	v.SetDefault("timing.frame_rate", 60)
	v.SetDefault("appearance.matched_transition", false)
	v.SetDefault("appearance.dim_backdrop", true)
	v.SetDefault("appearance.custom_background", false)
	v.SetDefault("appearance.no_color", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "pullsheet.log"))
}

// DefaultDir is where the config file is looked up when no path is given.
func DefaultDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "pullsheet")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "pullsheet")
}

// Loader reads the config file (if any) plus PULLSHEET_* env overrides.
type Loader struct {
	v        *viper.Viper
	explicit bool
}

// NewLoader prepares a loader. An empty path falls back to
// $PULLSHEET_CONFIG and then to config.yaml in DefaultDir.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, explicit: path != ""}
}

// Load reads and validates the config. A missing file is only an error
// when a path was given explicitly.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) || l.explicit {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string { return l.v.ConfigFileUsed() }

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Change is one reload triggered by the watched file.
type Change struct {
	Op     fsnotify.Op
	Config Config
	Err    error
}

// Watch reloads on every write to the config file and reports the result.
// It returns nil when no file is in use. Only the latest change is kept if
// the receiver falls behind.
func (l *Loader) Watch() <-chan Change {
	if l.File() == "" {
		return nil
	}
	ch := make(chan Change, 1)
	l.v.OnConfigChange(func(e fsnotify.Event) {
		c, err := l.decode()
		ev := Change{Op: e.Op, Config: c, Err: err}
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	})
	l.v.WatchConfig()
	return ch
}

// Load is a shortcut for NewLoader(path).Load().
func Load(path string) (Config, error) {
	return NewLoader(path).Load()
}

// Dump renders c as YAML with human-readable durations.
func Dump(c Config) ([]byte, error) {
	out := map[string]any{
		"gesture": map[string]any{
			"scroll_top_threshold": c.Gesture.ScrollTopThreshold,
			"velocity_dampening":   c.Gesture.VelocityDampening,
			"velocity_window":      c.Gesture.VelocityWindow.String(),
		},
		"timing": map[string]any{
			"settle_delay":      c.Timing.SettleDelay.String(),
			"restore_duration":  c.Timing.RestoreDuration.String(),
			"entrance_duration": c.Timing.EntranceDuration.String(),
			"frame_rate":        c.Timing.FrameRate,
		},
		"appearance": map[string]any{
			"matched_transition": c.Appearance.MatchedTransition,
			"dim_backdrop":       c.Appearance.DimBackdrop,
			"custom_background":  c.Appearance.CustomBackground,
			"no_color":           c.Appearance.NoColor,
		},
		"log": map[string]any{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
	}
	return yaml.Marshal(out)
}
