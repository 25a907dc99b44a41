package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/sortable/internal/collision"
	"github.com/1broseidon/sortable/internal/strategy"
	"github.com/1broseidon/sortable/internal/tiling"
)

// Keyboard configures the keyboard sensor and the session cancel keys.
type Keyboard struct {
	PickupKeys []string `yaml:"pickup_keys"`
	CancelKeys []string `yaml:"cancel_keys"`
	// Instructions replaces the built-in screen reader instructions when
	// non-empty.
	Instructions string `yaml:"instructions,omitempty"`
}

// Pointer configures edge auto-scroll of the pointer sensor.
type Pointer struct {
	ScrollThreshold float64 `yaml:"scroll_threshold"`
	ScrollSpeed     float64 `yaml:"scroll_speed"`
}

// Announcements holds text/template sources for screen reader messages.
// Empty values keep the built-in wording.
type Announcements struct {
	DragStart  string `yaml:"drag_start,omitempty"`
	DragOver   string `yaml:"drag_over,omitempty"`
	Drop       string `yaml:"drop,omitempty"`
	DragCancel string `yaml:"drag_cancel,omitempty"`
}

// Column is one container on the demo board.
type Column struct {
	Name   string   `yaml:"name"`
	Items  []string `yaml:"items"`
	Layout string   `yaml:"layout"`
}

// Board describes the demo board.
type Board struct {
	Columns    []Column `yaml:"columns"`
	Gap        int      `yaml:"gap"`
	ItemHeight int      `yaml:"item_height"`
}

type Config struct {
	CollisionDetection string        `yaml:"collision_detection"`
	Strategy           string        `yaml:"strategy"`
	LogLevel           string        `yaml:"log_level"`
	Keyboard           Keyboard      `yaml:"keyboard"`
	Pointer            Pointer       `yaml:"pointer"`
	Announcements      Announcements `yaml:"announcements,omitempty"`
	Board              Board         `yaml:"board"`
}

// KnownKeys are the key names accepted in keyboard.pickup_keys and
// keyboard.cancel_keys.
var KnownKeys = []string{"up", "down", "left", "right", "enter", "space", "escape"}

func DefaultConfig() *Config {
	return &Config{
		CollisionDetection: collision.NameClosestCenter,
		Strategy:           strategy.NameRect,
		LogLevel:           "info",
		Keyboard: Keyboard{
			PickupKeys: []string{"enter", "space"},
			CancelKeys: []string{"escape"},
		},
		Pointer: Pointer{
			ScrollThreshold: 0.2,
			ScrollSpeed:     20,
		},
		Board: BuiltinBoard(),
	}
}

// Save writes the configuration to path, or to the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if _, ok := collision.ByName(c.CollisionDetection); !ok {
		return &ValidationError{Path: "collision_detection", Err: fmt.Errorf("collision_detection must be one of: %s", collision.NameClosestCenter)}
	}
	if _, ok := strategy.ByName(c.Strategy); !ok {
		return &ValidationError{Path: "strategy", Err: fmt.Errorf("strategy must be one of: %s, %s", strategy.NameRect, strategy.NameVerticalList)}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if len(c.Keyboard.PickupKeys) == 0 {
		return &ValidationError{Path: "keyboard.pickup_keys", Err: fmt.Errorf("pickup_keys must not be empty")}
	}
	if err := validateKeys("keyboard.pickup_keys", c.Keyboard.PickupKeys); err != nil {
		return err
	}
	if err := validateKeys("keyboard.cancel_keys", c.Keyboard.CancelKeys); err != nil {
		return err
	}
	for _, k := range c.Keyboard.CancelKeys {
		if containsString(c.Keyboard.PickupKeys, k) {
			return &ValidationError{Path: "keyboard.cancel_keys", Err: fmt.Errorf("key %q is also a pickup key", k)}
		}
	}

	if c.Pointer.ScrollThreshold <= 0 || c.Pointer.ScrollThreshold > 0.5 {
		return &ValidationError{Path: "pointer.scroll_threshold", Err: fmt.Errorf("scroll_threshold must be in (0, 0.5]")}
	}
	if c.Pointer.ScrollSpeed <= 0 {
		return &ValidationError{Path: "pointer.scroll_speed", Err: fmt.Errorf("scroll_speed must be > 0")}
	}

	for name, src := range map[string]string{
		"drag_start":  c.Announcements.DragStart,
		"drag_over":   c.Announcements.DragOver,
		"drop":        c.Announcements.Drop,
		"drag_cancel": c.Announcements.DragCancel,
	} {
		if src == "" {
			continue
		}
		if _, err := template.New(name).Parse(src); err != nil {
			return &ValidationError{Path: "announcements." + name, Err: err}
		}
	}

	return validateBoard(&c.Board)
}

func validateBoard(b *Board) error {
	if len(b.Columns) == 0 {
		return &ValidationError{Path: "board.columns", Err: fmt.Errorf("columns must not be empty")}
	}
	if b.Gap < 0 {
		return &ValidationError{Path: "board.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if b.ItemHeight < 1 {
		return &ValidationError{Path: "board.item_height", Err: fmt.Errorf("item_height must be >= 1")}
	}

	seen := make(map[string]struct{})
	for i, col := range b.Columns {
		path := fmt.Sprintf("board.columns.%d", i)
		if strings.TrimSpace(col.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("column name is required")}
		}
		if _, dup := seen[col.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate column name %q", col.Name)}
		}
		seen[col.Name] = struct{}{}

		if _, err := tiling.ParseMode(col.Layout); err != nil {
			return &ValidationError{Path: path + ".layout", Err: err}
		}
		for _, item := range col.Items {
			if strings.TrimSpace(item) == "" {
				return &ValidationError{Path: path + ".items", Err: fmt.Errorf("items must not be empty strings")}
			}
		}
	}
	return nil
}

func validateKeys(path string, keys []string) error {
	for _, k := range keys {
		if !containsString(KnownKeys, k) {
			return &ValidationError{Path: path, Err: fmt.Errorf("unknown key %q (want one of: %s)", k, strings.Join(KnownKeys, ", "))}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
