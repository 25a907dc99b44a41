package sensor

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/sortable/internal/config"
	"github.com/1broseidon/sortable/internal/sortable"
)

// KeyboardOptions maps the keyboard section of a configuration onto sensor
// options.
func KeyboardOptions(cfg config.Keyboard, logger *slog.Logger) ([]KeyboardOption, error) {
	keys := make([]sortable.Key, 0, len(cfg.PickupKeys))
	for _, name := range cfg.PickupKeys {
		k, ok := sortable.ParseKey(name)
		if !ok {
			return nil, fmt.Errorf("unknown pickup key %q", name)
		}
		keys = append(keys, k)
	}

	opts := []KeyboardOption{WithKeyboardLogger(logger)}
	if len(keys) > 0 {
		opts = append(opts, WithPickupKeys(keys...))
	}
	if cfg.Instructions != "" {
		opts = append(opts, WithInstructions(cfg.Instructions))
	}
	return opts, nil
}

// PointerOptions maps the pointer section of a configuration onto sensor
// options. Zero values keep the defaults.
func PointerOptions(cfg config.Pointer, logger *slog.Logger) []PointerOption {
	opts := []PointerOption{WithPointerLogger(logger)}
	if cfg.ScrollThreshold > 0 {
		opts = append(opts, WithScrollThreshold(cfg.ScrollThreshold))
	}
	if cfg.ScrollSpeed > 0 {
		opts = append(opts, WithScrollSpeed(cfg.ScrollSpeed))
	}
	return opts
}
