package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig composes raw onto a fresh DefaultConfig. The default
// value itself is never modified.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.CollisionDetection != nil {
		cfg.CollisionDetection = *raw.CollisionDetection
	}
	if raw.Strategy != nil {
		cfg.Strategy = *raw.Strategy
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	if raw.Keyboard != nil {
		if raw.Keyboard.PickupKeys != nil {
			cfg.Keyboard.PickupKeys = append([]string(nil), raw.Keyboard.PickupKeys...)
		}
		if raw.Keyboard.CancelKeys != nil {
			cfg.Keyboard.CancelKeys = append([]string(nil), raw.Keyboard.CancelKeys...)
		}
		if raw.Keyboard.Instructions != nil {
			cfg.Keyboard.Instructions = *raw.Keyboard.Instructions
		}
	}

	if raw.Pointer != nil {
		if raw.Pointer.ScrollThreshold != nil {
			cfg.Pointer.ScrollThreshold = *raw.Pointer.ScrollThreshold
		}
		if raw.Pointer.ScrollSpeed != nil {
			cfg.Pointer.ScrollSpeed = *raw.Pointer.ScrollSpeed
		}
	}

	if raw.Announcements != nil {
		cfg.Announcements.DragStart = derefString(raw.Announcements.DragStart, "")
		cfg.Announcements.DragOver = derefString(raw.Announcements.DragOver, "")
		cfg.Announcements.Drop = derefString(raw.Announcements.Drop, "")
		cfg.Announcements.DragCancel = derefString(raw.Announcements.DragCancel, "")
	}

	if raw.Board != nil {
		cfg.Board.Gap = derefInt(raw.Board.Gap, cfg.Board.Gap)
		cfg.Board.ItemHeight = derefInt(raw.Board.ItemHeight, cfg.Board.ItemHeight)

		if raw.Board.Columns != nil {
			columns := make([]Column, 0, len(raw.Board.Columns))
			for i, rc := range raw.Board.Columns {
				if rc.Name == nil {
					return nil, &ValidationError{Path: fmt.Sprintf("board.columns.%d.name", i), Err: fmt.Errorf("column name is required")}
				}
				columns = append(columns, Column{
					Name:   *rc.Name,
					Items:  append([]string(nil), rc.Items...),
					Layout: derefString(rc.Layout, "vertical"),
				})
			}
			cfg.Board.Columns = columns
		}
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
