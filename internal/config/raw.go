package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawKeyboard struct {
	PickupKeys   []string `yaml:"pickup_keys"`
	CancelKeys   []string `yaml:"cancel_keys"`
	Instructions *string  `yaml:"instructions"`
}

type RawPointer struct {
	ScrollThreshold *float64 `yaml:"scroll_threshold"`
	ScrollSpeed     *float64 `yaml:"scroll_speed"`
}

type RawAnnouncements struct {
	DragStart  *string `yaml:"drag_start"`
	DragOver   *string `yaml:"drag_over"`
	Drop       *string `yaml:"drop"`
	DragCancel *string `yaml:"drag_cancel"`
}

type RawColumn struct {
	Name   *string  `yaml:"name"`
	Items  []string `yaml:"items"`
	Layout *string  `yaml:"layout"`
}

type RawBoard struct {
	Columns    []RawColumn `yaml:"columns"`
	Gap        *int        `yaml:"gap"`
	ItemHeight *int        `yaml:"item_height"`
}

type RawConfig struct {
	Include            IncludeList       `yaml:"include"`
	CollisionDetection *string           `yaml:"collision_detection"`
	Strategy           *string           `yaml:"strategy"`
	LogLevel           *string           `yaml:"log_level"`
	Keyboard           *RawKeyboard      `yaml:"keyboard"`
	Pointer            *RawPointer       `yaml:"pointer"`
	Announcements      *RawAnnouncements `yaml:"announcements"`
	Board              *RawBoard         `yaml:"board"`
}

// merge applies overlay on top of c. Scalars override individually; lists
// such as key sets and board columns replace the whole list.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.CollisionDetection != nil {
		out.CollisionDetection = overlay.CollisionDetection
	}
	if overlay.Strategy != nil {
		out.Strategy = overlay.Strategy
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	if overlay.Keyboard != nil {
		kb := RawKeyboard{}
		if out.Keyboard != nil {
			kb = *out.Keyboard
		}
		if overlay.Keyboard.PickupKeys != nil {
			kb.PickupKeys = overlay.Keyboard.PickupKeys
		}
		if overlay.Keyboard.CancelKeys != nil {
			kb.CancelKeys = overlay.Keyboard.CancelKeys
		}
		if overlay.Keyboard.Instructions != nil {
			kb.Instructions = overlay.Keyboard.Instructions
		}
		out.Keyboard = &kb
	}

	if overlay.Pointer != nil {
		p := RawPointer{}
		if out.Pointer != nil {
			p = *out.Pointer
		}
		if overlay.Pointer.ScrollThreshold != nil {
			p.ScrollThreshold = overlay.Pointer.ScrollThreshold
		}
		if overlay.Pointer.ScrollSpeed != nil {
			p.ScrollSpeed = overlay.Pointer.ScrollSpeed
		}
		out.Pointer = &p
	}

	if overlay.Announcements != nil {
		a := RawAnnouncements{}
		if out.Announcements != nil {
			a = *out.Announcements
		}
		if overlay.Announcements.DragStart != nil {
			a.DragStart = overlay.Announcements.DragStart
		}
		if overlay.Announcements.DragOver != nil {
			a.DragOver = overlay.Announcements.DragOver
		}
		if overlay.Announcements.Drop != nil {
			a.Drop = overlay.Announcements.Drop
		}
		if overlay.Announcements.DragCancel != nil {
			a.DragCancel = overlay.Announcements.DragCancel
		}
		out.Announcements = &a
	}

	if overlay.Board != nil {
		b := RawBoard{}
		if out.Board != nil {
			b = *out.Board
		}
		if overlay.Board.Columns != nil {
			b.Columns = overlay.Board.Columns
		}
		if overlay.Board.Gap != nil {
			b.Gap = overlay.Board.Gap
		}
		if overlay.Board.ItemHeight != nil {
			b.ItemHeight = overlay.Board.ItemHeight
		}
		out.Board = &b
	}

	return out
}
