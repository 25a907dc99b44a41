// Package tui is a terminal board that hosts the sortable engine. Cards can
// be dragged with the mouse or moved with the keyboard sensor.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/sortable/internal/config"
	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/metrics"
	"github.com/1broseidon/sortable/internal/sensor"
	"github.com/1broseidon/sortable/internal/sortable"
)

// scrollInterval is the frame clock for pointer auto-scroll.
const scrollInterval = 50 * time.Millisecond

// Options configure Run.
type Options struct {
	Logger *slog.Logger
	// Metrics is attached to the board's registry when set.
	Metrics *metrics.Collector
}

type scrollTickMsg struct{}

// model is the root bubbletea model. Engine state lives behind pointers, so
// copies of the model share one board.
type model struct {
	board    *Board
	registry *sortable.Registry
	keyboard *sensor.Keyboard
	pointer  *sensor.Pointer
	logger   *slog.Logger

	ticking bool
	err     error

	width  int
	height int
}

// Run starts the board on the controlling terminal.
func Run(cfg *config.Config, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("demo requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m, err := newModel(cfg, opts)
	if err != nil {
		return err
	}
	defer m.registry.Destroy()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func newModel(cfg *config.Config, opts Options) (model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	board, err := NewBoard(cfg.Board)
	if err != nil {
		return model{}, err
	}

	kbOpts, err := sensor.KeyboardOptions(cfg.Keyboard, logger)
	if err != nil {
		return model{}, err
	}
	keyboard := sensor.NewKeyboard(board, kbOpts...)
	pointer := sensor.NewPointer(append(
		sensor.PointerOptions(cfg.Pointer, logger),
		sensor.WithScrollAreas(board.scrollAreasAt),
	)...)

	engineOpts, err := sortable.FromConfig(cfg, logger)
	if err != nil {
		return model{}, err
	}
	registry := sortable.New(board, append(engineOpts,
		sortable.WithSensors(keyboard, pointer),
		sortable.WithAnnouncer(board),
	)...)

	board.observer = registry.ItemsChanged
	for _, col := range board.columns {
		registry.AddContainer(col)
	}
	if opts.Metrics != nil {
		opts.Metrics.Attach(registry)
	}

	return model{
		board:    board,
		registry: registry,
		keyboard: keyboard,
		pointer:  pointer,
		logger:   logger,
	}, nil
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Deferred engine work runs once the message
// is handled.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.registry.Flush()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.err = m.board.Resize(msg.Width, msg.Height)
		if s := m.registry.Active(); s != nil {
			s.OnScroll()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case scrollTickMsg:
		if !m.pointer.Scrolling() {
			m.ticking = false
			return m, nil
		}
		m.pointer.Tick()
		return m, scrollTick()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.registry.Active() == nil {
			return m, tea.Quit
		}
	}

	key, ok := keyFor(msg)
	if !ok {
		return m, nil
	}

	if m.keyboard.HandleKey(m.board.Focused(), key) {
		return m, nil
	}
	if s := m.registry.Active(); s != nil {
		s.HandleKey(key)
		return m, nil
	}
	m.board.MoveFocus(key)
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Cell centers keep strict hit tests away from rect borders.
	at := geometry.Point{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + 0.5}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scroll(1)
			return m, nil
		}

		card := m.board.CardAt(at)
		if card == nil {
			return m, nil
		}
		m.board.Focus(card)
		m.pointer.PointerDown(card, at, buttonFor(msg.Button))

	case tea.MouseActionMotion:
		m.pointer.PointerMove(at)
		if m.pointer.Scrolling() && !m.ticking {
			m.ticking = true
			return m, scrollTick()
		}

	case tea.MouseActionRelease:
		m.pointer.PointerUp(at)
	}
	return m, nil
}

func (m model) scroll(dy float64) {
	m.board.ScrollBy(dy)
	if s := m.registry.Active(); s != nil {
		s.OnScroll()
	}
}

func scrollTick() tea.Cmd {
	return tea.Tick(scrollInterval, func(time.Time) tea.Msg {
		return scrollTickMsg{}
	})
}

func keyFor(msg tea.KeyMsg) (sortable.Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return sortable.KeyUp, true
	case tea.KeyDown:
		return sortable.KeyDown, true
	case tea.KeyLeft:
		return sortable.KeyLeft, true
	case tea.KeyRight:
		return sortable.KeyRight, true
	case tea.KeyEnter:
		return sortable.KeyEnter, true
	case tea.KeySpace:
		return sortable.KeySpace, true
	case tea.KeyEsc:
		return sortable.KeyEscape, true
	}

	switch msg.String() {
	case "k":
		return sortable.KeyUp, true
	case "j":
		return sortable.KeyDown, true
	case "h":
		return sortable.KeyLeft, true
	case "l":
		return sortable.KeyRight, true
	case " ":
		return sortable.KeySpace, true
	}
	return sortable.KeyNone, false
}

func buttonFor(b tea.MouseButton) sensor.Button {
	switch b {
	case tea.MouseButtonLeft:
		return sensor.ButtonPrimary
	case tea.MouseButtonMiddle:
		return sensor.ButtonMiddle
	default:
		return sensor.ButtonSecondary
	}
}
