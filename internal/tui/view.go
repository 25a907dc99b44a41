package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/sortable/internal/geometry"
)

type cellStyle int

const (
	styleEmpty cellStyle = iota
	styleTitle
	styleCard
	styleFocused
	stylePlaceholder
	styleOverlay
)

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	instructionsStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	cellStyles = map[cellStyle]lipgloss.Style{
		styleEmpty:       lipgloss.NewStyle(),
		styleTitle:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		styleCard:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		styleFocused:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		stylePlaceholder: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		styleOverlay:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")),
	}
)

// canvas is a grid of styled cells covering the board body.
type canvas struct {
	width, height int
	top           int // screen row of the first canvas row
	runes         [][]rune
	styles        [][]cellStyle
}

func newCanvas(width, height, top int) *canvas {
	c := &canvas{width: width, height: height, top: top}
	c.runes = make([][]rune, height)
	c.styles = make([][]cellStyle, height)
	for i := range c.runes {
		c.runes[i] = []rune(strings.Repeat(" ", width))
		c.styles[i] = make([]cellStyle, width)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	y -= c.top
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.runes[y][x] = r
	c.styles[y][x] = s
}

func (c *canvas) text(x, y, width int, s string, style cellStyle) {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			runes = runes[:max(width, 0)]
		} else {
			runes = append(runes[:width-1], '…')
		}
	}
	for i, r := range runes {
		c.set(x+i, y, r, style)
	}
}

// box draws a card. Cards at least three rows tall get a border.
func (c *canvas) box(r geometry.Rect, label string, style cellStyle) {
	x, y := int(math.Round(r.X)), int(math.Round(r.Y))
	w, h := int(math.Round(r.Width)), int(math.Round(r.Height))
	if w <= 0 || h <= 0 {
		return
	}

	if h < 3 || w < 3 {
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				c.set(x+col, y+row, ' ', style)
			}
		}
		c.text(x, y, w, label, style)
		return
	}

	for col := 1; col < w-1; col++ {
		c.set(x+col, y, '─', style)
		c.set(x+col, y+h-1, '─', style)
	}
	for row := 1; row < h-1; row++ {
		c.set(x, y+row, '│', style)
		c.set(x+w-1, y+row, '│', style)
		for col := 1; col < w-1; col++ {
			c.set(x+col, y+row, ' ', style)
		}
	}
	c.set(x, y, '┌', style)
	c.set(x+w-1, y, '┐', style)
	c.set(x, y+h-1, '└', style)
	c.set(x+w-1, y+h-1, '┘', style)
	c.text(x+2, y+(h-1)/2, w-4, label, style)
}

// lines renders the canvas, joining runs of equally styled cells.
func (c *canvas) lines() []string {
	out := make([]string, c.height)
	for y := range c.runes {
		var sb strings.Builder
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.styles[y][x] == c.styles[y][start] {
				continue
			}
			sb.WriteString(cellStyles[c.styles[y][start]].Render(string(c.runes[y][start:x])))
			start = x
		}
		out[y] = sb.String()
	}
	return out
}

func (b *Board) render(width int) []string {
	c := newCanvas(width, int(b.area.Height), int(b.area.Y))

	active := (*Card)(nil)
	if b.overlay != nil {
		active = b.overlay.card
	}

	for _, col := range b.columns {
		title := b.scrolled(col.rect)
		c.text(int(title.X), int(title.Y), int(title.Width), col.Name, styleTitle)

		for i, r := range b.slots(col) {
			card := col.cards[i]
			style := styleCard
			switch card {
			case active:
				style = stylePlaceholder
			case b.focused:
				style = styleFocused
			}
			c.box(b.rendered(card, r), card.Title, style)
		}
	}

	if b.overlay != nil {
		c.box(b.overlay.rect, b.overlay.card.Title, styleOverlay)
	}

	return c.lines()
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := []string{
		titleBarStyle.Width(m.width).Render("sortable"),
		instructionsStyle.Width(m.width).MaxHeight(1).Render(m.keyboard.Instructions()),
	}

	status := statusStyle.Width(m.width).MaxHeight(1).Render(m.board.Status())
	if m.err != nil {
		status = errorStyle.Width(m.width).MaxHeight(1).Render("Error: " + m.err.Error())
	}
	footer := []string{
		status,
		helpStyle.Width(m.width).MaxHeight(1).Render("arrows: move focus/item  enter/space: pick up/drop  esc: cancel  mouse: drag  q/ctrl-c: quit"),
	}

	rows := append(header, m.board.render(m.width)...)
	rows = append(rows, footer...)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
