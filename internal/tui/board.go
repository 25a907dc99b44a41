package tui

import (
	"fmt"
	"math"

	"github.com/1broseidon/sortable/internal/config"
	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/sortable"
	"github.com/1broseidon/sortable/internal/tiling"
)

const (
	headerLines = 2 // title + instructions
	footerLines = 2 // status + help
	titleLines  = 1 // column name above the first card
	gridCols    = 2
)

// Card is one sortable item on the board.
type Card struct {
	Title  string
	column *Column
}

func (c *Card) String() string { return c.Title }

// Column is a sortable container.
type Column struct {
	Name  string
	mode  tiling.Mode
	cards []*Card
	rect  geometry.Rect // unscrolled, in terminal cells
}

func (c *Column) String() string { return c.Name }

// Titles returns card titles in presentation order.
func (c *Column) Titles() []string {
	out := make([]string, len(c.cards))
	for i, card := range c.cards {
		out[i] = card.Title
	}
	return out
}

func (c *Column) index(card *Card) int {
	for i, candidate := range c.cards {
		if candidate == card {
			return i
		}
	}
	return -1
}

type overlay struct {
	card *Card
	rect geometry.Rect
}

// Board lays columns out in terminal cells and implements sortable.Host.
type Board struct {
	columns    []*Column
	gap        float64
	itemHeight float64

	area    geometry.Rect
	scrollY float64

	// transforms holds the live visual shift of cards displaced by a drag.
	transforms map[*Card]geometry.Transform
	overlay *overlay
	focused *Card
	status  string

	// observer receives membership changes caused by Move.
	observer func(container sortable.Handle, added, removed []sortable.Handle)
}

var (
	_ sortable.Host      = (*Board)(nil)
	_ sortable.Announcer = (*Board)(nil)
)

// NewBoard builds the board described by cfg. Call Resize before use.
func NewBoard(cfg config.Board) (*Board, error) {
	b := &Board{
		gap:        float64(cfg.Gap),
		itemHeight: float64(cfg.ItemHeight),
		transforms: make(map[*Card]geometry.Transform),
	}
	if b.itemHeight < 1 {
		b.itemHeight = 1
	}

	for i, cc := range cfg.Columns {
		mode, err := tiling.ParseMode(cc.Layout)
		if err != nil {
			return nil, fmt.Errorf("board.columns.%d.layout: %w", i, err)
		}
		col := &Column{Name: cc.Name, mode: mode}
		for _, title := range cc.Items {
			col.cards = append(col.cards, &Card{Title: title, column: col})
		}
		b.columns = append(b.columns, col)
	}

	for _, col := range b.columns {
		if len(col.cards) > 0 {
			b.focused = col.cards[0]
			break
		}
	}
	return b, nil
}

// Columns returns the columns in display order.
func (b *Board) Columns() []*Column {
	return append([]*Column(nil), b.columns...)
}

// Focused returns the card with input focus, or nil.
func (b *Board) Focused() *Card { return b.focused }

// Status returns the latest announcement.
func (b *Board) Status() string { return b.status }

// Announce implements sortable.Announcer.
func (b *Board) Announce(text string) { b.status = text }

// Resize lays the columns out for a terminal of the given size.
func (b *Board) Resize(width, height int) error {
	b.area = geometry.Rect{
		X:      0,
		Y:      headerLines,
		Width:  float64(width),
		Height: float64(max(height-headerLines-footerLines, 1)),
	}

	rects, err := tiling.Columns(len(b.columns), b.area, b.gap)
	if err != nil {
		for _, col := range b.columns {
			col.rect = geometry.Rect{}
		}
		return err
	}
	for i, col := range b.columns {
		col.rect = geometry.Rect{
			X:      math.Floor(rects[i].X),
			Y:      math.Floor(rects[i].Y),
			Width:  math.Floor(rects[i].Width),
			Height: math.Floor(rects[i].Height),
		}
	}
	b.scrollY = min(b.scrollY, b.maxScroll())
	return nil
}

func (b *Board) layout(col *Column) tiling.Layout {
	l := tiling.Layout{
		Mode:       col.mode,
		SlotWidth:  col.rect.Width,
		SlotHeight: b.itemHeight,
		Gap:        b.gap,
	}

	switch col.mode {
	case tiling.ModeHorizontal:
		n := float64(max(len(col.cards), 1))
		l.SlotWidth = math.Floor((col.rect.Width - (n-1)*b.gap) / n)
	case tiling.ModeGrid:
		l.Cols = gridCols
		l.SlotWidth = math.Floor((col.rect.Width - (gridCols-1)*b.gap) / gridCols)
	}
	l.SlotWidth = max(l.SlotWidth, 1)
	return l
}

func (b *Board) origin(col *Column) geometry.Point {
	return geometry.Point{X: col.rect.X, Y: col.rect.Y + titleLines}
}

// slots returns unscrolled card rects for col.
func (b *Board) slots(col *Column) []geometry.Rect {
	if col.rect.Width <= 0 {
		return make([]geometry.Rect, len(col.cards))
	}
	rects, err := tiling.Slots(len(col.cards), b.origin(col), b.layout(col))
	if err != nil {
		return make([]geometry.Rect, len(col.cards))
	}
	return rects
}

// columnRect is the unscrolled hit area of col. It always covers the full
// column so an empty column can receive drops anywhere.
func (b *Board) columnRect(col *Column) geometry.Rect {
	r := col.rect
	if col.rect.Width <= 0 {
		return r
	}
	if bounds, err := tiling.Bounds(len(col.cards), b.origin(col), b.layout(col)); err == nil {
		r.Height = max(r.Height, bounds.Bottom()-r.Y)
	}
	return r
}

func (b *Board) maxScroll() float64 {
	bottom := b.area.Bottom()
	for _, col := range b.columns {
		bottom = max(bottom, b.columnRect(col).Bottom()+b.gap)
	}
	return bottom - b.area.Bottom()
}

func (b *Board) scrolled(r geometry.Rect) geometry.Rect {
	return r.Translate(geometry.Point{Y: -b.scrollY})
}

func (b *Board) transform(card *Card) geometry.Transform {
	if t, ok := b.transforms[card]; ok {
		return t
	}
	return geometry.Translation(geometry.Point{})
}

// rendered is where card is drawn: its scrolled slot with the live
// transform applied.
func (b *Board) rendered(card *Card, slot geometry.Rect) geometry.Rect {
	return b.transform(card).Apply(b.scrolled(slot), geometry.Point{})
}

// CardAt returns the card under p, including its live offset.
func (b *Board) CardAt(p geometry.Point) *Card {
	for _, col := range b.columns {
		for i, r := range b.slots(col) {
			card := col.cards[i]
			if b.rendered(card, r).ContainsStrict(p) {
				return card
			}
		}
	}
	return nil
}

func (b *Board) scrollAreasAt(p geometry.Point) []sortable.ScrollArea {
	if !b.area.ContainsStrict(p) {
		return nil
	}
	return []sortable.ScrollArea{boardScroll{b}}
}

// MoveFocus moves focus to the neighbouring card in the given direction.
// It reports whether focus changed.
func (b *Board) MoveFocus(k sortable.Key) bool {
	if b.focused == nil {
		return false
	}
	col := b.focused.column
	i := col.index(b.focused)

	switch k {
	case sortable.KeyUp:
		if i > 0 {
			b.focused = col.cards[i-1]
			return true
		}
	case sortable.KeyDown:
		if i < len(col.cards)-1 {
			b.focused = col.cards[i+1]
			return true
		}
	case sortable.KeyLeft, sortable.KeyRight:
		step := 1
		if k == sortable.KeyLeft {
			step = -1
		}
		for c := b.columnIndex(col) + step; c >= 0 && c < len(b.columns); c += step {
			if next := b.columns[c]; len(next.cards) > 0 {
				b.focused = next.cards[min(i, len(next.cards)-1)]
				return true
			}
		}
	}
	return false
}

func (b *Board) columnIndex(col *Column) int {
	for i, candidate := range b.columns {
		if candidate == col {
			return i
		}
	}
	return -1
}

// ScrollBy scrolls the board body vertically, clamped to its content.
func (b *Board) ScrollBy(dy float64) {
	b.scrollY = min(max(b.scrollY+dy, 0), max(b.maxScroll(), 0))
}

func (b *Board) Children(container sortable.Handle) []sortable.Handle {
	col, ok := container.(*Column)
	if !ok {
		return nil
	}
	out := make([]sortable.Handle, len(col.cards))
	for i, card := range col.cards {
		out[i] = card
	}
	return out
}

func (b *Board) BoundingRect(h sortable.Handle) geometry.Rect {
	switch v := h.(type) {
	case *Column:
		return b.scrolled(b.columnRect(v))
	case *Card:
		i := v.column.index(v)
		if i < 0 {
			return geometry.Rect{}
		}
		// Measure what is drawn and undo the live transform, so rects
		// never include the displacement of a running drag.
		slot := b.slots(v.column)[i]
		return geometry.InverseTransform(b.rendered(v, slot), b.transform(v), geometry.Point{})
	default:
		return geometry.Rect{}
	}
}

func (b *Board) Move(item, container, before sortable.Handle) {
	card, ok := item.(*Card)
	if !ok {
		return
	}
	dst, ok := container.(*Column)
	if !ok || before == item {
		return
	}

	src := card.column
	if i := src.index(card); i >= 0 {
		src.cards = append(src.cards[:i:i], src.cards[i+1:]...)
	}

	at := len(dst.cards)
	if next, ok := before.(*Card); ok {
		if i := dst.index(next); i >= 0 {
			at = i
		}
	}
	dst.cards = append(dst.cards[:at], append([]*Card{card}, dst.cards[at:]...)...)
	card.column = dst

	if b.observer != nil && src != dst {
		b.observer(src, nil, []sortable.Handle{card})
		b.observer(dst, []sortable.Handle{card}, nil)
	}
}

func (b *Board) SetOffset(item sortable.Handle, offset geometry.Point) {
	card, ok := item.(*Card)
	if !ok {
		return
	}
	if offset.IsZero() {
		delete(b.transforms, card)
		return
	}
	b.transforms[card] = geometry.Translation(offset)
}

// PlaceOverlay draws the dragged card at rect. Terminal rendering has no
// transitions, so immediate is ignored.
func (b *Board) PlaceOverlay(item sortable.Handle, rect geometry.Rect, _ bool) {
	if card, ok := item.(*Card); ok {
		b.overlay = &overlay{card: card, rect: rect}
	}
}

func (b *Board) ReleaseOverlay(_ sortable.Handle, _ geometry.Rect, settled func()) {
	b.overlay = nil
	settled()
}

func (b *Board) Focus(h sortable.Handle) {
	if card, ok := h.(*Card); ok {
		b.focused = card
	}
}

func (b *Board) Label(h sortable.Handle) string {
	switch v := h.(type) {
	case *Card:
		return v.Title
	case *Column:
		return v.Name
	default:
		return ""
	}
}

func (b *Board) ScrollableAncestors(sortable.Handle) []sortable.ScrollArea {
	return []sortable.ScrollArea{boardScroll{b}}
}

// boardScroll exposes the board body as a vertical scroll area.
type boardScroll struct {
	board *Board
}

func (s boardScroll) Viewport() geometry.Rect { return s.board.area }

func (s boardScroll) ScrollPosition() geometry.Point {
	return geometry.Point{Y: s.board.scrollY}
}

func (s boardScroll) MaxScroll() geometry.Point {
	return geometry.Point{Y: max(s.board.maxScroll(), 0)}
}

func (s boardScroll) ScrollBy(delta geometry.Point) { s.board.ScrollBy(delta.Y) }
