package cli

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
	"github.com/matzehuels/mindcanvas/pkg/tree"
	"github.com/matzehuels/mindcanvas/pkg/viewport"
	"github.com/matzehuels/mindcanvas/pkg/virtual"
)

// Terminal cells are mapped to screen units of this size.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	panCells   = 4    // cells moved per pan key
	zoomStep   = 1.25 // factor per zoom key
	minZoom    = 0.05
	labelWidth = 14
	chromeRows = 3 // status and help lines
)

var (
	canvasEdgeStyle    = lipgloss.NewStyle().Foreground(colorDim)
	canvasNodeStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	canvasDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	canvasPathStyle    = lipgloss.NewStyle().Foreground(colorGray)
	canvasFocusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	canvasStatusStyle  = lipgloss.NewStyle().Foreground(colorGray)
	canvasWarningStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// cell styles, indexed by paint order
const (
	paintBlank = iota
	paintEdge
	paintDimmed
	paintNode
	paintPath
	paintFocus
)

var paintStyles = [...]lipgloss.Style{
	paintBlank:  lipgloss.NewStyle(),
	paintEdge:   canvasEdgeStyle,
	paintDimmed: canvasDimStyle,
	paintNode:   canvasNodeStyle,
	paintPath:   canvasPathStyle,
	paintFocus:  canvasFocusStyle,
}

// =============================================================================
// exploreModel - interactive canvas
// =============================================================================

// frameMsg delivers an asynchronously computed frame.
type frameMsg struct {
	ticket pipeline.Ticket
	frame  *frame.Frame
	err    error
}

// exploreModel is the bubbletea model for the explore command.
//
// Every option change (focus, direction, style, terminal size) requests a
// new frame in the background. Requests are sequenced, so a slow frame that
// arrives after a newer request was issued is dropped. Panning and zooming
// only change the local transform and never recompute the layout.
type exploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	tree   tree.Tree
	opts   pipeline.Options
	seq    *pipeline.Sequencer

	frame   *frame.Frame
	nodes   []tree.Node // frame positions, for culling
	xf      viewport.Transform
	visible map[string]bool
	ids     []string // focus cycle order
	focus   int      // index into ids, -1 when unfocused

	cols, rows int
	pending    bool
	dropped    int // stale frames discarded
	err        error
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, t tree.Tree, opts pipeline.Options) exploreModel {
	opts.SetDefaults()
	m := exploreModel{
		ctx:    ctx,
		runner: runner,
		tree:   t,
		opts:   opts,
		seq:    &pipeline.Sequencer{},
		focus:  -1,
		cols:   80,
		rows:   24,
	}
	m.sizeScreen()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return m.relayout()
}

// relayout issues a ticket and computes a frame for the current options.
func (m *exploreModel) relayout() tea.Cmd {
	m.pending = true
	m.sizeScreen()

	ticket := m.seq.Next()
	ctx, runner, t, opts := m.ctx, m.runner, m.tree, m.opts
	return func() tea.Msg {
		f, err := runner.Frame(ctx, t, opts)
		return frameMsg{ticket: ticket, frame: f, err: err}
	}
}

// sizeScreen maps the terminal grid, minus the chrome rows, to screen units.
func (m *exploreModel) sizeScreen() {
	m.opts.ScreenWidth = float64(m.cols) * cellWidth
	m.opts.ScreenHeight = float64(max(m.rows-chromeRows, 1)) * cellHeight
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.seq.Accept(msg.ticket) {
			m.dropped++
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setFrame(msg.frame)

	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		return m, m.relayout()

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m exploreModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.pan(rtl.SwipeLeft)
	case "right", "l":
		m.pan(rtl.SwipeRight)
	case "up", "k":
		m.pan(rtl.SwipeUp)
	case "down", "j":
		m.pan(rtl.SwipeDown)
	case "+", "=":
		m.zoom(zoomStep)
	case "-":
		m.zoom(1 / zoomStep)
	case "0", "r":
		if m.frame != nil {
			m.xf = m.frame.Transform.Viewport()
			m.cull()
		}
	case "tab":
		return m, m.cycleFocus(1)
	case "shift+tab":
		return m, m.cycleFocus(-1)
	case "esc":
		if m.focus >= 0 {
			m.focus = -1
			m.opts.Focus = ""
			return m, m.relayout()
		}
	case "d":
		if m.opts.Direction.IsRTL() {
			m.opts.Direction = rtl.LTR
		} else {
			m.opts.Direction = rtl.RTL
		}
		return m, m.relayout()
	case "s":
		m.opts.Style = nextStyle(m.opts.Style)
		return m, m.relayout()
	}
	return m, nil
}

// setFrame installs a new frame and resets the view to its fit transform.
func (m *exploreModel) setFrame(f *frame.Frame) {
	m.frame = f
	m.xf = f.Transform.Viewport()
	m.nodes = make([]tree.Node, len(f.Nodes))
	m.ids = make([]string, len(f.Nodes))
	for i, n := range f.Nodes {
		m.nodes[i] = tree.Node{ID: n.ID, Position: n.Point()}
		m.ids[i] = n.ID
	}
	m.focus = slices.Index(m.ids, m.opts.Focus)
	m.cull()
}

// pan moves the content in the swipe direction. Swipes are mirrored for
// right-to-left reading so "forward" stays forward.
func (m *exploreModel) pan(s rtl.Swipe) {
	var d geom.Point
	switch rtl.AdjustSwipeDirection(s, m.opts.Direction) {
	case rtl.SwipeLeft:
		d = geom.Pt(-panCells*cellWidth, 0)
	case rtl.SwipeRight:
		d = geom.Pt(panCells*cellWidth, 0)
	case rtl.SwipeUp:
		d = geom.Pt(0, -panCells*cellHeight)
	case rtl.SwipeDown:
		d = geom.Pt(0, panCells*cellHeight)
	}
	m.xf = m.xf.Pan(d)
	m.cull()
}

// zoom scales about the screen center.
func (m *exploreModel) zoom(factor float64) {
	screen := m.opts.Screen()
	xf, err := m.xf.ZoomAbout(screen.Center(), factor, minZoom, m.opts.MaxScale*8)
	if err != nil {
		m.err = err
		return
	}
	m.xf = xf
	m.cull()
}

// cull recomputes the visible set for the current transform.
func (m *exploreModel) cull() {
	if m.frame == nil {
		return
	}
	window := m.xf.Visible(m.opts.Screen())
	ids, err := virtual.Cull(m.nodes, window, m.opts.Virtual)
	if err != nil {
		m.err = err
		return
	}
	m.visible = virtual.IDSet(ids)
}

func (m *exploreModel) cycleFocus(step int) tea.Cmd {
	if len(m.ids) == 0 {
		return nil
	}
	n := len(m.ids)
	m.focus = ((m.focus+step)%n + n) % n
	m.opts.Focus = m.ids[m.focus]
	return m.relayout()
}

func nextStyle(s route.Style) route.Style {
	switch s {
	case route.Straight:
		return route.Curved
	case route.Curved:
		return route.Organic
	}
	return route.Straight
}

// =============================================================================
// View
// =============================================================================

func (m exploreModel) View() string {
	var b strings.Builder
	rows := max(m.rows-chromeRows, 1)

	if m.frame == nil {
		if m.err != nil {
			b.WriteString(canvasWarningStyle.Render(m.err.Error()))
		} else {
			b.WriteString(canvasStatusStyle.Render("Laying out..."))
		}
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("q quit"))
		return b.String()
	}

	b.WriteString(m.drawCanvas(m.cols, rows))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ pan  +/- zoom  0 fit  tab focus  esc unfocus  d direction  s style  q quit"))
	return b.String()
}

func (m exploreModel) statusLine() string {
	focus := "none"
	if m.opts.Focus != "" {
		focus = m.opts.Focus
		if n, ok := m.frame.Node(m.opts.Focus); ok && n.Text != "" {
			focus = n.Text
		}
	}
	parts := []string{
		fmt.Sprintf("%d nodes", m.frame.Len()),
		fmt.Sprintf("%d visible", len(m.visible)),
		fmt.Sprintf("zoom %.2fx", m.xf.Scale),
		"focus " + focus,
		m.opts.Direction.String(),
		string(m.opts.Style),
	}
	line := canvasStatusStyle.Render(strings.Join(parts, " · "))
	if m.pending {
		line += StyleDim.Render("  (updating)")
	}
	if m.err != nil {
		line += "  " + canvasWarningStyle.Render(m.err.Error())
	}
	return line
}

// canvas is a grid of runes with a paint level per cell.
type canvas struct {
	w, h  int
	runes [][]rune
	paint [][]int
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), paint: make([][]int, h)}
	for y := range h {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.paint[y] = make([]int, w)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || c.paint[y][x] > p {
		return
	}
	c.runes[y][x] = r
	c.paint[y][x] = p
}

// line draws a dotted segment between two cells.
func (c *canvas) line(x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		c.set(x, y, '·', paintEdge)
	}
}

func (c *canvas) label(x, y int, text string, p int) {
	r := []rune(text)
	if len(r) > labelWidth {
		r = append(r[:labelWidth-1], '…')
	}
	start := x - len(r)/2
	for i, ch := range r {
		c.set(start+i, y, ch, p)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		row, paint := c.runes[y], c.paint[y]
		for x := 0; x < c.w; {
			end := x
			for end < c.w && paint[end] == paint[x] {
				end++
			}
			b.WriteString(paintStyles[paint[x]].Render(string(row[x:end])))
			x = end
		}
	}
	return b.String()
}

func (m exploreModel) cellOf(p geom.Point) (int, int) {
	s := m.xf.Apply(p)
	return int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))
}

func (m exploreModel) drawCanvas(w, h int) string {
	c := newCanvas(w, h)
	positions := m.frame.Positions()

	for _, e := range m.frame.Edges {
		if !m.visible[e.From] && !m.visible[e.To] {
			continue
		}
		x0, y0 := m.cellOf(positions[e.From])
		x1, y1 := m.cellOf(positions[e.To])
		c.line(x0, y0, x1, y1)
	}
	for _, n := range m.frame.Nodes {
		if !m.visible[n.ID] {
			continue
		}
		text := n.Text
		if text == "" {
			text = n.ID
		}
		x, y := m.cellOf(n.Point())
		c.label(x, y, text, paintOf(n))
	}
	return c.String()
}

func paintOf(n frame.Node) int {
	switch n.Emphasis {
	case "focused":
		return paintFocus
	case "on_path":
		return paintPath
	case "dimmed":
		return paintDimmed
	}
	return paintNode
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
