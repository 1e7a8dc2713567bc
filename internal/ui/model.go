package ui

import (
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reel/internal/a11y"
	"reel/internal/carousel"
	"reel/internal/config"
	"reel/internal/deck"
	"reel/internal/domain"
	"reel/internal/eventbus"
	"reel/internal/history"
	"reel/internal/schedule"
	"reel/internal/strip"
	"reel/internal/ui/views"
)

// WheelReleaseWait is how long the wheel must be idle before the strip
// snaps
const WheelReleaseWait = 150 * time.Millisecond

// wheelStep is how far one wheel notch scrolls, in cells
const wheelStep = 3

// maxPumpRounds bounds a single frame pump
const maxPumpRounds = 1000

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	deck    *deck.Deck
	history *history.Store

	queue     *schedule.Queue
	clock     schedule.Clock
	strip     *strip.Strip
	nodes     []*strip.Node
	carousel  *carousel.Carousel
	annotator *a11y.Annotator
	wheel     *schedule.Debouncer

	width  int
	height int
	keys   keyMap
	help   help.Model
	styles *views.Styles
	slides *views.SlideRenderer
	helpR  *HelpRenderer

	gotoInput  textinput.Model
	inGoto     bool
	showHelp   bool
	helpScroll int

	status      string
	statusIsErr bool
	autoplay    bool
	inPagerMode bool
	framing     bool
	lastFrame   time.Time
	dragging    bool
	dragFrom    int
	laidOut     bool
	restore     int

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model for d. store may be nil when history is
// disabled.
func NewModel(bus eventbus.EventBus, cfg *config.Config, d *deck.Deck, store *history.Store) *Model {
	m := &Model{}
	m.init(bus, cfg, d, store, schedule.NewPostingClock(m.post))
	return m
}

func (m *Model) init(bus eventbus.EventBus, cfg *config.Config, d *deck.Deck, store *history.Store, clock schedule.Clock) {
	styles := views.NewStyles()
	m.bus = bus
	m.config = cfg
	m.deck = d
	m.history = store
	m.queue = schedule.NewQueue()
	m.clock = clock
	m.strip = strip.New(0)
	m.annotator = a11y.New()
	m.keys = newKeyMap()
	m.help = help.New()
	m.styles = styles
	m.slides = views.NewSlideRenderer(styles)
	m.helpR = NewHelpRenderer()
	m.restore = -1

	m.gotoInput = textinput.New()
	m.gotoInput.Placeholder = "slide number"
	m.gotoInput.Prompt = "Go to: "
	m.gotoInput.CharLimit = 6

	m.carousel = carousel.New(carousel.Options{
		Surface:       m.strip,
		Scheduler:     m.queue,
		Clock:         clock,
		OnIndexChange: m.publishIndexChange,
	})
	m.carousel.SetOnAutoAdvanceStop(func(reason string) {
		m.autoplay = false
		if m.bus != nil {
			m.bus.Publish(eventbus.AutoAdvanceStoppedEvent{Reason: reason})
		}
	})
	m.strip.SetSink(m.carousel)
	m.wheel = schedule.NewDebouncer(clock, WheelReleaseWait, m.strip.Release)

	m.applyConfig()

	elements := make([]carousel.Element, len(d.Slides))
	m.nodes = make([]*strip.Node, len(d.Slides))
	for i := range d.Slides {
		m.nodes[i] = m.strip.AppendSlide(1, i)
		elements[i] = m.nodes[i]
	}
	m.annotator.UpdateSlideCount(len(elements))
	m.carousel.UpdateSlides(elements)

	if store != nil {
		index, ok, err := store.Load(context.Background(), d.Path, len(d.Slides))
		if err != nil {
			log.Printf("Failed to load position for %s: %v", d.Path, err)
		} else if ok {
			m.restore = index
		}
	}
}

// applyConfig pushes the carousel settings into the carousel
func (m *Model) applyConfig() {
	c := m.config.Carousel
	m.strip.SetReverse(!c.Forwards)
	m.carousel.UpdateHorizontal(c.Horizontal)
	m.carousel.UpdateForwards(c.Forwards)
	m.carousel.UpdateLoop(c.Loop)
	m.carousel.UpdateAlignment(m.config.Alignment())
	m.carousel.UpdateVisibleCount(c.VisibleCount)
	m.carousel.UpdateSnap(c.Snap)
	m.carousel.UpdateSnapBy(c.SnapBy)
	m.carousel.UpdateAdvanceCount(c.AdvanceCount)
	m.carousel.UpdateMixedLength(c.MixedLength)
	m.carousel.UpdateUserScrollable(c.UserScrollable)
	m.annotator.UpdateVisibleCount(c.VisibleCount)
	m.annotator.UpdateMixedLength(c.MixedLength)

	a := m.config.Autoplay
	m.carousel.UpdateAutoAdvanceInterval(m.config.AutoplayInterval())
	m.carousel.UpdateAutoAdvanceCount(a.Count)
	m.carousel.UpdateAutoAdvanceLoops(a.Loops)
	m.carousel.UpdateAutoAdvance(a.Enabled)
	m.autoplay = a.Enabled
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// SetStart opens the deck on index instead of the remembered position.
// Out-of-range indices are ignored.
func (m *Model) SetStart(index int) {
	if index >= 0 && index < len(m.deck.Slides) {
		m.restore = index
	}
}

// post hands a timer callback to the event loop
func (m *Model) post(fn func()) {
	if m.program == nil {
		log.Printf("Dropping timer callback: program not set")
		return
	}
	m.program.Send(runMsg{fn: fn})
}

// publishIndexChange forwards resting index changes to the bus, or applies
// them directly when there is no bus
func (m *Model) publishIndexChange(ev domain.IndexChangedEvent) {
	if m.bus == nil {
		m.applyIndexChange(ev)
		return
	}
	m.bus.Publish(ev)
}

func (m *Model) applyIndexChange(ev domain.IndexChangedEvent) {
	m.annotator.UpdateCurrentIndex(ev.Index)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages. Every message ends with a frame pump so the
// carousel's queued work runs before the next render.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.pump()
	m.restorePosition()
	return m, tea.Batch(cmd, m.startFrames())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))
		return nil

	case runMsg:
		msg.fn()
		return nil

	case frameMsg:
		return m.handleFrame(time.Time(msg))

	case EventMsg:
		return m.handleEvent(msg.Event)

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Pager failed: %v", msg.err)
			return m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}
		return nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		m.carousel.PauseAutoAdvance()
		return nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		m.carousel.ResumeAutoAdvance()
		return nil

	case clearStatusMsg:
		m.status = ""
		m.statusIsErr = false
		return nil
	}
	return nil
}

// pump runs queued carousel work and delivers strip events until both
// are quiet
func (m *Model) pump() {
	for i := 0; i < maxPumpRounds; i++ {
		ran := m.queue.Flush()
		delivered := m.strip.Dispatch()
		if ran == 0 && !delivered {
			return
		}
	}
	log.Printf("Frame pump did not go quiet after %d rounds", maxPumpRounds)
}

// restorePosition jumps to the remembered slide once the first layout has
// settled
func (m *Model) restorePosition() {
	if m.restore < 0 || !m.laidOut {
		return
	}
	index := m.restore
	m.restore = -1
	log.Printf("Restoring %s to slide %d", m.deck.Path, index)
	m.carousel.GoToSlide(index, carousel.GoToOptions{Instant: true, ActionSource: domain.SourceNone})
	m.pump()
}

// startFrames starts the frame ticker if an animation began
func (m *Model) startFrames() tea.Cmd {
	if m.framing || !m.strip.Animating() {
		return nil
	}
	m.framing = true
	m.lastFrame = time.Now()
	return m.frameTick()
}

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(m.config.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) handleFrame(now time.Time) tea.Cmd {
	dt := now.Sub(m.lastFrame)
	if dt <= 0 {
		dt = m.config.FrameInterval()
	}
	m.lastFrame = now
	if m.strip.Step(dt) {
		return m.frameTick()
	}
	m.framing = false
	return nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch ev := e.(type) {
	case eventbus.IndexChangedEvent:
		m.applyIndexChange(ev)
	case eventbus.AutoAdvanceStoppedEvent:
		return m.setStatus("Autoplay stopped: "+ev.Reason, false)
	case eventbus.ErrorEvent:
		return m.setStatus(ev.Message, true)
	case eventbus.ConfigSavedEvent:
		return m.setStatus("Config saved to "+ev.Path, false)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	if m.inGoto {
		return m.handleGotoKey(msg)
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.showHelp = false
			m.helpScroll = 0
		case msg.String() == "down" || msg.String() == "j":
			m.helpScroll++
		case msg.String() == "up" || msg.String() == "k":
			m.helpScroll = max(0, m.helpScroll-1)
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Prev):
		m.carousel.Prev(domain.SourceGenericHighTrust)
	case key.Matches(msg, m.keys.Next):
		m.carousel.Next(domain.SourceGenericHighTrust)
	case key.Matches(msg, m.keys.GoTo):
		m.inGoto = true
		m.gotoInput.SetValue("")
		return m.gotoInput.Focus()
	case key.Matches(msg, m.keys.Loop):
		m.config.Carousel.Loop = !m.config.Carousel.Loop
		m.carousel.UpdateLoop(m.config.Carousel.Loop)
		return m.setStatus(onOff("Loop", m.config.Carousel.Loop), false)
	case key.Matches(msg, m.keys.More):
		m.setVisibleCount(m.config.Carousel.VisibleCount + 1)
	case key.Matches(msg, m.keys.Fewer):
		m.setVisibleCount(m.config.Carousel.VisibleCount - 1)
	case key.Matches(msg, m.keys.Align):
		align := domain.AlignCenter
		if m.carousel.Alignment() == domain.AlignCenter {
			align = domain.AlignStart
		}
		m.config.Carousel.Alignment = align.String()
		m.carousel.UpdateAlignment(align)
		return m.setStatus("Alignment: "+align.String(), false)
	case key.Matches(msg, m.keys.Autoplay):
		m.autoplay = !m.autoplay
		m.carousel.UpdateAutoAdvance(m.autoplay)
		return m.setStatus(onOff("Autoplay", m.autoplay), false)
	case key.Matches(msg, m.keys.Pager):
		return m.openPager()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return nil
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeGoto()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.gotoInput.Value())
		m.closeGoto()
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > len(m.deck.Slides) {
			return m.setStatus(fmt.Sprintf("No slide %q", value), true)
		}
		m.carousel.GoToSlide(n-1, carousel.GoToOptions{ActionSource: domain.SourceGenericHighTrust})
		return nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return cmd
}

func (m *Model) closeGoto() {
	m.inGoto = false
	m.gotoInput.Blur()
	m.gotoInput.SetValue("")
}

// handleMouse maps the wheel and left-button drags onto the carousel's
// wheel and touch inputs
func (m *Model) handleMouse(ev tea.MouseEvent) {
	if !m.config.Carousel.UserScrollable {
		return
	}
	pos := ev.X
	if !m.config.Carousel.Horizontal {
		pos = ev.Y
	}

	switch {
	case ev.IsWheel():
		delta := float64(wheelStep)
		if ev.Button == tea.MouseButtonWheelUp || ev.Button == tea.MouseButtonWheelLeft {
			delta = -delta
		}
		m.carousel.HandleWheel()
		m.strip.ScrollBy(delta)
		m.wheel.Trigger()

	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.dragFrom = pos
		m.wheel.Cancel()
		m.carousel.HandleTouchStart()

	case ev.Action == tea.MouseActionMotion && m.dragging:
		m.strip.ScrollBy(float64(m.dragFrom - pos))
		m.dragFrom = pos

	case ev.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.carousel.HandleTouchEnd()
		m.strip.Release()
	}
}

func (m *Model) setVisibleCount(n int) {
	n = max(1, min(n, max(1, len(m.deck.Slides))))
	if n == m.config.Carousel.VisibleCount {
		return
	}
	m.config.Carousel.VisibleCount = n
	m.carousel.UpdateVisibleCount(n)
	m.annotator.UpdateVisibleCount(n)
	m.layout()
}

// footerHeight is the number of rows below the slides
func (m *Model) footerHeight() int {
	if !m.config.UI.ShowStatus {
		return 0
	}
	return 2
}

// viewportLength is the size of the scroll axis in cells
func (m *Model) viewportLength() int {
	if m.config.Carousel.Horizontal {
		return m.width
	}
	return max(0, m.height-m.footerHeight())
}

// crossLength is the size of the other axis
func (m *Model) crossLength() int {
	if m.config.Carousel.Horizontal {
		return max(0, m.height-m.footerHeight())
	}
	return m.width
}

// slideLength is how long slide i is along the scroll axis
func (m *Model) slideLength(i int) int {
	container := m.viewportLength()
	base := max(1, container/max(1, m.config.Carousel.VisibleCount))
	if !m.config.Carousel.MixedLength || !m.config.Carousel.Horizontal {
		return base
	}
	// border and padding on both sides
	return max(8, min(container, m.deck.Slides[i].Width()+4))
}

// layout sizes the strip and its slides from the window
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.strip.SetContainerLength(float64(m.viewportLength()))
	for i, n := range m.nodes {
		m.strip.SetLength(n, float64(m.slideLength(i)))
	}
	m.slides.Invalidate()
	m.carousel.UpdateUI()
	m.laidOut = true
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusIsErr = isErr
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// openPager returns a command that shows the current slide in the ov pager
func (m *Model) openPager() tea.Cmd {
	if m.program == nil {
		return m.setStatus("Pager unavailable", true)
	}
	index := m.carousel.CurrentIndex()
	if index < 0 || index >= len(m.deck.Slides) {
		return nil
	}
	slide := m.deck.Slides[index]
	caption := fmt.Sprintf("%s: %s", filepath.Base(m.deck.Path), slide.Title)
	ops := NewPagerOps(m.program)
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := ops.ShowInPager(caption, slide.Text())

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

// quit remembers the resting index and exits
func (m *Model) quit() tea.Cmd {
	m.saveHistory()
	return tea.Quit
}

func (m *Model) saveHistory() {
	if m.history == nil || len(m.deck.Slides) == 0 {
		return
	}
	index := m.carousel.RestingIndex()
	if index < 0 {
		return
	}
	if err := m.history.Save(context.Background(), m.deck.Path, index, len(m.deck.Slides)); err != nil {
		log.Printf("Failed to save position for %s: %v", m.deck.Path, err)
	}
}

// View renders the deck
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	if m.showHelp {
		box := m.styles.HelpBox.Render(m.helpR.renderHelpContent(m.height, m.helpScroll))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	body := m.renderSlides()
	if m.footerHeight() == 0 {
		return body
	}
	return body + "\n" + m.renderStatus() + "\n" + m.renderFooter()
}

// placements positions every visible slide relative to the viewport
func (m *Model) placements() []views.Placement {
	container := m.strip.ContainerLength()
	scroll := m.strip.ScrollPosition(domain.AxisX)
	cross := m.crossLength()
	current := m.carousel.CurrentIndex()

	var out []views.Placement
	for _, n := range m.strip.Nodes() {
		index, ok := n.Payload.(int)
		if n.Spacer || n.Hidden || !ok {
			continue
		}
		start := n.VisualStart() - scroll
		if m.strip.Reverse() {
			start = container - start - n.Length
		}
		if start+n.Length <= 0 || start >= container {
			continue
		}
		length := int(math.Round(n.Length))
		slide := m.deck.Slides[index]
		var lines []string
		if m.config.Carousel.Horizontal {
			lines = m.slides.Render(slide, length, cross, index == current)
		} else {
			lines = m.slides.Render(slide, cross, length, index == current)
		}
		out = append(out, views.Placement{
			Offset: int(math.Round(start)),
			Length: length,
			Lines:  lines,
		})
	}
	return out
}

func (m *Model) renderSlides() string {
	if m.config.Carousel.Horizontal {
		return views.ComposeHorizontal(m.placements(), m.width, m.crossLength())
	}
	return views.ComposeVertical(m.placements(), m.width, m.viewportLength())
}

func (m *Model) renderStatus() string {
	left := m.styles.Title.Render(filepath.Base(m.deck.Path)) + " " +
		m.styles.Status.Render(m.annotator.Describe())

	var flags []string
	if m.carousel.IsLooping() {
		flags = append(flags, "loop")
	}
	if m.autoplay {
		flags = append(flags, "autoplay")
	}
	if m.carousel.Alignment() == domain.AlignCenter {
		flags = append(flags, "center")
	}
	if len(flags) > 0 {
		left += " " + m.styles.StatusFlag.Render("["+strings.Join(flags, " ")+"]")
	}

	right := ""
	if m.status != "" {
		style := m.styles.StatusSuccess
		if m.statusIsErr {
			style = m.styles.StatusError
		}
		right = style.Render(m.status)
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderFooter() string {
	if m.inGoto {
		return m.styles.Prompt.Render(m.gotoInput.View())
	}
	return m.help.View(m.keys)
}

func onOff(name string, on bool) string {
	if on {
		return name + " on"
	}
	return name + " off"
}
