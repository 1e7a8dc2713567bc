package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reel/internal/config"
	"reel/internal/deck"
	"reel/internal/domain"
	"reel/internal/eventbus"
	"reel/internal/history"
	"reel/internal/schedule"
)

const testDeck = `# Alpha

first slide

---

# Beta

- one
- two

---

# Gamma

last slide
`

type testModel struct {
	t     *testing.T
	m     *Model
	clock *schedule.ManualClock
}

type testOption func(cfg *config.Config)

func newTestModel(t *testing.T, store *history.Store, opts ...testOption) *testModel {
	t.Helper()
	d, err := deck.Parse(filepath.Join(t.TempDir(), "talk.md"), []byte(testDeck))
	require.NoError(t, err)
	require.Len(t, d.Slides, 3)

	cfg := config.DefaultConfig()
	cfg.History.Enabled = store != nil
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, cfg.Validate())

	tm := &testModel{t: t, m: &Model{}, clock: schedule.NewManualClock()}
	tm.m.init(nil, cfg, d, store, tm.clock)
	tm.send(tea.WindowSizeMsg{Width: 40, Height: 12})
	return tm
}

func (tm *testModel) send(msg tea.Msg) {
	tm.t.Helper()
	tm.m.Update(msg)
}

func (tm *testModel) press(keys ...string) {
	tm.t.Helper()
	for _, k := range keys {
		switch k {
		case "left":
			tm.send(tea.KeyMsg{Type: tea.KeyLeft})
		case "right":
			tm.send(tea.KeyMsg{Type: tea.KeyRight})
		case "enter":
			tm.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			tm.send(tea.KeyMsg{Type: tea.KeyEsc})
		default:
			tm.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

// frames steps the animation until it finishes
func (tm *testModel) frames() {
	tm.t.Helper()
	for i := 0; tm.m.strip.Animating(); i++ {
		require.Less(tm.t, i, 1000, "animation never finished")
		tm.send(frameMsg(tm.m.lastFrame.Add(16 * time.Millisecond)))
	}
}

// advance moves the manual clock, then lets the model pump
func (tm *testModel) advance(d time.Duration) {
	tm.t.Helper()
	tm.clock.Advance(d)
	tm.send(runMsg{fn: func() {}})
}

func (tm *testModel) plainView() string {
	return ansi.Strip(tm.m.View())
}

func TestInitialLayout(t *testing.T) {
	tm := newTestModel(t, nil)

	assert.Equal(t, 0, tm.m.carousel.RestingIndex())
	assert.Equal(t, 40.0, tm.m.strip.ContainerLength())
	for _, n := range tm.m.nodes {
		assert.Equal(t, 40.0, n.Length)
	}

	view := tm.plainView()
	assert.Contains(t, view, "Alpha")
	assert.NotContains(t, view, "Beta")
	assert.Contains(t, view, "Slide 1 of 3")
	assert.Len(t, strings.Split(tm.m.View(), "\n"), 12)
}

func TestNextAnimatesToSlide(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("right")
	assert.True(t, tm.m.strip.Animating())
	assert.True(t, tm.m.framing)

	tm.frames()
	assert.False(t, tm.m.framing)
	assert.Equal(t, 1, tm.m.carousel.RestingIndex())
	assert.Contains(t, tm.plainView(), "Beta")
	assert.Contains(t, tm.plainView(), "Slide 2 of 3")

	tm.press("left")
	tm.frames()
	assert.Equal(t, 0, tm.m.carousel.RestingIndex())
}

func TestGoToPrompt(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("g")
	require.True(t, tm.m.inGoto)
	assert.Contains(t, tm.plainView(), "Go to:")

	tm.press("3", "enter")
	assert.False(t, tm.m.inGoto)
	tm.frames()
	assert.Equal(t, 2, tm.m.carousel.RestingIndex())
}

func TestGoToPromptRejectsBadInput(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("g", "x", "enter")
	assert.Equal(t, `No slide "x"`, tm.m.status)
	assert.True(t, tm.m.statusIsErr)

	tm.press("g", "9", "enter")
	assert.Equal(t, `No slide "9"`, tm.m.status)
	assert.False(t, tm.m.strip.Animating())
	assert.Equal(t, 0, tm.m.carousel.RestingIndex())

	tm.press("g", "2", "esc")
	assert.False(t, tm.m.inGoto)
	assert.False(t, tm.m.strip.Animating())
}

func TestLoopToggleWrapsBackwards(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("L")
	assert.True(t, tm.m.carousel.IsLooping())
	assert.Equal(t, "Loop on", tm.m.status)

	tm.press("left")
	tm.frames()
	assert.Equal(t, 2, tm.m.carousel.RestingIndex())
	assert.Contains(t, tm.plainView(), "Gamma")
}

func TestVisibleCountResizesSlides(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("+")
	assert.Equal(t, 2, tm.m.config.Carousel.VisibleCount)
	assert.Equal(t, 2, tm.m.carousel.VisibleCount())
	for _, n := range tm.m.nodes {
		assert.Equal(t, 20.0, n.Length)
	}
	view := tm.plainView()
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "Beta")

	tm.press("+", "+", "+")
	assert.Equal(t, 3, tm.m.config.Carousel.VisibleCount, "capped at the slide count")

	tm.press("-", "-", "-", "-")
	assert.Equal(t, 1, tm.m.config.Carousel.VisibleCount)
}

func TestAlignmentToggle(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("c")
	assert.Equal(t, domain.AlignCenter, tm.m.carousel.Alignment())
	assert.Contains(t, tm.plainView(), "center")

	tm.press("c")
	assert.Equal(t, domain.AlignStart, tm.m.carousel.Alignment())
}

func TestWheelSnapsAfterIdle(t *testing.T) {
	tm := newTestModel(t, nil)

	for i := 0; i < 8; i++ {
		tm.send(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	}
	assert.Equal(t, 24.0, tm.m.strip.ScrollPosition(domain.AxisX))
	assert.False(t, tm.m.strip.Animating())

	tm.advance(WheelReleaseWait)
	require.True(t, tm.m.strip.Animating())
	tm.frames()
	assert.Equal(t, 40.0, tm.m.strip.ScrollPosition(domain.AxisX))
	assert.Equal(t, 1, tm.m.carousel.RestingIndex())
}

func TestDragActsAsTouch(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.send(tea.MouseMsg{X: 30, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.True(t, tm.m.carousel.Touching())

	tm.send(tea.MouseMsg{X: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	assert.Equal(t, 25.0, tm.m.strip.ScrollPosition(domain.AxisX))

	// keys are ignored while the user is holding the strip
	tm.press("right")
	assert.False(t, tm.m.strip.Animating())

	tm.send(tea.MouseMsg{X: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.False(t, tm.m.carousel.Touching())
	tm.frames()
	assert.Equal(t, 1, tm.m.carousel.RestingIndex())
}

func TestMouseIgnoredWhenNotUserScrollable(t *testing.T) {
	tm := newTestModel(t, nil, func(cfg *config.Config) { cfg.Carousel.UserScrollable = false })

	tm.send(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 0.0, tm.m.strip.ScrollPosition(domain.AxisX))
}

func TestAutoplayAdvances(t *testing.T) {
	tm := newTestModel(t, nil, func(cfg *config.Config) {
		cfg.Autoplay.Enabled = true
		cfg.Autoplay.IntervalMS = 1000
	})
	assert.Contains(t, tm.plainView(), "autoplay")

	tm.advance(time.Second)
	tm.frames()
	assert.Equal(t, 1, tm.m.carousel.RestingIndex())

	// a user move stops autoplay for good
	tm.press("right")
	tm.frames()
	assert.Equal(t, 2, tm.m.carousel.RestingIndex())
	assert.False(t, tm.m.autoplay)
	assert.False(t, tm.m.carousel.AutoAdvancing())
}

func TestAutoplayToggle(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("p")
	assert.True(t, tm.m.autoplay)
	assert.Equal(t, "Autoplay on", tm.m.status)

	tm.press("p")
	assert.False(t, tm.m.autoplay)
}

func TestHistoryRestoreAndSave(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	first := newTestModel(t, store)
	require.NoError(t, store.Save(context.Background(), first.m.deck.Path, 2, 3))

	tm := &testModel{t: t, m: &Model{}, clock: schedule.NewManualClock()}
	cfg := config.DefaultConfig()
	tm.m.init(nil, cfg, first.m.deck, store, tm.clock)
	assert.Equal(t, 2, tm.m.restore)

	tm.send(tea.WindowSizeMsg{Width: 40, Height: 12})
	assert.Equal(t, -1, tm.m.restore)
	assert.Equal(t, 2, tm.m.carousel.RestingIndex())
	assert.Equal(t, 80.0, tm.m.strip.ScrollPosition(domain.AxisX))

	tm.press("left")
	tm.frames()
	tm.press("q")

	index, ok, err := store.Load(context.Background(), first.m.deck.Path, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestVerticalLayout(t *testing.T) {
	tm := newTestModel(t, nil, func(cfg *config.Config) { cfg.Carousel.Horizontal = false })

	assert.Equal(t, 10.0, tm.m.strip.ContainerLength())
	view := tm.plainView()
	assert.Contains(t, view, "Alpha")
	assert.Len(t, strings.Split(tm.m.View(), "\n"), 12)

	tm.press("right")
	tm.frames()
	assert.Equal(t, 1, tm.m.carousel.RestingIndex())
	assert.Contains(t, tm.plainView(), "Beta")
}

func TestRightToLeftMirrorsLayout(t *testing.T) {
	tm := newTestModel(t, nil, func(cfg *config.Config) {
		cfg.Carousel.Forwards = false
		cfg.Carousel.VisibleCount = 2
	})

	// the first slide sits on the right
	lines := strings.Split(tm.plainView(), "\n")
	require.NotEmpty(t, lines)
	body := strings.Join(lines[:10], "\n")
	assert.Contains(t, body, "Alpha")
	alpha := strings.Index(lines[1], "Alpha")
	beta := strings.Index(lines[1], "Beta")
	require.GreaterOrEqual(t, alpha, 0)
	require.GreaterOrEqual(t, beta, 0)
	assert.Greater(t, alpha, beta)
}

func TestEventsUpdateStatus(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.send(EventMsg{Event: eventbus.IndexChangedEvent{Index: 2}})
	assert.Equal(t, "Slide 3 of 3", tm.m.annotator.Describe())

	tm.send(EventMsg{Event: eventbus.AutoAdvanceStoppedEvent{Reason: "user interaction"}})
	assert.Equal(t, "Autoplay stopped: user interaction", tm.m.status)

	tm.send(clearStatusMsg{})
	assert.Empty(t, tm.m.status)
}

func TestHelpOverlay(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("?")
	assert.True(t, tm.m.showHelp)
	assert.Contains(t, tm.plainView(), "reel Help")

	tm.press("right")
	assert.False(t, tm.m.strip.Animating(), "keys go to the help popup")

	tm.press("?")
	assert.False(t, tm.m.showHelp)
}

func TestPagerWithoutProgram(t *testing.T) {
	tm := newTestModel(t, nil)

	tm.press("o")
	assert.Equal(t, "Pager unavailable", tm.m.status)
}

func TestPagerPausesAutoplay(t *testing.T) {
	tm := newTestModel(t, nil, func(cfg *config.Config) {
		cfg.Autoplay.Enabled = true
		cfg.Autoplay.IntervalMS = 1000
	})

	tm.send(pauseRenderingMsg{})
	assert.True(t, tm.m.inPagerMode)
	assert.Empty(t, tm.m.View())

	tm.advance(3 * time.Second)
	assert.False(t, tm.m.strip.Animating())
	assert.Equal(t, 0, tm.m.carousel.RestingIndex())

	tm.send(resumeRenderingMsg{})
	assert.True(t, tm.m.carousel.AutoAdvancing())
	tm.advance(time.Second)
	tm.frames()
	assert.Equal(t, 1, tm.m.carousel.RestingIndex())
}
