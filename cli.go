package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"reel/internal/config"
	"reel/internal/deck"
	"reel/internal/discovery"
	reelerrors "reel/internal/errors"
	"reel/internal/eventbus"
	"reel/internal/history"
	"reel/internal/ui"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:      "reel",
		Usage:     "Present a markdown deck as a scrolling carousel",
		Version:   Version,
		ArgsUsage: "DECK.md",
		Flags:     append(globalFlags(), viewFlags()...),
		Action:    viewAction,
		Commands: []*cli.Command{
			viewCmd(),
			slidesCmd(),
			decksCmd(),
			historyCmd(),
			configCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "Global config file (default: $XDG_CONFIG_HOME/reel/config.toml)"},
		&cli.StringFlag{Name: "log", Value: "reel.log", Usage: "Log file"},
	}
}

func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "start", Aliases: []string{"s"}, Usage: "Open on slide `N` (1-based)"},
		&cli.BoolFlag{Name: "loop", Usage: "Loop past the last slide"},
		&cli.IntFlag{Name: "visible", Aliases: []string{"n"}, Usage: "Slides shown at once"},
		&cli.BoolFlag{Name: "center", Usage: "Center the current slide"},
		&cli.BoolFlag{Name: "vertical", Usage: "Scroll top to bottom"},
		&cli.BoolFlag{Name: "rtl", Usage: "Lay slides out right to left"},
		&cli.BoolFlag{Name: "autoplay", Usage: "Advance automatically"},
	}
}

// viewCmd creates the view command.
func viewCmd() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Open a deck in the carousel (default command)",
		ArgsUsage: "DECK.md",
		Flags:     viewFlags(),
		Action:    viewAction,
	}
}

func viewAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return outputError(reelerrors.NewInvalidRequest("exactly one deck file is required"))
	}
	deckPath, err := filepath.Abs(c.Args().First())
	if err != nil {
		return outputError(reelerrors.NewInternal(err))
	}

	// Set up logging
	logFile, err := os.OpenFile(c.String("log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle termination signals; ctrl+c arrives as a key press
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := eventbus.New()
	defer bus.Close()

	cfg, err := loadConfig(bus, c.String("config"), deckPath)
	if err != nil {
		return outputError(err)
	}
	if err := applyViewFlags(cfg, c); err != nil {
		return outputError(err)
	}

	d, err := deck.Load(deckPath)
	if err != nil {
		return outputError(err)
	}
	bus.Publish(eventbus.DeckLoadedEvent{Path: d.Path, SlideCount: len(d.Slides)})

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			// History is a convenience; run without it
			log.Printf("Could not open history: %v", err)
			store = nil
		} else {
			store.SetBus(bus)
			defer store.Close()
		}
	}

	log.Printf("Creating UI model for %s (%d slides)", d.Path, len(d.Slides))
	model := ui.NewModel(bus, cfg, d, store)
	if c.IsSet("start") {
		model.SetStart(c.Int("start") - 1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Create event channel for UI
	eventChan := make(chan eventbus.DomainEvent, 100)

	// Forward events to the event channel
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventIndexChanged,
		eventbus.EventAutoAdvanceStopped,
		eventbus.EventError,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(t, forwardEvent)
	}

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	log.Printf("Starting UI...")
	_, err = p.Run()

	// Cleanup: no handler may forward once the channel is closed
	bus.Close()
	close(eventChan)

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Error running program: %v", err)
		return outputError(reelerrors.NewInternal(err))
	}
	log.Printf("UI exited normally")
	return nil
}

// loadConfig layers the global config and the deck's .reel.toml over the
// defaults
func loadConfig(bus eventbus.EventBus, globalPath, deckPath string) (*config.Config, error) {
	configSvc := config.NewConfigServiceWithBus(bus, globalPath)
	cfg, err := configSvc.Load()
	if err != nil {
		return nil, err
	}
	if deckPath == "" {
		return cfg, nil
	}
	if path := config.FindDeckConfig(deckPath); path != "" {
		if err := config.DecodeOnto(cfg, path); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		log.Printf("Loaded deck config from %s", path)
	}
	return cfg, nil
}

// applyViewFlags lets command-line flags override the loaded config
func applyViewFlags(cfg *config.Config, c *cli.Context) error {
	if c.IsSet("loop") {
		cfg.Carousel.Loop = c.Bool("loop")
	}
	if c.IsSet("visible") {
		cfg.Carousel.VisibleCount = c.Int("visible")
	}
	if c.IsSet("center") {
		cfg.Carousel.Alignment = "start"
		if c.Bool("center") {
			cfg.Carousel.Alignment = "center"
		}
	}
	if c.IsSet("vertical") {
		cfg.Carousel.Horizontal = !c.Bool("vertical")
	}
	if c.IsSet("rtl") {
		cfg.Carousel.Forwards = !c.Bool("rtl")
	}
	if c.IsSet("autoplay") {
		cfg.Autoplay.Enabled = c.Bool("autoplay")
	}
	return cfg.Validate()
}

// slidesCmd creates the slides command.
func slidesCmd() *cli.Command {
	return &cli.Command{
		Name:      "slides",
		Usage:     "List the slides of a deck",
		ArgsUsage: "DECK.md",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(reelerrors.NewInvalidRequest("exactly one deck file is required"))
			}
			d, err := deck.Load(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			for i, title := range d.Titles() {
				fmt.Fprintf(c.App.Writer, "%3d  %s\n", i+1, title)
			}
			return nil
		},
	}
}

// decksCmd creates the decks command.
func decksCmd() *cli.Command {
	return &cli.Command{
		Name:      "decks",
		Usage:     "Find markdown decks below the given directories",
		ArgsUsage: "[DIR...]",
		Action: func(c *cli.Context) error {
			roots := c.Args().Slice()
			if len(roots) == 0 {
				roots = []string{"."}
			}

			bus := eventbus.New()
			defer bus.Close()

			var mu sync.Mutex
			var found []eventbus.DeckDiscoveredEvent
			done := make(chan struct{})
			bus.Subscribe(eventbus.EventDeckDiscovered, func(e eventbus.DomainEvent) {
				mu.Lock()
				defer mu.Unlock()
				found = append(found, e.(eventbus.DeckDiscoveredEvent))
			})
			bus.Subscribe(eventbus.EventScanCompleted, func(eventbus.DomainEvent) {
				close(done)
			})

			ds := discovery.NewDiscoveryService(bus)
			if err := ds.StartScan(c.Context, roots); err != nil {
				return outputError(reelerrors.NewInternal(err))
			}
			<-done

			mu.Lock()
			defer mu.Unlock()
			sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })

			positions := rememberedPositions(c)
			for _, d := range found {
				line := fmt.Sprintf("%3d slides  %s  %s", d.SlideCount, d.Path, d.Title)
				if abs, err := filepath.Abs(d.Path); err == nil {
					if index, ok := positions[abs]; ok && index < d.SlideCount {
						line += fmt.Sprintf("  (at %d)", index+1)
					}
				}
				fmt.Fprintln(c.App.Writer, line)
			}
			return nil
		},
	}
}

// rememberedPositions maps absolute deck paths to their saved index. Any
// failure just means no positions are shown.
func rememberedPositions(c *cli.Context) map[string]int {
	positions := map[string]int{}
	cfg, err := config.NewConfigService(c.String("config")).Load()
	if err != nil || !cfg.History.Enabled {
		return positions
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Printf("decks: history unavailable: %v", err)
		return positions
	}
	defer store.Close()

	entries, err := store.List(c.Context)
	if err != nil {
		return positions
	}
	for _, e := range entries {
		positions[e.DeckPath] = e.Index
	}
	return positions
}

// historyCmd creates the history command.
func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List or forget remembered deck positions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "forget", Usage: "Forget the position of `DECK`"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.NewConfigService(c.String("config")).Load()
			if err != nil {
				return outputError(err)
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return outputError(reelerrors.NewInternal(err))
			}
			defer store.Close()

			if deckPath := c.String("forget"); deckPath != "" {
				removed, err := store.Forget(c.Context, deckPath)
				if err != nil {
					return outputError(reelerrors.NewInternal(err))
				}
				if !removed {
					return outputError(reelerrors.NewInvalidRequest("no remembered position for " + deckPath))
				}
				fmt.Fprintf(c.App.Writer, "forgot %s\n", deckPath)
				return nil
			}

			entries, err := store.List(c.Context)
			if err != nil {
				return outputError(reelerrors.NewInternal(err))
			}
			for _, e := range entries {
				fmt.Fprintf(c.App.Writer, "%s  slide %d/%d  %s\n",
					e.UpdatedAt.Format("2006-01-02 15:04"), e.Index+1, e.SlideCount, e.DeckPath)
			}
			return nil
		},
	}
}

// configCmd creates the config command.
func configCmd() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Print the effective config, or write the defaults",
		ArgsUsage: "[DECK.md]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "init", Usage: "Write the default config to the global config file"},
		},
		Action: func(c *cli.Context) error {
			configSvc := config.NewConfigService(c.String("config"))
			if c.Bool("init") {
				if err := configSvc.Save(config.DefaultConfig()); err != nil {
					return outputError(reelerrors.NewInternal(err))
				}
				fmt.Fprintln(c.App.Writer, "wrote default config")
				return nil
			}

			deckPath := ""
			if c.NArg() > 0 {
				abs, err := filepath.Abs(c.Args().First())
				if err != nil {
					return outputError(reelerrors.NewInternal(err))
				}
				deckPath = abs
			}
			cfg, err := loadConfig(nil, c.String("config"), deckPath)
			if err != nil {
				return outputError(err)
			}
			return outputTOML(c.App.Writer, cfg)
		},
	}
}

// outputTOML writes v as TOML.
func outputTOML(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return outputError(reelerrors.NewInternal(err))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	var reelErr *reelerrors.ReelError
	if errors.As(err, &reelErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", reelErr.Code, reelErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
