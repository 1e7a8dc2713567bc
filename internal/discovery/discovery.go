package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"reel/internal/deck"
	"reel/internal/eventbus"
)

// MaxDepth is how many directory levels below a root are scanned
const MaxDepth = 5

// DiscoveryService finds markdown decks in the filesystem
type DiscoveryService interface {
	StartScan(ctx context.Context, roots []string) error
	StopScan()
	Wait()
}

type discoveryService struct {
	bus        eventbus.EventBus
	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(bus eventbus.EventBus) DiscoveryService {
	return &discoveryService{bus: bus}
}

// StartScan walks roots in the background, publishing a DeckDiscoveredEvent
// per deck and a ScanCompletedEvent at the end
func (ds *discoveryService) StartScan(ctx context.Context, roots []string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	ds.bus.Publish(eventbus.ScanStartedEvent{Paths: roots})

	decksFound := 0

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()
		defer func() {
			ds.mu.Lock()
			ds.isScanning = false
			ds.cancelFunc = nil
			ds.mu.Unlock()
			cancel()

			ds.bus.Publish(eventbus.ScanCompletedEvent{DecksFound: decksFound})
		}()

		for _, root := range roots {
			select {
			case <-scanCtx.Done():
				return
			default:
				decksFound += ds.scanDirectory(scanCtx, root)
			}
		}
	}()

	return nil
}

// StopScan cancels any ongoing scan and waits for it to finish
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()

	ds.wg.Wait()
}

// Wait blocks until the current scan has finished
func (ds *discoveryService) Wait() {
	ds.wg.Wait()
}

// IsDeckFile reports whether name looks like a markdown deck
func IsDeckFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func skipDir(name string) bool {
	switch name {
	case "node_modules", "vendor", "dist", "build", "target", "__pycache__", "venv":
		return true
	}
	return strings.HasPrefix(name, ".") && name != "."
}

func (ds *discoveryService) scanDirectory(ctx context.Context, root string) int {
	decksFound := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			relPath, _ := filepath.Rel(root, path)
			if strings.Count(relPath, string(filepath.Separator)) >= MaxDepth || skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsDeckFile(d.Name()) {
			return nil
		}

		dk, err := deck.Load(path)
		if err != nil {
			// Empty or unreadable markdown is not a deck
			log.Printf("discovery: skipping %s: %v", path, err)
			return nil
		}

		ds.bus.Publish(eventbus.DeckDiscoveredEvent{
			Path:       path,
			Title:      dk.Slides[0].Title,
			SlideCount: len(dk.Slides),
		})
		decksFound++
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error scanning directory %s: %v", root, err)
		ds.bus.Publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("Failed to scan %s", root),
			Err:     err,
		})
	}

	return decksFound
}
