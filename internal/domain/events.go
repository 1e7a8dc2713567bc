package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventIndexChanged          EventType = "IndexChanged"
	EventScrollPositionChanged EventType = "ScrollPositionChanged"
	EventDeckLoaded            EventType = "DeckLoaded"
	EventAutoAdvanceStopped    EventType = "AutoAdvanceStopped"
	EventError                 EventType = "Error"
	EventConfigLoaded          EventType = "ConfigLoaded"
	EventConfigSaved           EventType = "ConfigSaved"
	EventPositionSaved         EventType = "PositionSaved"
	EventScanStarted           EventType = "ScanStarted"
	EventDeckDiscovered        EventType = "DeckDiscovered"
	EventScanCompleted         EventType = "ScanCompleted"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// IndexChangedEvent is emitted whenever the carousel settles on a new resting index
type IndexChangedEvent struct {
	Index        int
	ActionSource ActionSource
}

func (e IndexChangedEvent) Type() EventType { return EventIndexChanged }

// ScrollPositionChangedEvent is emitted whenever scrolling settles, even if
// the index did not change
type ScrollPositionChangedEvent struct{}

func (e ScrollPositionChangedEvent) Type() EventType { return EventScrollPositionChanged }

// DeckLoadedEvent is emitted when a deck has been parsed into slides
type DeckLoadedEvent struct {
	Path       string
	SlideCount int
}

func (e DeckLoadedEvent) Type() EventType { return EventDeckLoaded }

// AutoAdvanceStoppedEvent is emitted when autoplay stops for good
type AutoAdvanceStoppedEvent struct {
	Reason string
}

func (e AutoAdvanceStoppedEvent) Type() EventType { return EventAutoAdvanceStopped }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// PositionSavedEvent is emitted when a deck's resting index is remembered
type PositionSavedEvent struct {
	DeckPath string
	Index    int
}

func (e PositionSavedEvent) Type() EventType { return EventPositionSaved }

// ScanStartedEvent is emitted when deck discovery begins
type ScanStartedEvent struct {
	Paths []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// DeckDiscoveredEvent is emitted for each readable deck found by a scan
type DeckDiscoveredEvent struct {
	Path       string
	Title      string
	SlideCount int
}

func (e DeckDiscoveredEvent) Type() EventType { return EventDeckDiscovered }

// ScanCompletedEvent is emitted once a scan has finished or been stopped
type ScanCompletedEvent struct {
	DecksFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }
