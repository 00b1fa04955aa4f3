package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventRecallRequested   EventType = "RecallRequested"
	EventSelectionMade     EventType = "SelectionMade"
	EventSearchStarted     EventType = "SearchStarted"
	EventSearchCompleted   EventType = "SearchCompleted"
	EventStorageChanged    EventType = "StorageChanged"
	EventHistoryChanged    EventType = "HistoryChanged"
	EventPlaybackRequested EventType = "PlaybackRequested"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// RecallRequestedEvent is emitted when a recent query is chosen
type RecallRequestedEvent struct {
	Query string
}

func (e RecallRequestedEvent) Type() EventType { return EventRecallRequested }

// SelectionMadeEvent is emitted when a search result is chosen.
// Origin is only used to position the selection animation.
type SelectionMadeEvent struct {
	Image  SelectedImage
	Origin Rect
}

func (e SelectionMadeEvent) Type() EventType { return EventSelectionMade }

// SearchStartedEvent is emitted when a request is issued
type SearchStartedEvent struct {
	Query  string
	Offset int
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when a request finishes and its result was applied
type SearchCompletedEvent struct {
	Query       string
	Offset      int
	Count       int
	HasNextPage bool
	Err         error
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// StorageChangedEvent mirrors a key/value store write.
// External is set when the write came from another process.
type StorageChangedEvent struct {
	Key      string
	NewValue []byte // raw JSON, nil when removed
	Removed  bool
	External bool
}

func (e StorageChangedEvent) Type() EventType { return EventStorageChanged }

// HistoryChangedEvent carries the full history after a change
type HistoryChangedEvent struct {
	Entries []string
}

func (e HistoryChangedEvent) Type() EventType { return EventHistoryChanged }

// PlaybackRequestedEvent is emitted when the player launches a track
type PlaybackRequestedEvent struct {
	TrackURL string
	EmbedURL string
}

func (e PlaybackRequestedEvent) Type() EventType { return EventPlaybackRequested }

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
