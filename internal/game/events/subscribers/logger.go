package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events"
)

// LoggerSubscriber logs batch events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging of the full event as JSON
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("batch_id", event.BatchID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.BatchStartedEvent:
		logEvent.
			Int("games", e.Games).
			Int("workers", e.Workers).
			Uint64("seed", e.Seed).
			Str("source", e.Source).
			Str("tracker", e.Tracker).
			Int("board_size", e.BoardSize).
			Int("win_length", e.WinLength)

	case *events.WorkerFinishedEvent:
		logEvent.
			Int("worker", e.Worker).
			Uint64("seed", e.Seed).
			Int("games", e.Counts.Games()).
			Int("circle", e.Counts.Circle).
			Int("cross", e.Counts.Cross).
			Int("draw", e.Counts.Draw).
			Dur("elapsed", e.Elapsed)

	case *events.BatchCompletedEvent:
		logEvent.
			Int("circle", e.Counts.Circle).
			Int("cross", e.Counts.Cross).
			Int("draw", e.Counts.Draw).
			Int64("moves", e.Counts.Moves).
			Dur("elapsed", e.Elapsed)

	case *events.BatchAbortedEvent:
		logEvent.
			Str("reason", e.Reason).
			Int("played", e.Played)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Batch event")
}
