package events

import (
	"time"
)

// Event type constants
const (
	TypeBatchStarted   = "batch.started"
	TypeWorkerFinished = "worker.finished"
	TypeBatchCompleted = "batch.completed"
	TypeBatchAborted   = "batch.aborted"
)

// Counts is the outcome tally carried by events
type Counts struct {
	Circle int   `json:"circle"`
	Cross  int   `json:"cross"`
	Draw   int   `json:"draw"`
	Moves  int64 `json:"moves"`
}

// Games returns the number of games counted
func (c Counts) Games() int { return c.Circle + c.Cross + c.Draw }

// BatchStartedEvent is published before the first game of a batch
type BatchStartedEvent struct {
	BaseEvent
	Games     int    `json:"games"`
	Workers   int    `json:"workers"`
	Seed      uint64 `json:"seed"`
	Source    string `json:"source"`
	Tracker   string `json:"tracker"`
	BoardSize int    `json:"board_size"`
	WinLength int    `json:"win_length"`
}

// NewBatchStartedEvent creates a new BatchStartedEvent
func NewBatchStartedEvent(batchID string, games, workers int, seed uint64, source, tracker string, boardSize, winLength int) *BatchStartedEvent {
	return &BatchStartedEvent{
		BaseEvent: newBase(TypeBatchStarted, batchID),
		Games:     games,
		Workers:   workers,
		Seed:      seed,
		Source:    source,
		Tracker:   tracker,
		BoardSize: boardSize,
		WinLength: winLength,
	}
}

// WorkerFinishedEvent is published when one worker has played its share
type WorkerFinishedEvent struct {
	BaseEvent
	Worker  int           `json:"worker"`
	Seed    uint64        `json:"seed"`
	Counts  Counts        `json:"counts"`
	Elapsed time.Duration `json:"elapsed"`
}

// NewWorkerFinishedEvent creates a new WorkerFinishedEvent
func NewWorkerFinishedEvent(batchID string, worker int, seed uint64, counts Counts, elapsed time.Duration) *WorkerFinishedEvent {
	return &WorkerFinishedEvent{
		BaseEvent: newBase(TypeWorkerFinished, batchID),
		Worker:    worker,
		Seed:      seed,
		Counts:    counts,
		Elapsed:   elapsed,
	}
}

// BatchCompletedEvent is published once every game of a batch is tallied
type BatchCompletedEvent struct {
	BaseEvent
	Counts  Counts        `json:"counts"`
	Elapsed time.Duration `json:"elapsed"`
}

// NewBatchCompletedEvent creates a new BatchCompletedEvent
func NewBatchCompletedEvent(batchID string, counts Counts, elapsed time.Duration) *BatchCompletedEvent {
	return &BatchCompletedEvent{
		BaseEvent: newBase(TypeBatchCompleted, batchID),
		Counts:    counts,
		Elapsed:   elapsed,
	}
}

// BatchAbortedEvent is published when a batch stops before all games ran
type BatchAbortedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
	Played int    `json:"played"`
}

// NewBatchAbortedEvent creates a new BatchAbortedEvent
func NewBatchAbortedEvent(batchID string, err error, played int) *BatchAbortedEvent {
	return &BatchAbortedEvent{
		BaseEvent: newBase(TypeBatchAborted, batchID),
		Reason:    err.Error(),
		Played:    played,
	}
}
