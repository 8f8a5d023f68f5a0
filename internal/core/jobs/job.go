package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownJob    = errors.New("no handler registered for job")
	ErrRunnerStopped = errors.New("job runner is stopped")
)

// Job is a named unit of background work with JSON-encoded arguments.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Args       json.RawMessage `json:"args"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	LastError  string          `json:"last_error,omitempty"`
}

func NewJob(name string, args interface{}) (Job, error) {
	if name == "" {
		return Job{}, errors.New("job name is required")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return Job{}, fmt.Errorf("failed to encode args for job %s: %w", name, err)
	}
	return Job{
		ID:         uuid.NewString(),
		Name:       name,
		Args:       raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

func (j Job) Decode(v interface{}) error {
	if err := json.Unmarshal(j.Args, v); err != nil {
		return fmt.Errorf("failed to decode args for job %s: %w", j.Name, err)
	}
	return nil
}

// Handler runs a job and returns a short human-readable result.
type Handler func(ctx context.Context, job Job) (string, error)

// Enqueuer submits jobs without waiting for them to run.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, args interface{}) (Job, error)
}

type Store interface {
	Put(job Job) error
	Get(id string) (Job, bool, error)
	Delete(id string) error
	Bury(job Job) error
	Pending() ([]Job, error)
	Dead() ([]Job, error)
	Close() error
}
