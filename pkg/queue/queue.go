// Package queue runs background jobs so slow side effects (OTP SMS, email)
// never block a request handler.
//
//	type WelcomeJob struct{ UserID string }
//	func (j *WelcomeJob) Handle(ctx context.Context) error { ... }
//
//	queue.Register("welcome", func() Job { return &WelcomeJob{} })
//	queue.Dispatch(&WelcomeJob{UserID: id})
//
// Jobs are serialized as JSON envelopes so the redis driver can carry them
// across processes; the memory driver backs single-process deployments and
// tests.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/vanyajewels/storefront/pkg/logger"
	"github.com/vanyajewels/storefront/pkg/metrics"
)

// Job is implemented by every queueable unit of work.
type Job interface {
	// Name identifies the job type for serialization.
	Name() string
	// Handle executes the job.
	Handle(ctx context.Context) error
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload is available or ctx is done.
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	JobName  string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Name     string          `json:"name"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

var (
	mu        sync.Mutex
	driver    Driver = newMemoryDriver(1024)
	factories        = map[string]func() Job{}
	failed    []FailedJob
	maxRetry  = 3
)

// Register associates a job name with a factory producing an empty instance
// to unmarshal into. Call from init() in the jobs package.
func Register(name string, factory func() Job) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// UseDriver swaps the storage backend. Call before StartWorkers.
func UseDriver(d Driver) {
	mu.Lock()
	defer mu.Unlock()
	driver = d
}

// SetMaxRetry changes how many attempts a job gets before it is parked in
// the failed list.
func SetMaxRetry(n int) {
	mu.Lock()
	defer mu.Unlock()
	maxRetry = n
}

// FailedJobs returns a copy of the failed-job list.
func FailedJobs() []FailedJob {
	mu.Lock()
	defer mu.Unlock()
	out := make([]FailedJob, len(failed))
	copy(out, failed)
	return out
}

// Dispatch serializes the job and pushes it onto the queue.
func Dispatch(j Job) error {
	payload, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("queue: marshal job %q: %w", j.Name(), err)
	}
	env, err := json.Marshal(envelope{Name: j.Name(), Payload: payload})
	if err != nil {
		return err
	}

	mu.Lock()
	d := driver
	mu.Unlock()
	return d.Push(env)
}

// StartWorkers launches n worker goroutines that pop and run jobs until ctx
// is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go worker(ctx)
	}
}

func worker(ctx context.Context) {
	for {
		mu.Lock()
		d := driver
		mu.Unlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(time.Second)
			continue
		}
		process(ctx, raw)
	}
}

func process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	mu.Lock()
	factory, ok := factories[env.Name]
	retries := maxRetry
	mu.Unlock()
	if !ok {
		logger.Error("queue: unknown job", "name", env.Name)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal job", "name", env.Name, "error", err)
		return
	}

	err := job.Handle(ctx)
	if err == nil {
		metrics.QueueJobsProcessed.WithLabelValues("success").Inc()
		return
	}

	env.Attempts++
	logger.Warn("queue: job failed", "name", env.Name, "attempt", env.Attempts, "error", err)

	if env.Attempts < retries {
		// Linear backoff before requeueing.
		time.Sleep(time.Duration(env.Attempts) * time.Second)
		if reenc, encErr := json.Marshal(env); encErr == nil {
			mu.Lock()
			d := driver
			mu.Unlock()
			_ = d.Push(reenc)
		}
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()
	mu.Lock()
	failed = append(failed, FailedJob{
		JobName:  env.Name,
		Payload:  env.Payload,
		Err:      err,
		FailedAt: time.Now(),
		Attempts: env.Attempts,
	})
	mu.Unlock()
}
