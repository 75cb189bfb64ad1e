// MongoHandler is an slog.Handler that ships log records to a MongoDB
// collection without touching the request hot path:
//
//   - records are enqueued on a buffered channel (non-blocking; full queue
//     drops the record — logging must never block the app)
//   - one background goroutine drains the channel and writes batches via
//     InsertMany
//   - Close() flushes whatever is pending
//
// Enable in production by wrapping the default handler:
//
//	mh := logger.NewMongoHandler(db.Collection("logs"), logger.L.Handler())
//	logger.L = slog.New(mh)
package logger

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	logQueueSize = 4096
	logBatchSize = 50
	logDrainTick = 2 * time.Second
)

type logDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler mirrors every record to MongoDB and forwards it to next.
type MongoHandler struct {
	next  slog.Handler
	queue chan logDocument
	done  chan struct{}
	coll  *mongo.Collection
}

// NewMongoHandler starts the background writer and returns the handler.
func NewMongoHandler(coll *mongo.Collection, next slog.Handler) *MongoHandler {
	h := &MongoHandler{
		next:  next,
		queue: make(chan logDocument, logQueueSize),
		done:  make(chan struct{}),
		coll:  coll,
	}
	go h.drain()
	return h
}

func (h *MongoHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *MongoHandler) Handle(ctx context.Context, rec slog.Record) error {
	doc := logDocument{
		Time:  rec.Time,
		Level: rec.Level.String(),
		Msg:   rec.Message,
		Attrs: bson.M{},
	}
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == "request_id" {
			doc.RequestID = a.Value.String()
			return true
		}
		doc.Attrs[a.Key] = a.Value.Any()
		return true
	})

	select {
	case h.queue <- doc:
	default: // queue full, drop
	}

	return h.next.Handle(ctx, rec)
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MongoHandler{next: h.next.WithAttrs(attrs), queue: h.queue, done: h.done, coll: h.coll}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	return &MongoHandler{next: h.next.WithGroup(name), queue: h.queue, done: h.done, coll: h.coll}
}

// Close flushes pending records and stops the background writer.
func (h *MongoHandler) Close() {
	close(h.done)
}

func (h *MongoHandler) drain() {
	ticker := time.NewTicker(logDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, logBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.coll.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
			if len(batch) >= logBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			for {
				select {
				case doc := <-h.queue:
					batch = append(batch, doc)
				default:
					flush()
					return
				}
			}
		}
	}
}
