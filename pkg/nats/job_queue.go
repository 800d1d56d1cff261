package nats

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	JobStreamName  = "SUMMARIZE_JOBS"
	JobSubject     = "jobs.summarize"
	JobDurableName = "summarize-workers"
)

// JobQueue is a JetStream work queue shared by every worker process.
// Each message is delivered to a single worker and acknowledged on receipt.
type JobQueue struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return nc, js, nil
}

func NewJobQueue(ctx context.Context, url string) (*JobQueue, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      JobStreamName,
		Subjects:  []string{JobSubject},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", JobStreamName, err)
	}

	return &JobQueue{nc: nc, js: js}, nil
}

func (q *JobQueue) Publish(ctx context.Context, payload []byte) error {
	if _, err := q.js.Publish(ctx, JobSubject, payload); err != nil {
		return fmt.Errorf("failed to publish job to subject %s: %w", JobSubject, err)
	}
	return nil
}

// Subscribe attaches to the shared durable consumer. MaxDeliver is 1, so a
// job that a worker received is never redelivered.
func (q *JobQueue) Subscribe(ctx context.Context) (<-chan []byte, error) {
	consumer, err := q.js.CreateOrUpdateConsumer(ctx, JobStreamName, jetstream.ConsumerConfig{
		Durable:       JobDurableName,
		FilterSubject: JobSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	out := make(chan []byte)
	var (
		mu     sync.Mutex
		closed bool
	)

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		if err := msg.Ack(); err != nil {
			log.Printf("Warn: failed to ack job message: %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- msg.Data():
		case <-ctx.Done():
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		<-ctx.Done()
		consumeCtx.Stop()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	log.Printf("Subscribed to %s with durable %s", JobSubject, JobDurableName)
	return out, nil
}

func (q *JobQueue) Close() error {
	if q.nc != nil {
		q.nc.Close()
	}
	return nil
}
