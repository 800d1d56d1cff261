package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const DefaultTopic = "summarize_jobs"

// ChannelQueue is an in-process queue on top of watermill's gochannel.
// gochannel fans every message out to each subscriber and drops messages
// published while nobody is subscribed, so exactly one Subscribe call must
// be made before the first Publish.
type ChannelQueue struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewChannelQueue(topic string, logger watermill.LoggerAdapter) *ChannelQueue {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger,
	)
	return &ChannelQueue{pubSub: pubSub, topic: topic}
}

func (q *ChannelQueue) Publish(_ context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return q.pubSub.Publish(q.topic, msg)
}

func (q *ChannelQueue) Subscribe(ctx context.Context) (<-chan []byte, error) {
	messages, err := q.pubSub.Subscribe(ctx, q.topic)
	if err != nil {
		return nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range messages {
			// gochannel waits for the ack before delivering the next message
			msg.Ack()
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (q *ChannelQueue) Close() error {
	return q.pubSub.Close()
}
