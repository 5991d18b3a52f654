package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	fetchErr  error
	fetches   int
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	r.fetches++
	if r.fetchErr != nil {
		r.mu.Unlock()
		return kafkago.Message{}, r.fetchErr
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) counts() (int, []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches, append([]int64(nil), r.committed...)
}

func newTestConsumer(r *fakeReader) *Consumer {
	return &Consumer{reader: r, topic: "billing.subscription.events", logger: zap.NewNop()}
}

func TestConsume_PausesAfterFetchError(t *testing.T) {
	r := &fakeReader{fetchErr: errors.New("broker unavailable")}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := newTestConsumer(r).Consume(ctx, func(context.Context, kafkago.Message) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	fetches, _ := r.counts()
	assert.Equal(t, 1, fetches)
}

func TestConsume_CommitsHandledMessages(t *testing.T) {
	r := &fakeReader{queue: []kafkago.Message{{Offset: 7}, {Offset: 8}}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []int64
	err := newTestConsumer(r).Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		seen = append(seen, msg.Offset)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{7, 8}, seen)

	_, committed := r.counts()
	assert.Equal(t, []int64{7, 8}, committed)
}

func TestConsume_RetriesFailedHandler(t *testing.T) {
	r := &fakeReader{queue: []kafkago.Message{{Offset: 3}}}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	attempts := 0
	err := newTestConsumer(r).Consume(ctx, func(context.Context, kafkago.Message) error {
		attempts++
		if attempts == 1 {
			return errors.New("db down")
		}
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}
