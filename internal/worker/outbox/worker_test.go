package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	memorykv "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/kvstore/memory"
	outboxrepo "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/repositories/outbox/kv"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/outbox"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	err  error
	sent []string
}

func (b *fakeBroker) Send(_ context.Context, msg event.Message) error {
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, msg.ID)

	return nil
}

func park(t *testing.T, repo *outboxrepo.OutboxRepository, id string) {
	t.Helper()

	msg := outbox.FromMessage(event.Message{ID: id, Key: "ORD-1-abcdefg"}, 5, "down", time.Now().Add(-time.Second))
	require.NoError(t, repo.Insert(context.Background(), msg))
}

func TestWorker_DeliversAndDeletes(t *testing.T) {
	ctx := context.Background()
	repo := outboxrepo.NewOutboxRepository(memorykv.NewStore())
	broker := &fakeBroker{}
	m := metrics.NewRegistry("test")
	w := NewWorker(repo, broker, time.Second, 10, time.Second, m)

	park(t, repo, "m1")
	park(t, repo, "m2")

	w.ProcessMessages(ctx)

	assert.ElementsMatch(t, []string{"m1", "m2"}, broker.sent)
	pending, err := repo.GetPendingMessages(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.OutboxDelivered))
}

func TestWorker_FailureSchedulesBackoff(t *testing.T) {
	ctx := context.Background()
	store := memorykv.NewStore()
	repo := outboxrepo.NewOutboxRepository(store)
	broker := &fakeBroker{err: errors.New("still down")}
	m := metrics.NewRegistry("test")
	w := NewWorker(repo, broker, time.Second, 10, time.Minute, m)

	park(t, repo, "m1")

	w.ProcessMessages(ctx)

	pending, err := repo.GetPendingMessages(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "message must wait for its backoff")
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxFailed))

	broker.err = nil
	w.ProcessMessages(ctx)
	assert.Empty(t, broker.sent)
}

func TestWorker_Backoff(t *testing.T) {
	w := NewWorker(nil, nil, 0, 0, 30*time.Second, nil)

	assert.Equal(t, 60*time.Second, w.backoff(1))
	assert.Equal(t, 120*time.Second, w.backoff(2))
	assert.Equal(t, 240*time.Second, w.backoff(3))
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	repo := outboxrepo.NewOutboxRepository(memorykv.NewStore())
	w := NewWorker(repo, &fakeBroker{}, 10*time.Millisecond, 10, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
