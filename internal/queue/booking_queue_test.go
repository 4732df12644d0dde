package queue_test

import (
	"context"
	"testing"
	"time"

	"event-booking/internal/model"
	"event-booking/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(email string) *model.Booking {
	return &model.Booking{ID: uuid.New(), EventID: uuid.New(), Email: email}
}

func receive(t *testing.T, ch <-chan queue.Delivery) queue.Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "channel closed")
		return d
	case <-time.After(time.Second):
		t.Fatal("timeout 未收到訊息")
	}
	return queue.Delivery{}
}

func TestBookingQueue_PublishAndSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewBookingQueue(10)
	booking := newBooking("a@example.com")
	require.NoError(t, q.PublishBooking(ctx, booking))

	msgs, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	d := receive(t, msgs)
	assert.Same(t, booking, d.Data)
	d.Ack()
}

func TestBookingQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewBookingQueue(10)
	booking := newBooking("retry@example.com")
	require.NoError(t, q.PublishBooking(ctx, booking))

	msgs, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	receive(t, msgs).Nack(true)
	again := receive(t, msgs)
	assert.Equal(t, booking.ID, again.Data.ID)

	again.Nack(false)
	select {
	case d := <-msgs:
		t.Fatalf("Nack(false) 後不應再投遞: %s", d.Data.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBookingQueue_PublishRespectsContext(t *testing.T) {
	q := queue.NewBookingQueue(1)
	require.NoError(t, q.PublishBooking(context.Background(), newBooking("a@example.com")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.PublishBooking(ctx, newBooking("b@example.com"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBookingQueue_Subscribe_ctxCancel_closesChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := queue.NewBookingQueue(1)

	msgs, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-msgs:
		assert.False(t, ok, "context 取消後 channel 應關閉")
	case <-time.After(time.Second):
		t.Fatal("channel 未在時限內關閉")
	}
}
