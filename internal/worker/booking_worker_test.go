package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-booking/internal/model"
	"event-booking/internal/queue"
	serviceMocks "event-booking/internal/service/mocks"
	"event-booking/internal/worker"
	apperrors "event-booking/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeQueue 記錄每筆訊息的 Ack/Nack 結果
type fakeQueue struct {
	ch      chan queue.Delivery
	results chan string
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{
		ch:      make(chan queue.Delivery, 10),
		results: make(chan string, 10),
	}
}

func (q *fakeQueue) PublishBooking(ctx context.Context, booking *model.Booking) error {
	q.ch <- queue.Delivery{
		Data: booking,
		Ack:  func() { q.results <- "ack" },
		Nack: func(requeue bool) {
			if requeue {
				q.results <- "requeue"
				return
			}
			q.results <- "discard"
		},
	}
	return nil
}

func (q *fakeQueue) SubscribeBookings(ctx context.Context) (<-chan queue.Delivery, error) {
	out := make(chan queue.Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d := <-q.ch:
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func TestBookingWorker(t *testing.T) {
	tests := []struct {
		name       string
		dispatched error
		want       string
	}{
		{name: "Success - ack", dispatched: nil, want: "ack"},
		{name: "Failed - store unavailable requeues", dispatched: apperrors.Infrastructure("create booking", errors.New("connection refused")), want: "requeue"},
		{name: "Failed - rejected booking is discarded", dispatched: apperrors.EventNotFound(), want: "discard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			q := newFakeQueue()
			svc := serviceMocks.NewBookingServiceMock()
			booking := &model.Booking{ID: uuid.New(), EventID: uuid.New(), Email: "gopher@example.com"}
			svc.On("Dispatch", mock.Anything, booking).Return(tt.dispatched).Once()

			w := worker.NewBookingWorker(svc, q)
			require.NoError(t, w.Start(ctx))
			require.NoError(t, q.PublishBooking(ctx, booking))

			select {
			case got := <-q.results:
				assert.Equal(t, tt.want, got)
			case <-ctx.Done():
				t.Fatal("超時！Worker 沒有在時間內處理預約")
			}

			cancel()
			w.Wait()
			svc.AssertExpectations(t)
		})
	}
}

func TestBookingWorker_WithMemoryQueue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewBookingQueue(10)
	called := make(chan *model.Booking, 1)
	svc := serviceMocks.NewBookingServiceMock()
	svc.On("Dispatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		called <- args.Get(1).(*model.Booking)
	}).Return(nil).Once()

	w := worker.NewBookingWorker(svc, q)
	require.NoError(t, w.Start(ctx))

	booking := &model.Booking{ID: uuid.New(), EventID: uuid.New(), Email: "gopher@example.com"}
	require.NoError(t, q.PublishBooking(ctx, booking))

	select {
	case got := <-called:
		assert.Equal(t, booking.ID, got.ID)
	case <-ctx.Done():
		t.Fatal("超時！Worker 沒有在時間內處理預約")
	}
}
