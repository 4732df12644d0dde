package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-booking/internal/model"
	"event-booking/internal/pipeline"
	"event-booking/internal/queue"
	repoMocks "event-booking/internal/repository/mocks"
	"event-booking/internal/service"
	apperrors "event-booking/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	events   *repoMocks.EventRepositoryMock
	bookings *repoMocks.BookingRepositoryMock
	queue    queue.BookingQueue
	svc      service.BookingService
}

func setupBookingService() *bookingFixture {
	f := &bookingFixture{
		events:   repoMocks.NewEventRepositoryMock(),
		bookings: repoMocks.NewBookingRepositoryMock(),
		queue:    queue.NewBookingQueue(10),
	}
	f.svc = service.NewBookingService(f.bookings, pipeline.NewRecordPipeline(f.events), f.queue)
	return f
}

func echoBooking(_ context.Context, b *model.Booking) *model.Booking {
	return b
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		f := setupBookingService()
		f.events.On("Exists", ctx, eventID).Return(true, nil).Once()
		f.bookings.On("Create", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.ID != uuid.Nil && b.Email == "gopher@example.com" && b.EventID == eventID
		})).Return(echoBooking, nil).Once()

		got, err := f.svc.Create(ctx, model.CreateBookingRequest{EventID: eventID, Email: " gopher@example.com "})

		require.NoError(t, err)
		assert.Equal(t, "gopher@example.com", got.Email)
		f.events.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
	})

	t.Run("Failed - event does not exist", func(t *testing.T) {
		f := setupBookingService()
		f.events.On("Exists", ctx, eventID).Return(false, nil).Once()

		got, err := f.svc.Create(ctx, model.CreateBookingRequest{EventID: eventID, Email: "gopher@example.com"})

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrReferential)
		assert.Equal(t, apperrors.MsgReferencedMissing, err.Error())
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failed - malformed email skips existence check", func(t *testing.T) {
		f := setupBookingService()

		_, err := f.svc.Create(ctx, model.CreateBookingRequest{EventID: eventID, Email: "not-an-email"})

		assert.ErrorIs(t, err, apperrors.ErrFormat)
		f.events.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("Failed - existence check unavailable", func(t *testing.T) {
		f := setupBookingService()
		storeErr := apperrors.Infrastructure("event exists", errors.New("timeout"))
		f.events.On("Exists", ctx, eventID).Return(false, storeErr).Once()

		_, err := f.svc.Create(ctx, model.CreateBookingRequest{EventID: eventID, Email: "gopher@example.com"})

		assert.ErrorIs(t, err, storeErr)
		assert.True(t, apperrors.IsRetryable(err))
	})
}

func TestBookingService_Submit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	eventID := uuid.New()

	f := setupBookingService()
	f.events.On("Exists", ctx, eventID).Return(true, nil).Once()

	submitted, err := f.svc.Submit(ctx, model.CreateBookingRequest{EventID: eventID, Email: "gopher@example.com"})
	require.NoError(t, err)

	msgs, err := f.queue.SubscribeBookings(ctx)
	require.NoError(t, err)

	select {
	case d := <-msgs:
		assert.Equal(t, submitted.ID, d.Data.ID)
		assert.Equal(t, "gopher@example.com", d.Data.Email)
	case <-ctx.Done():
		t.Fatal("booking was not published")
	}
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_Dispatch(t *testing.T) {
	ctx := context.Background()
	booking := &model.Booking{ID: uuid.New(), EventID: uuid.New(), Email: "gopher@example.com"}

	t.Run("Success", func(t *testing.T) {
		f := setupBookingService()
		f.bookings.On("Create", ctx, booking).Return(booking, nil).Once()

		assert.NoError(t, f.svc.Dispatch(ctx, booking))
	})

	t.Run("Success - redelivered booking already stored", func(t *testing.T) {
		f := setupBookingService()
		f.bookings.On("Create", ctx, booking).Return(nil, apperrors.ErrBookingExists).Once()

		assert.NoError(t, f.svc.Dispatch(ctx, booking))
	})

	t.Run("Failed - store unavailable", func(t *testing.T) {
		f := setupBookingService()
		storeErr := apperrors.Infrastructure("create booking", errors.New("connection reset"))
		f.bookings.On("Create", ctx, booking).Return(nil, storeErr).Once()

		assert.True(t, apperrors.IsRetryable(f.svc.Dispatch(ctx, booking)))
	})
}

func TestBookingService_ChangeEvent(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	oldEvent := uuid.New()
	newEvent := uuid.New()
	stored := &model.Booking{ID: id, EventID: oldEvent, Email: "gopher@example.com"}

	t.Run("Success", func(t *testing.T) {
		f := setupBookingService()
		f.bookings.On("FindByID", ctx, id).Return(stored, nil).Once()
		f.events.On("Exists", ctx, newEvent).Return(true, nil).Once()
		f.bookings.On("Update", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.ID == id && b.EventID == newEvent
		})).Return(echoBooking, nil).Once()

		got, err := f.svc.ChangeEvent(ctx, id, newEvent)

		require.NoError(t, err)
		assert.Equal(t, newEvent, got.EventID)
		assert.Equal(t, oldEvent, stored.EventID)
	})

	t.Run("Success - same event skips existence check", func(t *testing.T) {
		f := setupBookingService()
		f.bookings.On("FindByID", ctx, id).Return(stored, nil).Once()
		f.bookings.On("Update", ctx, mock.Anything).Return(echoBooking, nil).Once()

		_, err := f.svc.ChangeEvent(ctx, id, oldEvent)

		require.NoError(t, err)
		f.events.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("Failed - new event missing", func(t *testing.T) {
		f := setupBookingService()
		f.bookings.On("FindByID", ctx, id).Return(stored, nil).Once()
		f.events.On("Exists", ctx, newEvent).Return(false, nil).Once()

		_, err := f.svc.ChangeEvent(ctx, id, newEvent)

		assert.ErrorIs(t, err, apperrors.ErrReferential)
		f.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Failed - booking not found", func(t *testing.T) {
		f := setupBookingService()
		f.bookings.On("FindByID", ctx, id).Return(nil, apperrors.ErrBookingNotFound).Once()

		_, err := f.svc.ChangeEvent(ctx, id, newEvent)

		assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	})
}

func TestBookingService_ListByEventID(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	f := setupBookingService()
	bookings := []*model.Booking{{ID: uuid.New(), EventID: eventID, Email: "a@example.com"}}
	f.bookings.On("ListByEventID", ctx, eventID).Return(bookings, nil).Once()

	got, err := f.svc.ListByEventID(ctx, eventID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
