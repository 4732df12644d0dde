package service

import (
	"context"
	"errors"

	"event-booking/internal/model"
	"event-booking/internal/pipeline"
	"event-booking/internal/queue"
	"event-booking/internal/repository"
	apperrors "event-booking/pkg/app_errors"
	"event-booking/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// 同步建立預約(驗證 + 寫入)
	Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	// 驗證後送進 Queue，由 worker 寫入
	Submit(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	// 寫入已驗證的預約(Queue持久化)
	Dispatch(ctx context.Context, booking *model.Booking) error
	ChangeEvent(ctx context.Context, id uuid.UUID, eventID uuid.UUID) (*model.Booking, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error)
}

type BookingServiceImpl struct {
	repo         repository.BookingRepository
	pipeline     pipeline.RecordPipeline
	bookingQueue queue.BookingQueue
}

// NewBookingService builds the booking write path. bookingQueue may be nil
// when only synchronous creation is used.
func NewBookingService(repo repository.BookingRepository, pipeline pipeline.RecordPipeline, bookingQueue queue.BookingQueue) BookingService {
	return &BookingServiceImpl{
		repo:         repo,
		pipeline:     pipeline,
		bookingQueue: bookingQueue,
	}
}

func (s *BookingServiceImpl) validateNew(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	candidate, err := s.pipeline.NormalizeAndValidateBooking(ctx, &model.Booking{
		EventID: req.EventID,
		Email:   req.Email,
	}, nil)
	if err != nil {
		logRejected("CreateBooking", err)
		return nil, err
	}
	candidate.ID = uuid.New()
	return candidate, nil
}

func (s *BookingServiceImpl) Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	candidate, err := s.validateNew(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, candidate)
}

func (s *BookingServiceImpl) Submit(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	if s.bookingQueue == nil {
		return nil, errors.New("booking queue is not configured")
	}
	candidate, err := s.validateNew(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.bookingQueue.PublishBooking(ctx, candidate); err != nil {
		logger.WithComponent("service").Error("failed to publish booking",
			zap.String("booking_id", candidate.ID.String()), zap.Error(err))
		return nil, apperrors.Infrastructure("publish booking", err)
	}
	return candidate, nil
}

func (s *BookingServiceImpl) Dispatch(ctx context.Context, booking *model.Booking) error {
	_, err := s.repo.Create(ctx, booking)
	if errors.Is(err, apperrors.ErrBookingExists) {
		// 重送的訊息：已經寫入過
		return nil
	}
	return err
}

func (s *BookingServiceImpl) ChangeEvent(ctx context.Context, id uuid.UUID, eventID uuid.UUID) (*model.Booking, error) {
	prev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input := *prev
	input.EventID = eventID
	candidate, err := s.pipeline.NormalizeAndValidateBooking(ctx, &input, prev)
	if err != nil {
		logRejected("ChangeEvent", err)
		return nil, err
	}
	return s.repo.Update(ctx, candidate)
}

func (s *BookingServiceImpl) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error) {
	return s.repo.ListByEventID(ctx, eventID)
}
