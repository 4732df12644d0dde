package service

import (
	"context"

	"event-booking/internal/model"
	"event-booking/internal/pipeline"
	"event-booking/internal/repository"
	apperrors "event-booking/pkg/app_errors"
	"event-booking/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	// Create 經過 pipeline 正規化後寫入；slug 重複時回傳 uniqueness error
	Create(ctx context.Context, event *model.Event, opts pipeline.EventOptions) (*model.Event, error)
	// Update 套用部分欄位；只有 title 改變時才重新產生 slug
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams, opts pipeline.EventOptions) (*model.Event, error)
}

type EventServiceImpl struct {
	repo     repository.EventRepository
	pipeline pipeline.RecordPipeline
}

func NewEventService(repo repository.EventRepository, pipeline pipeline.RecordPipeline) EventService {
	return &EventServiceImpl{repo: repo, pipeline: pipeline}
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event, opts pipeline.EventOptions) (*model.Event, error) {
	candidate, err := s.pipeline.NormalizeAndValidateEvent(event, nil, opts)
	if err != nil {
		logRejected("CreateEvent", err)
		return nil, err
	}
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	return s.repo.Create(ctx, candidate)
}

func (s *EventServiceImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams, opts pipeline.EventOptions) (*model.Event, error) {
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}

	prev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate, err := s.pipeline.NormalizeAndValidateEvent(params.Apply(prev), prev, opts)
	if err != nil {
		logRejected("UpdateEvent", err)
		return nil, err
	}
	candidate.ID = prev.ID
	return s.repo.Update(ctx, candidate)
}

func logRejected(operation string, err error) {
	log := logger.WithComponent("service").With(zap.String("operation", operation), zap.Error(err))
	if apperrors.IsRetryable(err) {
		log.Error("store unavailable")
		return
	}
	log.Info("record rejected", zap.String("field", apperrors.FieldOf(err)))
}
