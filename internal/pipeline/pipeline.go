package pipeline

import (
	"context"

	"event-booking/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ExistenceChecker answers whether an Event with the given id exists right now.
type ExistenceChecker interface {
	Exists(ctx context.Context, eventID uuid.UUID) (bool, error)
}

// EventOptions 呼叫端可放寬的規則
type EventOptions struct {
	AllowEmptyAgenda bool
}

// RecordPipeline normalizes and validates records before they are written.
// A nil prev means the record is being created.
type RecordPipeline interface {
	NormalizeAndValidateEvent(input *model.Event, prev *model.Event, opts EventOptions) (*model.Event, error)
	NormalizeAndValidateBooking(ctx context.Context, input *model.Booking, prev *model.Booking) (*model.Booking, error)
}

type RecordPipelineImpl struct {
	events   ExistenceChecker
	validate *validator.Validate
}

func NewRecordPipeline(events ExistenceChecker) RecordPipeline {
	return &RecordPipelineImpl{
		events:   events,
		validate: newValidator(),
	}
}
