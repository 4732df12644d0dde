package pipeline

import (
	"context"
	"strings"

	"event-booking/internal/model"
	apperrors "event-booking/pkg/app_errors"
	"event-booking/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NormalizeAndValidateBooking checks the email shape first, so a malformed
// booking never reaches the store. The referenced Event is only looked up
// when the booking is new or its eventId changed; checker failures are
// returned unmasked.
func (p *RecordPipelineImpl) NormalizeAndValidateBooking(ctx context.Context, input *model.Booking, prev *model.Booking) (*model.Booking, error) {
	candidate := *input
	candidate.Email = strings.TrimSpace(candidate.Email)

	if err := p.validate.Struct(&candidate); err != nil {
		return nil, firstViolation(err)
	}

	if candidate.EventID == uuid.Nil {
		return nil, apperrors.Required("eventId")
	}

	if prev == nil || prev.EventID != candidate.EventID {
		exists, err := p.events.Exists(ctx, candidate.EventID)
		if err != nil {
			logger.WithComponent("pipeline").Warn("event existence check failed",
				zap.String("event_id", candidate.EventID.String()), zap.Error(err))
			return nil, err
		}
		if !exists {
			return nil, apperrors.EventNotFound()
		}
	}

	return &candidate, nil
}
