package pipeline

import (
	"strings"

	"event-booking/internal/model"
	apperrors "event-booking/pkg/app_errors"
)

// NormalizeAndValidateEvent runs, in order and fail-fast: trimming, the
// required-field checks, slug derivation, date and time normalization.
// input is not modified.
func (p *RecordPipelineImpl) NormalizeAndValidateEvent(input *model.Event, prev *model.Event, opts EventOptions) (*model.Event, error) {
	candidate := trimEvent(input)

	if err := p.ValidateEvent(candidate, opts); err != nil {
		return nil, err
	}

	if err := deriveEvent(candidate, prev); err != nil {
		return nil, err
	}
	return candidate, nil
}

// ValidateEvent reports the first blank required field of an already
// trimmed candidate.
func (p *RecordPipelineImpl) ValidateEvent(candidate *model.Event, opts EventOptions) error {
	if err := p.validate.Struct(candidate); err != nil {
		return firstViolation(err)
	}
	if len(candidate.Agenda) == 0 && !opts.AllowEmptyAgenda {
		return apperrors.Required("agenda")
	}
	return nil
}

func trimEvent(in *model.Event) *model.Event {
	e := in.Clone()
	for _, f := range []*string{
		&e.Title, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&e.Date, &e.Time, &e.Mode, &e.Audience, &e.Organizer,
	} {
		*f = strings.TrimSpace(*f)
	}
	if e.Agenda == nil {
		e.Agenda = []string{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}

// deriveEvent fills slug, date and time. The slug only follows the title
// when the title is new or has changed.
func deriveEvent(e *model.Event, prev *model.Event) error {
	if prev == nil || prev.Title != e.Title {
		e.Slug = Slugify(e.Title)
	} else {
		e.Slug = prev.Slug
	}
	if e.Slug == "" {
		return apperrors.Required("slug")
	}

	date, err := NormalizeDate(e.Date)
	if err != nil {
		return err
	}
	e.Date = date

	t, err := NormalizeTime(e.Time)
	if err != nil {
		return err
	}
	e.Time = t
	return nil
}
