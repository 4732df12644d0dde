package model

import (
	"time"

	"github.com/google/uuid"
)

// Event 活動；必填字串欄位的順序即為驗證回報的順序
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description" validate:"required"`
	Overview    string    `json:"overview" db:"overview" validate:"required"`
	Image       string    `json:"image" db:"image" validate:"required"`
	Venue       string    `json:"venue" db:"venue" validate:"required"`
	Location    string    `json:"location" db:"location" validate:"required"`
	Date        string    `json:"date" db:"date" validate:"required"`
	Time        string    `json:"time" db:"time" validate:"required"`
	Mode        string    `json:"mode" db:"mode" validate:"required"`
	Audience    string    `json:"audience" db:"audience" validate:"required"`
	Agenda      []string  `json:"agenda" db:"agenda"`
	Organizer   string    `json:"organizer" db:"organizer" validate:"required"`
	Tags        []string  `json:"tags" db:"tags"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy so a patch can be applied without touching the stored record.
func (e *Event) Clone() *Event {
	c := *e
	c.Agenda = append([]string(nil), e.Agenda...)
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	Overview    *string
	Image       *string
	Venue       *string
	Location    *string
	Date        *string
	Time        *string
	Mode        *string
	Audience    *string
	Agenda      *[]string
	Organizer   *string
	Tags        *[]string
}

// IsEmpty 檢查是否沒有任何欄位需要更新
func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Overview == nil &&
		p.Image == nil && p.Venue == nil && p.Location == nil &&
		p.Date == nil && p.Time == nil && p.Mode == nil &&
		p.Audience == nil && p.Agenda == nil && p.Organizer == nil && p.Tags == nil
}

// Apply returns a copy of e with the non-nil fields of p set.
func (p UpdateEventParams) Apply(e *Event) *Event {
	out := e.Clone()
	setString(&out.Title, p.Title)
	setString(&out.Description, p.Description)
	setString(&out.Overview, p.Overview)
	setString(&out.Image, p.Image)
	setString(&out.Venue, p.Venue)
	setString(&out.Location, p.Location)
	setString(&out.Date, p.Date)
	setString(&out.Time, p.Time)
	setString(&out.Mode, p.Mode)
	setString(&out.Audience, p.Audience)
	setString(&out.Organizer, p.Organizer)
	if p.Agenda != nil {
		out.Agenda = append([]string(nil), (*p.Agenda)...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
