package dto

import (
	"time"

	commonDto "anoa.com/jornalufc/pkg/dto"
)

// CreateEventForm is the multipart body of an event; the optional picture
// travels as "image". Dates are RFC 3339.
type CreateEventForm struct {
	Title       string     `form:"title" binding:"required,max=255"`
	Description string     `form:"description" binding:"max=5000"`
	Location    string     `form:"location" binding:"max=255"`
	StartsAt    time.Time  `form:"starts_at" binding:"required"`
	EndsAt      *time.Time `form:"ends_at"`
}

type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	Image       *commonDto.UploadFile
}

type ListEventsQuery struct {
	// Upcoming hides events that have already ended.
	Upcoming bool `form:"upcoming"`
}
