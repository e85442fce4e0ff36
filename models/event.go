package models

import "time"

// EventStatus is the moderation/lifecycle state of an event.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusApproved  EventStatus = "approved"
	EventStatusRejected  EventStatus = "rejected"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// EventCategory is a closed enum; anything else is rejected at the boundary.
type EventCategory string

const (
	CategoryAcademic EventCategory = "academic"
	CategorySocial   EventCategory = "social"
	CategorySports   EventCategory = "sports"
	CategoryCultural EventCategory = "cultural"
	CategoryCareer   EventCategory = "career"
	CategoryOther    EventCategory = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c EventCategory) bool {
	switch c {
	case CategoryAcademic, CategorySocial, CategorySports, CategoryCultural, CategoryCareer, CategoryOther:
		return true
	}
	return false
}

// Event is a student-submitted event. CurrentAttendees is a cached aggregate:
// it must equal the sum of (1 + NumberOfGuests) over this event's attending
// RSVPs. Admission decisions recompute that sum from the rsvps table; the
// cache exists for cheap reads only.
type Event struct {
	BaseModel
	Title            string        `gorm:"type:varchar(200);not null" json:"title"`
	Description      string        `gorm:"type:text;not null" json:"description"`
	Date             time.Time     `gorm:"not null;index" json:"date"`
	Location         string        `gorm:"type:varchar(255);not null" json:"location"`
	Category         EventCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Capacity         int           `gorm:"not null" json:"capacity"`
	CurrentAttendees int           `gorm:"not null;default:0" json:"currentAttendees"`
	Status           EventStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason  string        `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedByID      uint          `gorm:"not null;index" json:"createdById"`

	CreatedBy *User  `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	RSVPs     []RSVP `gorm:"foreignKey:EventID" json:"-"`
}

// IsUpcoming reports whether the event date is strictly in the future.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}
