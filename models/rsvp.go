package models

// RSVPStatus is the attendance intent recorded on an RSVP.
type RSVPStatus string

const (
	RSVPStatusAttending  RSVPStatus = "attending"
	RSVPStatusWaitlisted RSVPStatus = "waitlisted"
	RSVPStatusCancelled  RSVPStatus = "cancelled"
)

// MaxGuestsPerRSVP bounds the guest count so capacity arithmetic stays small.
const MaxGuestsPerRSVP = 5

// RSVP records one user's attendance intent for one event. The (event, user)
// pair is unique: the record's status flips over time, it is never recreated.
// An attending RSVP contributes (1 + NumberOfGuests) to the event's occupancy.
type RSVP struct {
	BaseModel
	EventID            uint       `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"eventId"`
	UserID             uint       `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"userId"`
	Status             RSVPStatus `gorm:"type:varchar(20);not null;default:'attending';index" json:"status"`
	NumberOfGuests     int        `gorm:"not null;default:0" json:"numberOfGuests"`
	DietaryPreferences string     `gorm:"type:varchar(255)" json:"dietaryPreferences,omitempty"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Contribution is the number of capacity slots this RSVP occupies while
// attending.
func (r *RSVP) Contribution() int {
	return 1 + r.NumberOfGuests
}
