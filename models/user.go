package models

// UserRole defines the authorization level of an account.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is an account. Accounts start inactive and become active once the
// registration OTP has been verified.
type User struct {
	BaseModel
	FullName      string   `gorm:"type:varchar(120);not null" json:"fullName"`
	Email         string   `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash  string   `gorm:"type:varchar(255);not null" json:"-"`
	StudentNumber *string  `gorm:"type:varchar(30);uniqueIndex" json:"studentNumber,omitempty"`
	Role          UserRole `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`
	IsActive      bool     `gorm:"not null;default:false" json:"isActive"`

	Events []Event `gorm:"foreignKey:CreatedByID" json:"-"`
	RSVPs  []RSVP  `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
