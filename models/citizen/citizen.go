package citizen

import "time"

// Citizen is a registered reader. The address village is a free-text
// field; it is not validated against the villages table.
type Citizen struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Phone        string     `gorm:"size:20" json:"phone,omitempty"`
	Avatar       string     `gorm:"size:512" json:"avatar,omitempty"`
	DOB          *time.Time `json:"dob,omitempty"`
	Gender       string     `gorm:"size:20" json:"gender,omitempty"`

	// Address
	WardNumber  string `gorm:"size:20" json:"ward_number,omitempty"`
	HouseNumber string `gorm:"size:50" json:"house_number,omitempty"`
	Street      string `gorm:"size:255" json:"street,omitempty"`
	VillageName string `gorm:"size:255" json:"village,omitempty"`
	Pincode     string `gorm:"size:10" json:"pincode,omitempty"`

	LastLogin *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
