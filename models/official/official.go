package official

import "time"

// Official is a village-level notice publisher. Unlike villages,
// rejected officials are kept as a terminal "rejected" row rather
// than deleted.
type Official struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"size:255;not null" json:"name"`
	Email           string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash    string `gorm:"size:255;not null" json:"-"`
	Phone           string `gorm:"size:20" json:"phone,omitempty"`
	Status          string `gorm:"size:50;not null;default:pending;index" json:"status"` // pending, approved, rejected
	VillageID       uint   `gorm:"not null;index" json:"village_id"`
	ProfileImageURL string `gorm:"size:512" json:"profile_image_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
