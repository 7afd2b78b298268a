package admin

import "time"

// Admin represents a platform operator. The single superadmin is
// seeded at startup with no village; village admins are created
// pending alongside their village registration and approved together
// with it.
type Admin struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:50;not null;default:admin" json:"role"`            // admin, superadmin
	Status       string `gorm:"size:50;not null;default:pending;index" json:"status"` // pending, approved
	VillageID    *uint  `gorm:"index" json:"village_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
