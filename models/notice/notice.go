package notice

import "time"

// Notice is a published announcement scoped to a village. Views only
// ever increase; the counter is backed by the notice_views uniqueness
// constraint so each visitor is counted at most once.
type Notice struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	FileURL     string `gorm:"size:512" json:"file_url,omitempty"`
	FileName    string `gorm:"size:255" json:"file_name,omitempty"`
	Category    string `gorm:"size:100;not null;index" json:"category"`
	Priority    string `gorm:"size:20;not null;default:medium" json:"priority"` // low, medium, high
	IsPinned    bool   `gorm:"not null;default:false;index" json:"is_pinned"`
	Status      string `gorm:"size:50;not null;default:published;index" json:"status"` // published, archived
	Views       int64  `gorm:"not null;default:0;index" json:"views"`

	CreatedByID uint   `gorm:"not null;index" json:"created_by_id"`
	CreatorRole string `gorm:"size:20;not null" json:"creator_role"` // admin, official
	VillageID   uint   `gorm:"not null;index" json:"village_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NoticeView is an append-only record of an anonymous visitor viewing
// a notice. The (notice_id, visitor_id) unique index is the mechanism
// that makes view tracking idempotent.
type NoticeView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	NoticeID  uint      `gorm:"not null;uniqueIndex:idx_notice_views_notice_visitor" json:"notice_id"`
	VisitorID string    `gorm:"size:64;not null;uniqueIndex:idx_notice_views_notice_visitor" json:"visitor_id"`
	ViewedAt  time.Time `gorm:"autoCreateTime" json:"viewed_at"`
	UserAgent string    `gorm:"size:512" json:"user_agent,omitempty"`
	IPAddress string    `gorm:"size:64" json:"ip_address,omitempty"`
}
