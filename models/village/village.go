package village

import "time"

// Village is the tenant unit of the platform. A village is created in
// "pending" status together with its requesting admin and becomes
// "approved" only through a superadmin action. The QR unique id is
// assigned at creation time; the rendered image is filled in lazily on
// the first generate/download request and memoized on the record.
type Village struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"size:255;not null;uniqueIndex:idx_villages_identity" json:"name"`
	District  string  `gorm:"size:255;not null;uniqueIndex:idx_villages_identity" json:"district"`
	State     string  `gorm:"size:255;not null;uniqueIndex:idx_villages_identity" json:"state"`
	Pincode   string  `gorm:"size:10;not null;uniqueIndex:idx_villages_identity" json:"pincode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Status      string `gorm:"size:50;not null;default:pending;index" json:"status"` // pending, approved
	DocumentURL string `gorm:"size:512" json:"document_url,omitempty"`

	QRUniqueID    string     `gorm:"size:64;uniqueIndex" json:"qr_unique_id"`
	QRImageURL    string     `gorm:"size:512" json:"qr_image_url,omitempty"`
	QRGeneratedAt *time.Time `json:"qr_generated_at,omitempty"`

	// Weak references into the admins table
	RequestedByID   *uint      `gorm:"index" json:"requested_by_id,omitempty"`
	AssignedAdminID *uint      `gorm:"index" json:"assigned_admin_id,omitempty"`
	ApprovedByID    *uint      `gorm:"index" json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PublicView is the shape returned by the anonymous QR resolution
// endpoint. Nothing beyond these fields may leak to unauthenticated
// callers.
type PublicView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Public projects a village onto its public view.
func (v *Village) Public() PublicView {
	return PublicView{
		ID:       v.ID,
		Name:     v.Name,
		District: v.District,
		State:    v.State,
		Pincode:  v.Pincode,
	}
}
