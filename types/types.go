package types

import (
	"net/mail"
	"strings"
	"time"
)

// ApiResponse is the standard response envelope.
type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope for failures without a data payload.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// LogEntry is an in-flight request audit record handed to the async
// logger.
type LogEntry struct {
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}

// AuthUser is the authenticated principal attached to the request
// context by the auth middleware.
type AuthUser struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	VillageID *uint  `json:"village_id,omitempty"`
}

// LoginRequest authenticates any principal type; Role selects the
// table the credentials are checked against.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin, superadmin, official, citizen
}

func (r LoginRequest) Validate() string {
	if strings.TrimSpace(r.Email) == "" {
		return "Email is required"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return "Email is not valid"
	}
	if r.Password == "" {
		return "Password is required"
	}
	switch r.Role {
	case "admin", "superadmin", "official", "citizen":
		return ""
	}
	return "Role must be one of admin, superadmin, official, citizen"
}

// CitizenRegisterRequest registers a reader account. Address fields
// are free text and not validated against the villages table.
type CitizenRegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"` // YYYY-MM-DD
	WardNumber  string `json:"ward_number"`
	HouseNumber string `json:"house_number"`
	Street      string `json:"street"`
	Village     string `json:"village"`
	Pincode     string `json:"pincode"`
}

func (r CitizenRegisterRequest) Validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "Name is required"
	}
	if strings.TrimSpace(r.Email) == "" {
		return "Email is required"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return "Email is not valid"
	}
	if len(r.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	if r.DOB != "" {
		if _, err := time.Parse("2006-01-02", r.DOB); err != nil {
			return "DOB must be in YYYY-MM-DD format"
		}
	}
	return ""
}

// CitizenUpdateRequest carries optional profile updates; nil fields
// are left untouched.
type CitizenUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	WardNumber  *string `json:"ward_number,omitempty"`
	HouseNumber *string `json:"house_number,omitempty"`
	Street      *string `json:"street,omitempty"`
	Village     *string `json:"village,omitempty"`
	Pincode     *string `json:"pincode,omitempty"`
}

// NoticeUpdateRequest carries optional notice updates; nil fields are
// left untouched.
type NoticeUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	IsPinned    *bool   `json:"is_pinned,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TrackViewRequest identifies the anonymous visitor for view
// deduplication.
type TrackViewRequest struct {
	VisitorID string `json:"visitorId"`
}
