package constants

// Principal roles
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleOfficial   = "official"
	RoleCitizen    = "citizen"
)

// Lifecycle statuses shared by villages, admins and officials.
// Villages never reach "rejected"; rejection deletes the record.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Notice statuses
const (
	NoticePublished = "published"
	NoticeArchived  = "archived"
)

// Notice priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// IsValidPriority reports whether p is one of the closed priority set.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// IsValidNoticeStatus reports whether s is a known notice status.
func IsValidNoticeStatus(s string) bool {
	switch s {
	case NoticePublished, NoticeArchived:
		return true
	}
	return false
}
