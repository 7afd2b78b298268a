package logger

import (
	"gramvartha/models/log"
	"gramvartha/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request audit logs off the request path.
// Entries are pushed onto a buffered channel and written to the logs
// table by a single goroutine started via ProcessLog.
type AsyncLogger struct {
	db      *gorm.DB
	entries chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		entries: make(chan types.LogEntry, 256),
	}
}

// Log enqueues an entry. If the buffer is full the entry is dropped
// rather than blocking the request.
func (a *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case a.entries <- entry:
	default:
		Warning("Request log buffer full, dropping entry")
	}
}

// ProcessLog drains the channel and writes rows. Run in a goroutine.
func (a *AsyncLogger) ProcessLog() {
	for entry := range a.entries {
		row := log.Log{
			Method:          entry.Method,
			URL:             entry.URL,
			RequestBody:     entry.RequestBody,
			ResponseBody:    entry.ResponseBody,
			RequestHeaders:  entry.RequestHeaders,
			ResponseHeaders: entry.ResponseHeaders,
			StatusCode:      entry.StatusCode,
			CreatedAt:       entry.CreatedAt,
		}
		if err := a.db.Create(&row).Error; err != nil {
			Error("Failed to persist request log", err)
		}
	}
}
