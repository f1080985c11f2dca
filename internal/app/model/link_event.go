package model

import "time"

// LinkCreatedEvent is published once a link is persisted.
type LinkCreatedEvent struct {
	ID        string    `json:"id"`
	LinkID    uint64    `json:"link_id"`
	ShortCode string    `json:"short_code"`
	OwnerID   string    `json:"owner_id"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	LinkStreamName     = "LINKS"
	LinkStreamSubject  = "links.created"
	LinkStreamMaxBytes = 1024 * 1024 * 64 // 64MB
	LinkStreamMaxAge   = 7 * 24 * time.Hour
)
