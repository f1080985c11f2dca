package model

import "time"

// Link is a short code owned by one principal and pointing at one target URL.
// Every field is immutable once the row exists.
type Link struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   string    `json:"owner_id" gorm:"column:user_id;size:191;not null;index:idx_links_owner_created,priority:1"`
	TargetURL string    `json:"url" gorm:"column:url;type:text;not null"`
	ShortCode string    `json:"short_code" gorm:"size:32;not null;uniqueIndex:short_code_idx"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_links_owner_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName keeps the table name the dashboard has always used.
func (Link) TableName() string {
	return "shortened_links"
}
