package models

import "time"

// ReadMarker is the per-contact last-read watermark, keyed by the normalized
// phone. It is the only durable state the conversation view owns; everything
// else is rebuilt from MessageLog on each read.
type ReadMarker struct {
	PhoneKey  string    `gorm:"primaryKey;type:varchar(20)" json:"phoneKey"`
	LastRead  time.Time `json:"lastRead"`
	UpdatedAt time.Time `json:"updatedAt"`
}
