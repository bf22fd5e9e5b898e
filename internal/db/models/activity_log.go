// activity_log.go defines the append-only activity record written after each
// successful vault mutation. Entries are never updated or deleted.
package models

import "time"

// Actions recorded in the activity log.
const (
	ActionUpload        = "upload"
	ActionDelete        = "delete"
	ActionRename        = "rename"
	ActionShred         = "shred"
	ActionMetadataClean = "metadata_clean"
)

type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}
