package models

// File records a client upload stored in blob storage. The object key,
// not a public URL, is persisted; reads go through presigned URLs.
type File struct {
	Base
	ClientID    uint   `gorm:"not null;index" json:"client_id"`
	FileName    string `gorm:"not null" json:"file_name"`
	ObjectKey   string `gorm:"uniqueIndex;not null" json:"object_key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
