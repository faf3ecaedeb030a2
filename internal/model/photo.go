package model

import (
	"time"

	"github.com/google/uuid"
)

// Photo is binary content attached to a place. location_id is the
// authoritative association; place_id is stamped from the location at
// insert time and indexed for cross-id reads.
type Photo struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	PlaceID    string    `json:"place_id"`
	UserID     uuid.UUID `json:"user_id"`
	FileID     string    `json:"file_id"`
	URL        string    `json:"url"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	IsPrimary  bool      `json:"is_primary"`
	Caption    *string   `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PhotoDescriptor describes a new photo row to insert; the blob itself
// is already in the blob store under FileID.
type PhotoDescriptor struct {
	FileID    string  `json:"file_id" validate:"required"`
	URL       string  `json:"url"`
	FileName  string  `json:"file_name"`
	FileSize  int64   `json:"file_size"`
	MimeType  string  `json:"mime_type"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	IsPrimary bool    `json:"is_primary"`
	Caption   *string `json:"caption,omitempty"`
}

// PhotoUpdate is one entry of a composite update's photos array. A set
// ID means "patch this existing photo" (caption/primary only); no ID
// means "insert this as new".
type PhotoUpdate struct {
	ID        *int64  `json:"id,omitempty"`
	FileID    string  `json:"file_id,omitempty"`
	URL       string  `json:"url,omitempty"`
	FileName  string  `json:"file_name,omitempty"`
	FileSize  int64   `json:"file_size,omitempty"`
	MimeType  string  `json:"mime_type,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	IsPrimary *bool   `json:"is_primary,omitempty"`
	Caption   *string `json:"caption,omitempty"`
}

func (u PhotoUpdate) Descriptor() PhotoDescriptor {
	d := PhotoDescriptor{
		FileID:   u.FileID,
		URL:      u.URL,
		FileName: u.FileName,
		FileSize: u.FileSize,
		MimeType: u.MimeType,
		Width:    u.Width,
		Height:   u.Height,
		Caption:  u.Caption,
	}
	if u.IsPrimary != nil {
		d.IsPrimary = *u.IsPrimary
	}
	return d
}
