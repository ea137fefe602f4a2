package model

import "time"

// File is the metadata record for one uploaded file. Immutable after
// creation; the bytes live in storage under StorageRef.
type File struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StorageRef  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type FileInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (f File) Info() FileInfo {
	return FileInfo{
		ID:          f.ID,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		UploadedAt:  f.CreatedAt,
	}
}
