package dto

import "time"

type UploadResponse struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}
