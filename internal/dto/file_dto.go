package dto

import (
	"io"
	"time"
)

type UploadResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	TextContent string `json:"text_content"`
}

type FileInfo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// EncodeVectorMessage is the payload on the vector encode topic.
type EncodeVectorMessage struct {
	Filename string `json:"filename"`
}

// UploadRequest carries one multipart file into the file service.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type DeleteFileResponse struct {
	Message string `json:"message"`
}
