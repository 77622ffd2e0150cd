package entity

import "time"

// Document is the extracted plain text of one uploaded file.
type Document struct {
	Identifier string // uploaded file base name, e.g. "report.pdf"
	Text       string
	Location   string // path of the .txt companion
}

// UploadedFile is a raw upload that has finished extraction and encoding.
type UploadedFile struct {
	Filename   string
	Size       int64
	UploadedAt time.Time
}
