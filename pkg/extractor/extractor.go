// Package extractor pulls plain text out of uploaded documents.
package extractor

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

type Extractor interface {
	Extract(path string) (string, error)
}

type ExtractorFunc func(path string) (string, error)

func (f ExtractorFunc) Extract(path string) (string, error) {
	return f(path)
}

// Registry maps a lower-case extension without the dot to an Extractor.
type Registry map[string]Extractor

func NewRegistry() Registry {
	return Registry{
		"txt":  ExtractorFunc(extractPlain),
		"csv":  ExtractorFunc(extractCSV),
		"pdf":  ExtractorFunc(extractPDF),
		"docx": ExtractorFunc(extractDOCX),
		"pptx": ExtractorFunc(extractPPTX),
		"xlsx": ExtractorFunc(extractXLSX),
	}
}

func (r Registry) Extract(path, ext string) (string, error) {
	e, ok := r[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	text, err := e.Extract(path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return strings.ToValidUTF8(text, "�"), nil
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractCSV renders each record on its own line with cells joined by ", ".
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var sb strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		sb.WriteString(strings.Join(record, ", "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
