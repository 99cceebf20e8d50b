// Package extract turns uploaded documents (PDF, HTML, plain text) into the
// transcript text fed to transformations.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupported = errors.New("extract: unsupported file type; provide PDF, HTML or text")
	ErrTooLarge    = errors.New("extract: file too large")
	ErrEmpty       = errors.New("extract: no text found")
)

// Limits bound the work done on one document.
type Limits struct {
	MaxBytes int // default 20 MiB
	MaxPages int // default 200
}

func (l Limits) withDefaults() Limits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = 20 << 20
	}
	if l.MaxPages <= 0 {
		l.MaxPages = 200
	}
	return l
}

// Format is the detected document type.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatHTML  Format = "html"
	FormatPlain Format = "plain"
)

var plainExts = map[string]bool{
	"txt": true, "md": true, "markdown": true, "csv": true, "json": true,
	"log": true, "yaml": true, "yml": true, "srt": true, "vtt": true,
}

// Detect sniffs the format from magic bytes, extension and content type.
func Detect(data []byte, filename, contentType string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	ctype := strings.ToLower(contentType)
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")) || ext == "pdf" || strings.Contains(ctype, "pdf"):
		return FormatPDF, nil
	case ext == "html" || ext == "htm" || strings.Contains(ctype, "html"):
		return FormatHTML, nil
	}
	head := strings.ToLower(string(data[:min(len(data), 1024)]))
	if strings.Contains(head, "<html") || strings.Contains(head, "<body") {
		return FormatHTML, nil
	}
	if plainExts[ext] || strings.HasPrefix(ctype, "text/") || strings.Contains(ctype, "json") || strings.Contains(ctype, "yaml") {
		return FormatPlain, nil
	}
	return "", ErrUnsupported
}

// Text extracts the readable text of a document.
func Text(data []byte, filename, contentType string, lim Limits) (string, error) {
	lim = lim.withDefaults()
	if len(data) > lim.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes > limit %d", ErrTooLarge, len(data), lim.MaxBytes)
	}
	f, err := Detect(data, filename, contentType)
	if err != nil {
		return "", err
	}
	var text string
	switch f {
	case FormatPDF:
		text, err = pdfText(data, lim.MaxPages)
	case FormatHTML:
		text, err = htmlText(data)
	default:
		text = strings.TrimSpace(string(data))
	}
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
