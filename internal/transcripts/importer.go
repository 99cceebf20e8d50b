// Package transcripts creates transcript records from pasted text or from
// uploaded documents, keeping the original document in blob storage.
package transcripts

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/example/transcript-studio/internal/apperr"
	"github.com/example/transcript-studio/internal/extract"
	"github.com/example/transcript-studio/internal/models"
	"github.com/example/transcript-studio/internal/storage"
)

type Store interface {
	NewID() string
	Create(ctx context.Context, tr *models.Transcript) error
}

type Importer struct {
	Store Store
	// Blobs keeps uploaded documents. Nil skips keeping them.
	Blobs  storage.Blobs
	Limits extract.Limits
}

// CreateText stores text as a new transcript owned by ownerID.
func (im *Importer) CreateText(ctx context.Context, ownerID, title, text string) (*models.Transcript, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.Validation, "text is required")
	}
	tr := &models.Transcript{OwnerID: ownerID, Title: titleOr(title, "Untitled"), Text: text}
	if err := im.Store.Create(ctx, tr); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "create transcription")
	}
	return tr, nil
}

// Import extracts the text of an uploaded document, keeps the document at
// transcripts/<id>/<filename> and stores the transcript.
func (im *Importer) Import(ctx context.Context, ownerID, title, filename, contentType string, data []byte) (*models.Transcript, error) {
	text, err := extract.Text(data, filename, contentType, im.Limits)
	switch {
	case errors.Is(err, extract.ErrUnsupported), errors.Is(err, extract.ErrTooLarge), errors.Is(err, extract.ErrEmpty):
		return nil, apperr.Wrap(apperr.Validation, err, strings.TrimPrefix(err.Error(), "extract: "))
	case err != nil:
		return nil, apperr.Wrap(apperr.Validation, err, "could not read document")
	}

	name := path.Base("/" + filename)
	if name == "/" || name == "." {
		name = "document"
	}
	tr := &models.Transcript{
		ID:          im.Store.NewID(),
		OwnerID:     ownerID,
		Title:       titleOr(title, strings.TrimSuffix(name, path.Ext(name))),
		Text:        text,
		ContentType: contentType,
	}
	if im.Blobs != nil {
		tr.Document = path.Join("transcripts", tr.ID, name)
		if err := im.Blobs.Put(ctx, tr.Document, data, contentType); err != nil {
			return nil, apperr.Wrap(apperr.Persistence, err, "store document")
		}
	}
	if err := im.Store.Create(ctx, tr); err != nil {
		if im.Blobs != nil {
			_ = im.Blobs.Delete(context.WithoutCancel(ctx), tr.Document)
		}
		return nil, apperr.Wrap(apperr.Persistence, err, "create transcription")
	}
	return tr, nil
}

func titleOr(title, fallback string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return fallback
}
