package models

import (
	"time"
)

type JobStatus string

const (
	StatusGenerating JobStatus = "generating"
	StatusComplete   JobStatus = "complete"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether s is a final job status.
func (s JobStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// TransformationJob is the persisted lifecycle of one transform request.
type TransformationJob struct {
	ID            string    `json:"id" msgpack:"id"`
	SourceID      string    `json:"sourceId" msgpack:"source_id"`
	OwnerID       string    `json:"-" msgpack:"owner_id"`
	TemplateLabel string    `json:"templateLabel" msgpack:"template_label"`
	GeneratedText string    `json:"generatedText" msgpack:"generated_text"`
	Status        JobStatus `json:"status" msgpack:"status"`
	FailureReason string    `json:"failureReason,omitempty" msgpack:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt" msgpack:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" msgpack:"updated_at"`
}

type TemplateKind string

const (
	KindBuiltIn TemplateKind = "built-in"
	KindCustom  TemplateKind = "custom"
)

// Template is an instruction set applied to a transcript. Built-in templates
// carry a Value (their symbol) and no ID or OwnerID.
type Template struct {
	ID                string       `json:"id,omitempty" msgpack:"id"`
	Value             string       `json:"value,omitempty" msgpack:"-"`
	Name              string       `json:"name" msgpack:"name"`
	PromptInstruction string       `json:"prompt" msgpack:"prompt"`
	OwnerID           string       `json:"userId,omitempty" msgpack:"owner_id"`
	Kind              TemplateKind `json:"kind" msgpack:"kind"`
	CreatedAt         time.Time    `json:"createdAt,omitzero" msgpack:"created_at"`
	UpdatedAt         time.Time    `json:"updatedAt,omitzero" msgpack:"updated_at"`
}

// Transcript is the source text a transformation runs against.
type Transcript struct {
	ID          string    `json:"id" msgpack:"id"`
	OwnerID     string    `json:"-" msgpack:"owner_id"`
	Title       string    `json:"title" msgpack:"title"`
	Text        string    `json:"fullTranscription" msgpack:"text"`
	Document    string    `json:"document,omitempty" msgpack:"document,omitempty"`
	ContentType string    `json:"contentType,omitempty" msgpack:"content_type,omitempty"`
	CreatedAt   time.Time `json:"createdAt" msgpack:"created_at"`
}
