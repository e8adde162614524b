package store

import "time"

type User struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ObjectiveEdit is the durable record of a local sparse edit, keyed by
// objective code so a later push to the hosted edits table can upsert
// by the same key. Patch holds the sparse overlay as JSON.
type ObjectiveEdit struct {
	ObjectiveCode string
	Patch         []byte
	EditedBy      string
	UpdatedAt     time.Time
}

type EvidenceFileRecord struct {
	ID            string
	ObjectiveCode string
	Name          string
	MimeType      string
	SizeBytes     int64
	ObjectKey     string
	UploadedBy    string
	CreatedAt     time.Time
}

type VideoRecord struct {
	ID            string
	ObjectiveCode string
	Title         string
	URL           string
	Description   string
	AddedBy       string
	CreatedAt     time.Time
}

type TrainingMaterialRecord struct {
	ID            string
	ObjectiveCode string
	Type          string
	Title         string
	URL           string
	AddedBy       string
	CreatedAt     time.Time
}

type SOPDocumentRecord struct {
	ID            string
	ObjectiveCode string
	Title         string
	Version       string
	EffectiveDate string
	Content       string
	AuthoredBy    string
	CreatedAt     time.Time
}

// MergeAudit records the outcome of one reconciliation cycle.
type MergeAudit struct {
	ID             int64
	Generation     int64
	Source         string
	Chapters       int
	Elements       int
	DiscardedEdits int
	MergedAt       time.Time
}
