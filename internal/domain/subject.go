package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subject is a study-subject label (e.g. "Matematik", "Sejarah") that a note
// may be filed under. Subjects are created lazily the first time any user
// types a new name, and are never deleted. Identity is determined by Slug,
// which is derived from the name by the same normalization used at lookup
// time, so "Math" and "math" resolve to one subject.
type Subject struct {
	ID              uuid.UUID
	Name            string
	Slug            string
	CreatedByUserID uuid.UUID
	CreatedAt       time.Time
}
