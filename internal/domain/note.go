// Package domain contains the core data types for the NotaGeng application.
// Apart from uuid, this package has no external dependencies and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether non-owners may read a note.
type Visibility string

const (
	// VisibilityPrivate notes are readable only by their author.
	VisibilityPrivate Visibility = "private"
	// VisibilityShared notes are readable by everyone, including anonymous visitors.
	VisibilityShared Visibility = "shared"
)

// Valid reports whether v is one of the two persisted visibility states.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityShared
}

// Note is the top-level aggregate: a markdown document owned by a single
// author. Slug is globally unique and is the canonical lookup key for the
// public note URL. AuthorID is set at creation and never changes.
type Note struct {
	ID         uuid.UUID
	Title      string
	Content    string // markdown source
	Slug       string
	Visibility Visibility
	AuthorID   uuid.UUID
	SubjectID  *uuid.UUID // nil when the note has no subject
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// SubjectName is populated by repo queries that join subjects.
	// Empty when SubjectID is nil.
	SubjectName string
}

// Excerpt returns the first max runes of the note content, appending an
// ellipsis when the content was truncated. Used for note cards on the
// dashboard and list views.
func (n Note) Excerpt(max int) string {
	runes := []rune(n.Content)
	if len(runes) <= max {
		return n.Content
	}
	return string(runes[:max]) + "…"
}
