package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a user-defined label attached to notes. Tags are global — shared
// across all users, with no per-user namespace. Unlike subjects, tag identity
// is the exact Name: "Math" and "math" are distinct tags. This asymmetry
// matches the observed product behavior and is deliberate (see DESIGN.md).
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
