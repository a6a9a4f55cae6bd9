package domain

import "github.com/google/uuid"

// Identity is the viewer identity for one request, resolved exactly once by
// the auth middleware and threaded explicitly through services and repos.
// The zero value is the anonymous identity.
type Identity struct {
	UserID uuid.UUID
}

// Anonymous returns the identity of an unauthenticated visitor.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated reports whether the identity belongs to a signed-in user.
func (v Identity) Authenticated() bool {
	return v.UserID != uuid.Nil
}

// CanRead reports whether this viewer may read the given note.
// Shared notes are readable by anyone; private notes only by their author.
func (v Identity) CanRead(n Note) bool {
	if n.Visibility == VisibilityShared {
		return true
	}
	return v.Authenticated() && v.UserID == n.AuthorID
}

// CanWrite reports whether this viewer may edit or delete the given note.
// Only the author may write, regardless of visibility. There is no
// collaborative editing and no admin override.
func (v Identity) CanWrite(n Note) bool {
	return v.Authenticated() && v.UserID == n.AuthorID
}
