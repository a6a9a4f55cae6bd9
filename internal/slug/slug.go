// Package slug derives URL-safe identifiers from note titles and subject
// names, and resolves collisions against already-persisted slugs.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/notageng/backend/internal/domain"
)

// maxProbes bounds the collision loop in Unique. Without a cap a pathological
// store (or a title colliding with a thousand existing notes) would block the
// request forever.
const maxProbes = 1000

// Runs of whitespace, non-word characters, and hyphens collapse to a single
// hyphen. Word characters are [0-9A-Za-z_], so underscores survive.
var separatorRe = regexp.MustCompile(`[\s\W-]+`)

// Make converts free text to a canonical slug: lowercase, trimmed, separator
// runs collapsed to single hyphens, leading/trailing hyphens stripped.
// Deterministic and idempotent: Make(Make(x)) == Make(x).
//
// Examples:
//
//	"Hello, World!"     → "hello-world"
//	"  My First Note  " → "my-first-note"
//	"Sejarah: Bab 3"    → "sejarah-bab-3"
//	"!!!"               → ""
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = separatorRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
// Implementations query the persisted notes (or subjects) table.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base if it is unused, otherwise the first unused candidate
// of base-2, base-3, … probed sequentially via exists. An empty base falls
// back to a millisecond timestamp before uniquing, so untitled notes still
// get a usable slug.
//
// Returns domain.ErrSlugExhausted if no free slug is found within maxProbes
// probes.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	candidate := base
	for n := 1; n <= maxProbes; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug.Unique: probe %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n+1)
	}

	return "", fmt.Errorf("slug.Unique: base %q: %w", base, domain.ErrSlugExhausted)
}
