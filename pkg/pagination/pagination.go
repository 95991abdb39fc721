// Package pagination implements the keyset cursors used by catalog listings.
// A cursor pins the (created_at, id) position of the last row served, so
// pages stay stable while products are being added.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the caller asks for paging
	// without saying how much.
	DefaultLimit = 25
	// MaxLimit caps the rows a single page may request.
	MaxLimit = 100

	cursorSeparator = "|"
)

// Params carries the paging inputs parsed off the query string. The zero
// value means an unpaged listing.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is the decoded keyset position: the creation time and id of the
// last row on the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], substituting
// DefaultLimit for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer adds one row past the normalized limit so queries can tell
// whether another page exists without running a count.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor packs a keyset position into an opaque base64 token.
func EncodeCursor(cursor Cursor) string {
	raw := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor unpacks a token produced by EncodeCursor. A blank token means
// "start from the top" and returns nil without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	createdPart, idPart, found := strings.Cut(string(raw), cursorSeparator)
	if !found {
		return nil, fmt.Errorf("cursor is missing its separator")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdPart)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
