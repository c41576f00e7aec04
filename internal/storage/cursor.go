package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor marks where a listing resumes. The two backends produce different
// native shapes: the privileged backend resumes from the last key it returned
// (start-after semantics), the gateway hands back an opaque token string.
// Both are carried here as a tagged value and serialized to one opaque string
// at the public boundary, bound to the (prefix, pageSize) configuration that
// produced it.
type Cursor struct {
	Kind     Mode   `json:"kind"`
	Value    string `json:"value"`
	Prefix   string `json:"prefix"`
	PageSize int    `json:"page_size"`
}

// EncodeCursor serializes a cursor to the opaque page token handed to
// callers. A nil cursor (exhausted listing) encodes to "".
func EncodeCursor(c *Cursor) string {
	if c == nil {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		// Cursor fields are plain strings and ints; this cannot fail.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque page token and validates it against the
// backend mode and listing configuration it will be used with. An empty token
// means "start from the beginning" and decodes to nil. A token minted by the
// other backend tier, or under a different prefix or page size, yields
// ErrCursorInvalid: resuming it would skip or duplicate objects, so the
// caller must restart the scan instead.
func DecodeCursor(token string, mode Mode, prefix string, pageSize int) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCursorInvalid, err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCursorInvalid, err)
	}
	if c.Kind != mode {
		return nil, fmt.Errorf("%w: token was issued by the %s backend, current backend is %s", ErrCursorInvalid, c.Kind, mode)
	}
	if c.Prefix != prefix || c.PageSize != pageSize {
		return nil, fmt.Errorf("%w: token was issued for a different listing configuration", ErrCursorInvalid)
	}
	return &c, nil
}
