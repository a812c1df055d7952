package datalake

import (
	"encoding/base64"
	"encoding/json"
)

// PageKey is the (sort key, tie-break key) pair of the last record on a
// page. It travels as an opaque token: urlsafe base64 of a small JSON
// object. Callers must not introspect or construct tokens.
type PageKey struct {
	CreatedAt string `json:"createdat"`
	ID        string `json:"id"`
}

func EncodePageToken(key PageKey) string {
	payload, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(payload)
}

// DecodePageToken returns nil for malformed or partial tokens; a bad
// token degrades to first-page behavior and never surfaces an error.
func DecodePageToken(token string) *PageKey {
	if token == "" {
		return nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}
	var key PageKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil
	}
	if key.CreatedAt == "" || key.ID == "" {
		return nil
	}
	return &key
}
