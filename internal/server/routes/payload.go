package routes

import (
	"time"

	"github.com/devcache/devcache/internal/cache"
)

type entryPayload struct {
	Key        string `json:"key"`
	Type       string `json:"type"`
	TypeCode   int    `json:"type_code"`
	SavedAt    string `json:"saved_at"`
	ValidForMS int64  `json:"valid_for_ms"`
	Permanent  bool   `json:"permanent"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
}

func encodeEntry(entry cache.Entry, size int64) entryPayload {
	payload := entryPayload{
		Key:        entry.Key,
		Type:       entry.Type.String(),
		TypeCode:   int(entry.Type),
		SavedAt:    time.UnixMilli(entry.SavedAt).UTC().Format(time.RFC3339Nano),
		ValidForMS: entry.ValidFor,
		Permanent:  entry.IsPermanent(),
		SizeBytes:  size,
	}
	if !entry.IsPermanent() {
		payload.ExpiresAt = entry.ExpiresAt().UTC().Format(time.RFC3339Nano)
	}
	return payload
}

func encodeEntries(store *cache.Store, entries []cache.Entry) []entryPayload {
	result := make([]entryPayload, 0, len(entries))
	for _, entry := range entries {
		result = append(result, encodeEntry(entry, store.EntrySize(entry.Key)))
	}
	return result
}
