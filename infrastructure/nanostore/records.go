package nanostore

import (
	"bytes"
	"encoding/json"
)

// extractRecords normalizes the order service's list responses to a slice of
// raw records. Accepted shapes: an envelope with a "records" array, a bare
// array, or an object containing exactly one array-valued field. Anything
// else yields zero records rather than an error.
func extractRecords(body []byte) []json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil
		}
		return items
	}

	var envelope struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Records != nil {
		return envelope.Records
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	var found []json.RawMessage
	for _, raw := range fields {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		if found != nil {
			// Ambiguous shape, more than one array field.
			return nil
		}
		found = items
	}
	return found
}

// decodeRecords unmarshals normalized records into typed values, skipping
// records that do not parse.
func decodeRecords[T any](body []byte) []T {
	raws := extractRecords(body)
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
