package nanostore

import (
	"encoding/json"
	"testing"
)

func TestExtractRecordsShapes(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		count int
	}{
		{name: "envelope", body: `{"records":[{"id":1},{"id":2}]}`, count: 2},
		{name: "bare array", body: `[{"id":1}]`, count: 1},
		{name: "single array field", body: `{"orders":[{"id":1},{"id":2},{"id":3}]}`, count: 3},
		{name: "two array fields is ambiguous", body: `{"a":[{"id":1}],"b":[{"id":2}]}`, count: 0},
		{name: "scalar fields only", body: `{"ok":true}`, count: 0},
		{name: "empty body", body: ``, count: 0},
		{name: "not json", body: `<html>`, count: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(extractRecords([]byte(tc.body))); got != tc.count {
				t.Fatalf("expected %d records, got %d", tc.count, got)
			}
		})
	}
}

func TestDecodeRecordsSkipsUnparsable(t *testing.T) {
	body := `{"records":[{"id":"a","tray_id":"B1"},"not-an-object",{"id":7}]}`
	orders := decodeRecords[Order]([]byte(body))
	if len(orders) != 2 {
		t.Fatalf("expected 2 decoded orders, got %d", len(orders))
	}
	if orders[0].ID != "a" || orders[1].ID != "7" {
		t.Fatalf("unexpected decode result: %+v", orders)
	}
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	for body, want := range map[string]string{
		`{"id":42}`:    "42",
		`{"id":"x-1"}`: "x-1",
		`{"id":null}`:  "",
		`{"id":3.5}`:   "3.5",
	} {
		var o Order
		if err := json.Unmarshal([]byte(body), &o); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if o.ID.String() != want {
			t.Fatalf("body %s: expected id %q, got %q", body, want, o.ID)
		}
	}
}
