package handler

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestIsoDate_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "date only", input: `"2017-09-20"`, want: time.Date(2017, 9, 20, 0, 0, 0, 0, time.UTC)},
		{name: "utc timestamp", input: `"2017-09-20T12:30:00Z"`, want: time.Date(2017, 9, 20, 12, 30, 0, 0, time.UTC)},
		{name: "offset converted to utc", input: `"2017-09-20T02:00:00+03:00"`, want: time.Date(2017, 9, 19, 23, 0, 0, 0, time.UTC)},
		{name: "sub-millisecond digits dropped", input: `"2017-09-20T10:00:00.123456789Z"`, want: time.Date(2017, 9, 20, 10, 0, 0, 123_000_000, time.UTC)},
		{name: "not a date", input: `"yesterday"`, wantErr: true},
		{name: "not a string", input: `20170920`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d isoDate
			err := json.Unmarshal([]byte(tc.input), &d)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", d.Time)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Time.Equal(tc.want) || d.Time.Location() != time.UTC {
				t.Fatalf("expected %v, got %v", tc.want, d.Time)
			}
		})
	}
}

func TestValidator_ReportsWireNames(t *testing.T) {
	v := NewValidator()
	price := -1.0

	err := v.Validate(&bookRequest{Title: "t", Author: "a", Genre: "g", Price: &price})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"published_date is required", "price must be greater than or equal to 0"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidator_ListQuery(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&listBooksRequest{}); err != nil {
		t.Fatalf("empty query must be valid: %v", err)
	}
	if err := v.Validate(&listBooksRequest{SortBy: "isbn"}); err == nil || !strings.Contains(err.Error(), "sort_by must be one of") {
		t.Fatalf("expected sort_by error, got %v", err)
	}
	if err := v.Validate(&listBooksRequest{Size: 101}); err == nil || !strings.Contains(err.Error(), "size must be at most 100") {
		t.Fatalf("expected size error, got %v", err)
	}
}
