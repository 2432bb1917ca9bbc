package utils

import (
	"testing"
	"time"
)

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-06-03", 0}, // Monday
		{"2024-06-05", 2}, // Wednesday
		{"2024-06-08", 5}, // Saturday
		{"2024-06-09", 6}, // Sunday
	}
	for _, tc := range tests {
		day, err := ParseDate(tc.date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.date, err)
		}
		if got := ISOWeekday(day); got != tc.want {
			t.Errorf("ISOWeekday(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "03-06-2024", "2024-13-01", "2024-06-32", "2024-06-05T10:00:00Z"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q): expected error", s)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	day := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	parsed, err := ParseDate(FormatDate(day))
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(day) {
		t.Fatalf("round trip mismatch: %v != %v", parsed, day)
	}
}

func TestFormatEpoch(t *testing.T) {
	millis := time.Date(2024, 6, 5, 9, 30, 0, 0, time.UTC).UnixMilli()
	if got := FormatEpoch(millis); got != "2024-06-05T09:30:00Z" {
		t.Fatalf("FormatEpoch = %q", got)
	}
}

func TestSanitizeTrimsStringsAndPointers(t *testing.T) {
	title := "  padded  "
	req := struct {
		Name  string
		Title *string
		Tags  []string
		Count int
	}{
		Name:  " alice ",
		Title: &title,
		Tags:  []string{" a ", "b"},
		Count: 3,
	}

	Sanitize(&req)

	if req.Name != "alice" {
		t.Errorf("Name = %q", req.Name)
	}
	if *req.Title != "padded" {
		t.Errorf("Title = %q", *req.Title)
	}
	if req.Tags[0] != "a" || req.Tags[1] != "b" {
		t.Errorf("Tags = %v", req.Tags)
	}
}
