package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate_AcceptsBothCalendarForms(t *testing.T) {
	got, ok := ParseDate("2025-03-09")
	if !ok {
		t.Fatalf("expected 2025-03-09 to parse")
	}
	if got.Format(DateLayout) != "2025-03-09" {
		t.Fatalf("expected 2025-03-09; got %v", got)
	}

	dotted, ok := ParseDate("09.03.2025")
	if !ok {
		t.Fatalf("expected dotted date to parse")
	}
	if !dotted.Equal(got) {
		t.Fatalf("expected dotted form to equal ISO form; got %v vs %v", dotted, got)
	}

	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected empty date to fail")
	}
	if _, ok := ParseDate("soon"); ok {
		t.Fatalf("expected garbage date to fail")
	}
}

func TestNormalizeDate_RewritesOnlyParseableInput(t *testing.T) {
	if got := NormalizeDate("09.03.2025"); got != "2025-03-09" {
		t.Fatalf("expected 2025-03-09; got %q", got)
	}
	if got := NormalizeDate("2025-03-09"); got != "2025-03-09" {
		t.Fatalf("expected passthrough; got %q", got)
	}
	if got := NormalizeDate("when I get to it"); got != "when I get to it" {
		t.Fatalf("expected unparseable input unchanged; got %q", got)
	}
}

func TestParseStamp_AcceptsAllSessionForms(t *testing.T) {
	want := time.Date(2025, 1, 2, 14, 30, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-01-02 14:30",
		"2025-01-02 14:30:00",
		"2025-01-02T14:30",
		"2025-01-02T14:30:00",
	} {
		got, ok := ParseStamp(in)
		if !ok {
			t.Fatalf("expected %q to parse", in)
		}
		if !got.Equal(want) {
			t.Fatalf("expected %v for %q; got %v", want, in, got)
		}
	}

	if got, ok := ParseStamp("2025-01-02"); !ok || got.Hour() != 0 {
		t.Fatalf("expected bare date to parse to midnight; got %v ok=%v", got, ok)
	}
	if _, ok := ParseStamp("yesterday-ish"); ok {
		t.Fatalf("expected garbage stamp to fail")
	}
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "90", want: 90},
		{in: "1:30", want: 90},
		{in: ":45", want: 45},
		{in: "1h30m", want: 90},
		{in: "1h 30m", want: 90},
		{in: "2h", want: 120},
		{in: "45m", want: 45},
		{in: "1.5h", want: 90},
		{in: "  25 m ", want: 25},
		{in: "", wantErr: ErrNoDuration},
		{in: "   ", wantErr: ErrNoDuration},
		{in: "abc", wantErr: ErrBadDuration},
		{in: "x:y", wantErr: ErrBadDuration},
		{in: "m", wantErr: ErrBadDuration},
		{in: "0", wantErr: ErrNonPositiveDuration},
		{in: "-5", wantErr: ErrNonPositiveDuration},
		{in: "h", wantErr: ErrNonPositiveDuration},
	}
	for _, tc := range cases {
		got, err := ParseMinutes(tc.in)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ParseMinutes(%q): expected %v; got %v", tc.in, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMinutes(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMinutes(%q): expected %d; got %d", tc.in, tc.want, got)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(0); got != "0m" {
		t.Fatalf("expected 0m; got %q", got)
	}
	if got := FormatMinutes(45); got != "45m" {
		t.Fatalf("expected 45m; got %q", got)
	}
	if got := FormatMinutes(120); got != "2h" {
		t.Fatalf("expected 2h; got %q", got)
	}
	if got := FormatMinutes(135); got != "2h 15m" {
		t.Fatalf("expected 2h 15m; got %q", got)
	}
}
