package report

import (
	"strings"
	"testing"
)

func TestFormatDuration_Zero(t *testing.T) {
	t.Parallel()

	if got := FormatDuration(0); got != "0 seconds" {
		t.Fatalf("FormatDuration(0) = %q", got)
	}
}

func TestFormatDuration_Cases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		seconds uint64
		want    string
	}{
		{1, "1 second"},
		{59, "59 seconds"},
		{60, "1 minute"},
		{61, "1 minute 1 second"},
		{3600, "1 hour"},
		{86400, "1 day"},
		{90061, "1 day 1 hour 1 minute 1 second"},
		{2592000, "1 month"},
		{31536000, "1 year"},
		{31536000 + 2592000 + 5, "1 year 1 month 5 seconds"},
		{3 * 86400, "3 days"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

// Emitted unit values must all be >=1: a zero-valued unit is omitted,
// never printed.
func TestFormatDuration_NoZeroUnits(t *testing.T) {
	t.Parallel()

	for _, seconds := range []uint64{1, 60, 3601, 86461, 2592001, 31536061} {
		out := FormatDuration(seconds)
		for _, part := range strings.Fields(out) {
			if part == "0" {
				t.Fatalf("FormatDuration(%d) = %q contains a zero unit", seconds, out)
			}
		}
	}
}

func TestEscapeMarkdown_ReservedSet(t *testing.T) {
	t.Parallel()

	in := ".-|()#+={}[]_><&!"
	out := EscapeMarkdown(in)

	for _, r := range in {
		want := `\` + string(r)
		if got := strings.Count(out, want); got != 1 {
			t.Errorf("escaped %q appears %d times, want 1", string(r), got)
		}
	}
	if len(out) != 2*len(in) {
		t.Fatalf("output %q is not fully escaped", out)
	}
}

func TestEscapeMarkdown_LeavesOthersAlone(t *testing.T) {
	t.Parallel()

	in := "plain text `code` 100% ok"
	if got := EscapeMarkdown(in); got != in {
		t.Fatalf("EscapeMarkdown(%q) = %q, altered unreserved characters", in, got)
	}
}
