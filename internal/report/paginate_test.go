package report

import (
	"fmt"
	"testing"

	"komaribot/internal/komari"
)

func snapshotWith(ids ...string) komari.ClientsSnapshot {
	data := make(map[string]komari.NodeMetrics, len(ids))
	for _, id := range ids {
		data[id] = komari.NodeMetrics{}
	}
	return komari.ClientsSnapshot{Online: ids, Data: data}
}

func TestSortedMetrics_LexicographicByID(t *testing.T) {
	t.Parallel()

	entries := SortedMetrics(snapshotWith("b-node", "a-node", "c-node"))
	want := []string{"a-node", "b-node", "c-node"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, id)
		}
	}
}

func TestEntryByIndex(t *testing.T) {
	t.Parallel()

	entries := SortedMetrics(snapshotWith("b-node", "a-node", "c-node"))

	cases := []struct {
		index  int
		wantID string
		wantOK bool
	}{
		{0, "a-node", true},
		{1, "a-node", true},
		{2, "b-node", true},
		{3, "c-node", true},
		{4, "", false},
		{-1, "", false},
	}
	for _, tc := range cases {
		e, ok := EntryByIndex(entries, tc.index)
		if ok != tc.wantOK {
			t.Errorf("EntryByIndex(%d): ok = %v, want %v", tc.index, ok, tc.wantOK)
			continue
		}
		if ok && e.ID != tc.wantID {
			t.Errorf("EntryByIndex(%d) = %q, want %q", tc.index, e.ID, tc.wantID)
		}
	}
}

func TestEntryByIndex_Empty(t *testing.T) {
	t.Parallel()

	if _, ok := EntryByIndex(nil, 1); ok {
		t.Fatal("expected not found on empty list")
	}
}

func TestBuildNav(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		current   int
		max       int
		wantPrev  string // payload, "" for absent
		wantNext  string
		wantLabel string
	}{
		{"first of three", 1, 3, "", "42-2", "1 / 3"},
		{"zero aliases first", 0, 3, "", "42-2", "0 / 3"},
		{"middle", 2, 3, "42-1", "42-3", "2 / 3"},
		{"last", 3, 3, "42-2", "", "3 / 3"},
		{"single node", 1, 1, "", "", "1 / 1"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			nav := BuildNav(42, tc.current, tc.max)
			if tc.wantPrev == "" && nav.Prev != nil {
				t.Errorf("unexpected prev %q", nav.Prev.Data)
			}
			if tc.wantPrev != "" && (nav.Prev == nil || nav.Prev.Data != tc.wantPrev) {
				t.Errorf("prev = %+v, want %q", nav.Prev, tc.wantPrev)
			}
			if tc.wantNext == "" && nav.Next != nil {
				t.Errorf("unexpected next %q", nav.Next.Data)
			}
			if tc.wantNext != "" && (nav.Next == nil || nav.Next.Data != tc.wantNext) {
				t.Errorf("next = %+v, want %q", nav.Next, tc.wantNext)
			}
			if nav.Center != tc.wantLabel {
				t.Errorf("center = %q, want %q", nav.Center, tc.wantLabel)
			}
			wantRefresh := fmt.Sprintf("42-%d", tc.current)
			if nav.Refresh.Data != wantRefresh || nav.Refresh.Label != "Refresh" {
				t.Errorf("refresh = %+v", nav.Refresh)
			}
		})
	}
}

func TestParseNavData(t *testing.T) {
	t.Parallel()

	id, index, err := ParseNavData("12345-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12345 || index != 7 {
		t.Fatalf("got (%d, %d)", id, index)
	}

	for _, bad := range []string{"", "12345", "abc-7", "12345-x", "just some text"} {
		if _, _, err := ParseNavData(bad); err == nil {
			t.Fatalf("ParseNavData(%q): expected error", bad)
		}
	}
}
