package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"komaribot/internal/komari"
)

// Entry is one node's live metrics keyed by its uuid.
type Entry struct {
	ID      string
	Metrics komari.NodeMetrics
}

// SortedMetrics flattens a snapshot into a slice sorted lexicographically
// ascending by node uuid. This is the only place a display order is
// imposed; the index lookup, the id listing and the pagination bounds all
// consume this order so row numbers agree between views.
func SortedMetrics(snap komari.ClientsSnapshot) []Entry {
	entries := make([]Entry, 0, len(snap.Data))
	for id, m := range snap.Data {
		entries = append(entries, Entry{ID: id, Metrics: m})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// EntryByIndex maps a 1-based user-facing index onto the sorted entries.
// Indices 0 and 1 both select the first entry; anything past the end
// reports not found rather than an error.
func EntryByIndex(entries []Entry, index int) (Entry, bool) {
	if index < 0 || index > len(entries) || len(entries) == 0 {
		return Entry{}, false
	}

	i := index - 1
	if index == 0 || index == 1 {
		i = 0
	}
	return entries[i], true
}

// NavButton is one inline navigation control; Data is the callback
// payload "{userId}-{index}".
type NavButton struct {
	Label string
	Data  string
}

// Nav is the navigation state for a single-node view: optional
// previous/next jumps, a non-button center label, and an always-present
// refresh control that re-requests the same index.
type Nav struct {
	Prev    *NavButton
	Center  string
	Next    *NavButton
	Refresh NavButton
}

// BuildNav computes the navigation for the current index against the
// cached maximum. Indices 0 and 1 alias the first node, so their
// neighbours are derived from the fixed pivot (0, 2) instead of
// (current-1, current+1).
func BuildNav(telegramID int64, current, max int) Nav {
	prevTarget, nextTarget := current-1, current+1
	if current == 0 || current == 1 {
		prevTarget, nextTarget = 0, 2
	}

	nav := Nav{
		Center:  fmt.Sprintf("%d / %d", current, max),
		Refresh: NavButton{Label: "Refresh", Data: navData(telegramID, current)},
	}
	if prevTarget > 0 {
		nav.Prev = &NavButton{Label: "<-", Data: navData(telegramID, prevTarget)}
	}
	if nextTarget <= max {
		nav.Next = &NavButton{Label: "->", Data: navData(telegramID, nextTarget)}
	}
	return nav
}

func navData(telegramID int64, index int) string {
	return fmt.Sprintf("%d-%d", telegramID, index)
}

// ParseNavData decodes a callback payload back into its user id and
// node index. Any other payload shape is a protocol error.
func ParseNavData(data string) (telegramID int64, index int, err error) {
	parts := strings.SplitN(data, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid callback data %q", data)
	}
	telegramID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid callback data %q", data)
	}
	index, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid callback data %q", data)
	}
	return telegramID, index, nil
}
