// Package report joins REST node inventory with live WebSocket metrics
// and renders the fixed-format status texts shown in chat, together with
// the index mapping and navigation state used to page through nodes.
package report

import (
	"fmt"
	"strings"
)

const (
	bytesPerMiB = 1024.0 * 1024.0
	bytesPerGiB = 1024.0 * 1024.0 * 1024.0
	// 1 Mbps = 125000 bytes/s
	bytesPerSecPerMbps = 125000.0
)

func mib(b uint64) float64  { return float64(b) / bytesPerMiB }
func gib(b uint64) float64  { return float64(b) / bytesPerGiB }
func mbps(b uint64) float64 { return float64(b) / bytesPerSecPerMbps }

// percent computes used/total*100 on already-converted values, so the
// division happens in the same unit the display uses.
func percent(used, total float64) float64 { return used / total * 100.0 }

var durationUnits = []struct {
	seconds uint64
	name    string
}{
	{31536000, "year"},
	{2592000, "month"},
	{86400, "day"},
	{3600, "hour"},
	{60, "minute"},
	{1, "second"},
}

// FormatDuration renders an uptime in seconds as the largest applicable
// units, zero-valued units omitted, space-joined. Zero input yields the
// literal "0 seconds".
func FormatDuration(seconds uint64) string {
	if seconds == 0 {
		return "0 seconds"
	}

	var parts []string
	for _, u := range durationUnits {
		if v := seconds / u.seconds; v > 0 {
			name := u.name
			if v != 1 {
				name += "s"
			}
			parts = append(parts, fmt.Sprintf("%d %s", v, name))
		}
		seconds %= u.seconds
	}
	return strings.Join(parts, " ")
}

// markdownEscaper backslash-prefixes every character MarkdownV2 treats
// as syntax outside code spans. Backticks are deliberately not escaped:
// the templates rely on them for inline code formatting.
var markdownEscaper = strings.NewReplacer(
	".", `\.`,
	"-", `\-`,
	"|", `\|`,
	"(", `\(`,
	")", `\)`,
	"#", `\#`,
	"+", `\+`,
	"=", `\=`,
	"{", `\{`,
	"}", `\}`,
	"[", `\[`,
	"]", `\]`,
	"_", `\_`,
	">", `\>`,
	"<", `\<`,
	"&", `\&`,
	"!", `\!`,
)

// EscapeMarkdown applies the MarkdownV2 escaping pass. It is the last
// step before any formatted string leaves this package.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
