package timetable

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

func sortByStart(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start < entries[j].Start
	})
}

func scope(days int) string {
	switch days {
	case 0:
		return "heute"
	case 1:
		return "morgen"
	default:
		return fmt.Sprintf("die nächsten %d Tage", days)
	}
}

// Empty is the message for a window without entries
func Empty(days int) string {
	return fmt.Sprintf("ℹ️ Kein Stundenplan für %s gefunden.", scope(days))
}

// Format renders entries grouped by local day. entries must be sorted by start.
func Format(entries []Entry, days int, loc *time.Location) string {
	if len(entries) == 0 {
		return Empty(days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Stundenplan für %s\n", scope(days))

	lastDay := ""
	for _, e := range entries {
		start, end := e.StartTime(loc), e.EndTime(loc)

		if day := start.Format("Monday, 02.01.2006"); day != lastDay {
			fmt.Fprintf(&b, "\n📌 %s:\n", day)
			lastDay = day
		}

		desc := e.Description
		if desc == "" {
			desc = e.Title
		}
		fmt.Fprintf(&b, "📚 %s\n🕒 %s–%s\n🏫 Ort: %s\n", desc, start.Format("15:04"), end.Format("15:04"), e.Room)
	}

	return strings.TrimRight(b.String(), "\n")
}
