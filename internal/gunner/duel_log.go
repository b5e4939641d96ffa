package gunner

import (
	"fmt"
	"strings"
)

// DuelLogEntry is one recorded event during a headless duel.
type DuelLogEntry struct {
	Turn     int
	Tank     string  // label e.g. "L", "R", or "--" for match-level events
	Side     string  // "left", "right", or "--"
	Category string  // aim, shot, match
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=012] L    aim       fallback         score=82.4
func (e DuelLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Turn, e.Tank, e.Category, e.Key, e.Value)
}

// DuelLog collects structured events during a headless duel. It is unbounded
// and machine-readable so tests and the duelsim reporter can query it.
type DuelLog struct {
	entries []DuelLogEntry
	verbose bool
}

// NewDuelLog creates a DuelLog. If verbose is true, per-turn aim-window and
// impact detail entries are also recorded.
func NewDuelLog(verbose bool) *DuelLog {
	return &DuelLog{verbose: verbose}
}

// Add records a new entry.
func (dl *DuelLog) Add(turn int, tank, side, category, key, value string, numVal float64) {
	dl.entries = append(dl.entries, DuelLogEntry{
		Turn:     turn,
		Tank:     tank,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (dl *DuelLog) AddVerbose(turn int, tank, side, category, key, value string, numVal float64) {
	if !dl.verbose {
		return
	}
	dl.Add(turn, tank, side, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (dl *DuelLog) Entries() []DuelLogEntry {
	return dl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (dl *DuelLog) Filter(category, key string) []DuelLogEntry {
	var out []DuelLogEntry
	for _, e := range dl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTank returns entries for a specific tank label.
func (dl *DuelLog) FilterTank(label string) []DuelLogEntry {
	var out []DuelLogEntry
	for _, e := range dl.entries {
		if e.Tank == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTurnRange returns entries within [fromTurn, toTurn] inclusive.
func (dl *DuelLog) FilterTurnRange(fromTurn, toTurn int) []DuelLogEntry {
	var out []DuelLogEntry
	for _, e := range dl.entries {
		if e.Turn >= fromTurn && e.Turn <= toTurn {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (dl *DuelLog) CountCategory(category, key string) int {
	return len(dl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (dl *DuelLog) LastOf(category, key string) (DuelLogEntry, bool) {
	entries := dl.Filter(category, key)
	if len(entries) == 0 {
		return DuelLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and
// value substring.
func (dl *DuelLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range dl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (dl *DuelLog) Format() string {
	var sb strings.Builder
	for _, e := range dl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a turn range.
func (dl *DuelLog) FormatRange(fromTurn, toTurn int) string {
	var sb strings.Builder
	for _, e := range dl.FilterTurnRange(fromTurn, toTurn) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the duel so far.
func (dl *DuelLog) Summary(turn int, tanks []*Tank) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", turn)

	for _, t := range tanks {
		shots := 0
		hits := 0
		exploits := 0
		for _, e := range dl.FilterTank(t.Label) {
			switch {
			case e.Category == "shot" && e.Key == "impact":
				shots++
			case e.Category == "shot" && e.Key == "hit":
				hits++
			case e.Category == "aim" && e.Key == "exploit":
				exploits++
			}
		}
		fmt.Fprintf(&sb, "%s (%s, %s): hp=%d shots=%d hits=%d exploits=%d\n",
			t.Label, t.Side(), t.Difficulty, t.HP, shots, hits, exploits)
	}

	if last, ok := dl.LastOf("shot", "impact"); ok {
		fmt.Fprintf(&sb, "Last impact: %s by %s\n", last.Value, last.Tank)
	}
	return sb.String()
}
