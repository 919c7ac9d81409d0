package report

import (
	"sort"
	"strings"
)

// labelTally counts label occurrences while remembering first-seen order so
// that equally frequent labels rank in discovery order.
type labelTally struct {
	counts map[string]int
	order  []string
}

func newLabelTally() *labelTally {
	return &labelTally{counts: make(map[string]int)}
}

// Add counts a label. The housekeeping "support" label is excluded.
func (lt *labelTally) Add(label string) {
	if strings.EqualFold(label, "support") {
		return
	}
	if _, ok := lt.counts[label]; !ok {
		lt.order = append(lt.order, label)
	}
	lt.counts[label]++
}

// Top returns the n most frequent labels, count descending.
func (lt *labelTally) Top(n int) []LabelCount {
	ranked := make([]LabelCount, 0, len(lt.order))
	for _, label := range lt.order {
		ranked = append(ranked, LabelCount{Label: label, Count: lt.counts[label]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
