package domain

import (
	"sort"
	"time"
)

var sourceRank = map[Source]int{
	SourceStandalone: 0,
	SourceVisit:      1,
	SourceAnalyzer:   2,
}

type mergeKey struct {
	patientID int64
	name      string
	day       string
}

// Merge collapses duplicate results across sources. Two tests collide when
// they share patient, name and calendar day; the standalone entry wins over
// a visit entry, which wins over an analyzer import. Output is ordered by
// taken_at descending, newest first.
func Merge(tests []LabTest) []LabTest {
	best := make(map[mergeKey]LabTest, len(tests))
	for _, test := range tests {
		key := mergeKey{
			patientID: int64(test.PatientID),
			name:      test.Name,
			day:       test.TakenAt.UTC().Format(time.DateOnly),
		}
		current, ok := best[key]
		if !ok || rankOf(test.Source) < rankOf(current.Source) {
			best[key] = test
		}
	}

	merged := make([]LabTest, 0, len(best))
	for _, test := range best {
		merged = append(merged, test)
	}
	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].TakenAt.Equal(merged[j].TakenAt) {
			return merged[i].TakenAt.After(merged[j].TakenAt)
		}
		return merged[i].ID > merged[j].ID
	})
	return merged
}

func rankOf(source Source) int {
	rank, ok := sourceRank[source]
	if !ok {
		return len(sourceRank)
	}
	return rank
}
