package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ThresholdRecord aggregates all ratios observed for one
// (category, problem group/class, reference group/class) combination.
// Median is the nominal classification threshold used downstream; this
// pipeline only derives it.
type ThresholdRecord struct {
	Category       string
	ProblemGroup   string
	ProblemClass   string
	ReferenceGroup string
	ReferenceClass string
	Ratios         []float64
	Count          int
	Mean           float64
	Median         float64
	Std            float64
	Min            float64
	Max            float64
}

// Aggregate groups ratio records by their five-part combination key and
// computes summary statistics per group. Output order is deterministic
// (sorted by key) so identical input produces identical reports.
func Aggregate(ratios []RatioRecord) []ThresholdRecord {
	type key struct {
		category, pGroup, pClass, rGroup, rClass string
	}
	groups := map[key][]float64{}
	for _, r := range ratios {
		k := key{r.Category, r.ProblemGroup, r.ProblemClass, r.ReferenceGroup, r.ReferenceClass}
		groups[k] = append(groups[k], r.Ratio)
	}

	out := make([]ThresholdRecord, 0, len(groups))
	for k, vals := range groups {
		rec := ThresholdRecord{
			Category:       k.category,
			ProblemGroup:   k.pGroup,
			ProblemClass:   k.pClass,
			ReferenceGroup: k.rGroup,
			ReferenceClass: k.rClass,
			Ratios:         vals,
			Count:          len(vals),
			Mean:           stat.Mean(vals, nil),
			Median:         median(vals),
			Min:            vals[0],
			Max:            vals[0],
		}
		if len(vals) > 1 {
			rec.Std = stat.StdDev(vals, nil)
		}
		for _, v := range vals {
			if v < rec.Min {
				rec.Min = v
			}
			if v > rec.Max {
				rec.Max = v
			}
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.ProblemGroup != b.ProblemGroup {
			return a.ProblemGroup < b.ProblemGroup
		}
		if a.ProblemClass != b.ProblemClass {
			return a.ProblemClass < b.ProblemClass
		}
		if a.ReferenceGroup != b.ReferenceGroup {
			return a.ReferenceGroup < b.ReferenceGroup
		}
		return a.ReferenceClass < b.ReferenceClass
	})
	return out
}
