package pipeline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
)

// FilterIntraGroup drops detections whose area deviates from their
// (image, class) median by more than pct percent of that median.
// Annotators labelling the same object repeatedly should agree with the
// group median; a box that doesn't is a bad draw.
func FilterIntraGroup(dets []dataset.Detection, pct float64) (kept []dataset.Detection, removed int) {
	type key struct{ image, class string }
	areas := map[key][]float64{}
	for _, d := range dets {
		k := key{d.ImageID, d.Class}
		areas[k] = append(areas[k], d.Area)
	}
	medians := make(map[key]float64, len(areas))
	for k, v := range areas {
		medians[k] = median(v)
	}
	kept = make([]dataset.Detection, 0, len(dets))
	for _, d := range dets {
		m := medians[key{d.ImageID, d.Class}]
		if math.Abs(d.Area-m) <= m*pct/100 {
			kept = append(kept, d)
		} else {
			removed++
		}
	}
	return kept, removed
}

// FilterImageZ drops detections whose area z-score against their own
// image's mean/std exceeds thr. Corrects for single photos taken at odd
// zoom or tilt. Images with zero spread pass untouched.
func FilterImageZ(dets []dataset.Detection, thr float64) (kept []dataset.Detection, removed int) {
	return filterZ(dets, thr, 0, func(d dataset.Detection) string { return d.ImageID })
}

// FilterGlobalZ drops detections whose area z-score against their class
// mean/std across the whole dataset exceeds thr. Classes with fewer than
// minCount detections are kept as-is; zero std means z = 0 (keep).
func FilterGlobalZ(dets []dataset.Detection, thr float64, minCount int) (kept []dataset.Detection, removed int) {
	return filterZ(dets, thr, minCount, func(d dataset.Detection) string { return d.Class })
}

func filterZ(dets []dataset.Detection, thr float64, minCount int, groupKey func(dataset.Detection) string) (kept []dataset.Detection, removed int) {
	areas := map[string][]float64{}
	for _, d := range dets {
		k := groupKey(d)
		areas[k] = append(areas[k], d.Area)
	}
	type ms struct{ mean, std float64 }
	stats := make(map[string]ms, len(areas))
	for k, v := range areas {
		stats[k] = ms{mean: stat.Mean(v, nil), std: stat.StdDev(v, nil)}
	}
	kept = make([]dataset.Detection, 0, len(dets))
	for _, d := range dets {
		k := groupKey(d)
		if minCount > 0 && len(areas[k]) < minCount {
			kept = append(kept, d)
			continue
		}
		s := stats[k]
		z := 0.0
		if s.std > 0 {
			z = (d.Area - s.mean) / s.std
		}
		if math.Abs(z) <= thr {
			kept = append(kept, d)
		} else {
			removed++
		}
	}
	return kept, removed
}

// FilterValidImages keeps only images that contain at least one problem
// and one reference detection. Images missing a side cannot produce a
// ratio, so the whole image goes.
func FilterValidImages(dets []dataset.Detection) (kept []dataset.Detection, dropped, keptImages int) {
	type rc struct{ problems, references int }
	counts := map[string]*rc{}
	for _, d := range dets {
		c := counts[d.ImageID]
		if c == nil {
			c = &rc{}
			counts[d.ImageID] = c
		}
		if d.Role == dataset.RoleProblem {
			c.problems++
		} else {
			c.references++
		}
	}
	kept = make([]dataset.Detection, 0, len(dets))
	for _, d := range dets {
		c := counts[d.ImageID]
		if c.problems > 0 && c.references > 0 {
			kept = append(kept, d)
		}
	}
	for _, c := range counts {
		if c.problems > 0 && c.references > 0 {
			keptImages++
		} else {
			dropped++
		}
	}
	return kept, dropped, keptImages
}

// median returns the midpoint-interpolated median.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}
