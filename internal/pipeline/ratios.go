package pipeline

import (
	"math"

	"github.com/shelfmetrics/skuratio-cli/internal/dataset"
)

// RatioRecord is one (problem, reference) pairing within a single image
// and category. Ratio is reference area over problem area.
type RatioRecord struct {
	ImageID        string
	Category       string
	ProblemGroup   string
	ProblemClass   string
	ProblemArea    float64
	ReferenceGroup string
	ReferenceClass string
	ReferenceArea  float64
	Ratio          float64
}

// PairRatios joins each image's problem detections against its reference
// detections on category and computes the area ratio, rounded to digits
// decimal places. Non-finite or non-positive ratios are dropped and
// counted; they only arise if a degenerate area survives filtering.
func PairRatios(dets []dataset.Detection, digits int) (out []RatioRecord, invalid int) {
	type key struct{ image, category string }
	problems := map[key][]dataset.Detection{}
	references := map[key][]dataset.Detection{}
	order := []key{}
	seen := map[key]struct{}{}
	for _, d := range dets {
		k := key{d.ImageID, d.Category}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			order = append(order, k)
		}
		if d.Role == dataset.RoleProblem {
			problems[k] = append(problems[k], d)
		} else {
			references[k] = append(references[k], d)
		}
	}

	for _, k := range order {
		for _, p := range problems[k] {
			for _, r := range references[k] {
				ratio := roundTo(r.Area/p.Area, digits)
				if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
					invalid++
					continue
				}
				out = append(out, RatioRecord{
					ImageID:        k.image,
					Category:       k.category,
					ProblemGroup:   p.Group,
					ProblemClass:   p.Class,
					ProblemArea:    p.Area,
					ReferenceGroup: r.Group,
					ReferenceClass: r.Class,
					ReferenceArea:  r.Area,
					Ratio:          ratio,
				})
			}
		}
	}
	return out, invalid
}

func roundTo(v float64, digits int) float64 {
	if digits <= 0 {
		return math.Round(v)
	}
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}
