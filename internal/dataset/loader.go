package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// RequiredColumns are the input columns the loader refuses to run without.
var RequiredColumns = []string{
	"test_image_id",
	"category_name",
	"group_name",
	"class_name",
	"Area",
	"Prob/Ref",
}

// Load reads and validates a detection export. Header matching is trimmed
// and case-insensitive. A missing column is a *SchemaError; row-level
// problems (bad role, bad area) are counted and the row skipped or kept
// per the RawRow contract.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Path: path, Missing: RequiredColumns}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, len(RequiredColumns))
	var missing []string
	for i, name := range RequiredColumns {
		j, ok := idx[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[i] = j
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	tbl := &Table{Source: path}
	cats := map[string]struct{}{}
	images := map[string]struct{}{}
	field := func(rec []string, i int) string {
		j := cols[i]
		if j >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[j])
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", tbl.Counters.RowsRead+1, err)
		}
		tbl.Counters.RowsRead++

		role, ok := ParseRole(field(rec, 5))
		if !ok {
			tbl.Counters.InvalidRole++
			continue
		}

		row := RawRow{
			ImageID:  field(rec, 0),
			Category: field(rec, 1),
			Group:    field(rec, 2),
			Class:    field(rec, 3),
			AreaText: field(rec, 4),
			Role:     role,
		}
		if a, err := strconv.ParseFloat(row.AreaText, 64); err == nil && !math.IsNaN(a) && !math.IsInf(a, 0) && a > 0 {
			row.Area = a
			row.AreaOK = true
		}
		tbl.RawRows = append(tbl.RawRows, row)

		if !row.AreaOK {
			tbl.Counters.InvalidArea++
			continue
		}
		cats[row.Category] = struct{}{}
		images[row.ImageID] = struct{}{}
		if role == RoleProblem {
			tbl.Counters.ProblemRows++
		} else {
			tbl.Counters.ReferenceRows++
		}
		tbl.Detections = append(tbl.Detections, Detection{
			ImageID:  row.ImageID,
			Category: row.Category,
			Group:    row.Group,
			Class:    row.Class,
			Area:     row.Area,
			Role:     role,
		})
	}

	tbl.Counters.Categories = len(cats)
	tbl.Counters.Images = len(images)
	return tbl, nil
}
