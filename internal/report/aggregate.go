package report

import (
	"sort"

	"github.com/samber/lo"

	"github.com/scottbass3/imgprobe/internal/probe"
)

// Row is one line of the final report. Size, Width and Height are nil when
// unknown and encode as null.
type Row struct {
	ID          string `json:"-"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Size        *int64 `json:"size"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
	Status      string `json:"status"`
	Occurrences int    `json:"occurrences"`
}

func (r Row) sortSize() int64 {
	if r.Size == nil {
		return -1
	}
	return *r.Size
}

// Aggregate decorates records with occurrence counts and orders them by
// size, largest first. Unknown sizes sink to the bottom and ties keep the
// input order. records is not modified.
func Aggregate(records []probe.Record, occurrences func(id string) int) []Row {
	rows := lo.Map(records, func(rec probe.Record, _ int) Row {
		return toRow(rec.Clone(), occurrences)
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].sortSize() > rows[j].sortSize()
	})
	return rows
}

func toRow(rec probe.Record, occurrences func(id string) int) Row {
	row := Row{
		ID:     rec.ID,
		Target: rec.Target,
		Type:   rec.Kind.String(),
		Size:   rec.Size,
		Status: rec.StatusText(),
	}
	if rec.Dims != nil {
		width, height := rec.Dims.Width, rec.Dims.Height
		row.Width = &width
		row.Height = &height
	}
	if occurrences != nil {
		row.Occurrences = occurrences(rec.ID)
	}
	return row
}
