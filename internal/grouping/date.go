package grouping

import (
	"fmt"

	"github.com/starford/edgelog/internal/models"
)

// DateState is the depth of the open date folder.
type DateState int

const (
	Root    DateState = iota // buckets are years
	InYear                   // buckets are months of the open year
	InMonth                  // buckets are days of the open month
	InDay                    // no buckets, records are listed
)

func (s DateState) String() string {
	switch s {
	case Root:
		return "root"
	case InYear:
		return "year"
	case InMonth:
		return "month"
	case InDay:
		return "day"
	}
	return fmt.Sprintf("DateState(%d)", int(s))
}

// DateStateOf maps a navigation path to its state. Segments past the
// third are ignored.
func DateStateOf(path []string) DateState {
	switch {
	case len(path) == 0:
		return Root
	case len(path) == 1:
		return InYear
	case len(path) == 2:
		return InMonth
	default:
		return InDay
	}
}

type dateParts struct {
	year, month, day string
}

func datePartsOf(r models.Record) (dateParts, bool) {
	ts, err := r.Timestamp()
	if err != nil {
		return dateParts{}, false
	}
	return dateParts{
		year:  fmt.Sprintf("%04d", ts.Year()),
		month: fmt.Sprintf("%02d", int(ts.Month())),
		day:   fmt.Sprintf("%02d", ts.Day()),
	}, true
}

// admits reports whether d lies on the branch named by path.
func (s DateState) admits(d dateParts, path []string) bool {
	switch s {
	case Root:
		return true
	case InYear:
		return d.year == path[0]
	case InMonth:
		return d.year == path[0] && d.month == path[1]
	default:
		return d.year == path[0] && d.month == path[1] && d.day == path[2]
	}
}

// key is the bucket key of d one level below s. InDay has no buckets.
func (s DateState) key(d dateParts) string {
	switch s {
	case Root:
		return d.year
	case InYear:
		return d.year + "/" + d.month
	case InMonth:
		return d.year + "/" + d.month + "/" + d.day
	}
	return ""
}
