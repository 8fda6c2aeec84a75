package client

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/animotheque/animotheque/internal/models"
)

// Column identifies a sortable table column.
type Column int

const (
	ColumnTitle Column = iota
	ColumnSeason
	ColumnDate
	ColumnStatus
)

// SortState holds the active column and direction. Activating the same
// column again flips the direction; switching columns resets to ascending.
type SortState struct {
	column    Column
	direction int
	active    bool
}

// NewSortState starts with no active column.
func NewSortState() *SortState {
	return &SortState{direction: 1}
}

// Toggle activates a column and returns the resulting direction
// (1 ascending, -1 descending).
func (s *SortState) Toggle(column Column) int {
	if s.active && s.column == column {
		s.direction *= -1
	} else {
		s.column = column
		s.direction = 1
		s.active = true
	}
	return s.direction
}

// Column returns the active column.
func (s *SortState) Column() Column {
	return s.column
}

// Direction returns 1 for ascending, -1 for descending.
func (s *SortState) Direction() int {
	return s.direction
}

// Sort orders the entries in place according to the current state.
func (s *SortState) Sort(animes []models.Anime) {
	if !s.active {
		return
	}
	sort.SliceStable(animes, func(i, j int) bool {
		return compareColumn(s.column, animes[i], animes[j])*s.direction < 0
	})
}

func compareColumn(column Column, a, b models.Anime) int {
	switch column {
	case ColumnSeason:
		return CompareSeasons(a.LastEpisode, b.LastEpisode)
	case ColumnDate:
		return CompareDates(FormatWatchDate(a.WatchDate), FormatWatchDate(b.WatchDate))
	case ColumnStatus:
		return CompareText(FormatStatus(a.Status), FormatStatus(b.Status))
	default:
		return CompareText(DisplayTitle(a.Title), DisplayTitle(b.Title))
	}
}

// CompareText is the case-insensitive lexical comparator for text columns.
func CompareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

var seasonNumber = regexp.MustCompile(`(?i)saison\s*(\d+)`)

// CompareSeasons orders "Saison N" labels numerically and falls back to
// the lexical comparator when either value has no season number.
func CompareSeasons(a, b string) int {
	aMatch := seasonNumber.FindStringSubmatch(a)
	bMatch := seasonNumber.FindStringSubmatch(b)
	if aMatch != nil && bMatch != nil {
		aSeason, _ := strconv.Atoi(aMatch[1])
		bSeason, _ := strconv.Atoi(bMatch[1])
		if aSeason != bSeason {
			return aSeason - bSeason
		}
	}
	return CompareText(a, b)
}

var frenchDate = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)

// CompareDates orders dd/mm/yyyy values chronologically. "-" (no date)
// always compares after any real date, so empty values land last on
// ascending and first on descending once the direction flag is applied.
func CompareDates(a, b string) int {
	if a == "-" && b == "-" {
		return 0
	}
	if a == "-" {
		return 1
	}
	if b == "-" {
		return -1
	}

	aMatch := frenchDate.FindStringSubmatch(a)
	bMatch := frenchDate.FindStringSubmatch(b)
	if aMatch != nil && bMatch != nil {
		aDay, aMonth, aYear := atoi(aMatch[1]), atoi(aMatch[2]), atoi(aMatch[3])
		bDay, bMonth, bYear := atoi(bMatch[1]), atoi(bMatch[2]), atoi(bMatch[3])
		if aYear != bYear {
			return aYear - bYear
		}
		if aMonth != bMonth {
			return aMonth - bMonth
		}
		return aDay - bDay
	}
	return CompareText(a, b)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
