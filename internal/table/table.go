// Package table is the render-free core of the message table: free-text
// search, faceted filters, column sort, and windowed virtualization.
// Rendering parameters only decide which rows get materialized; they never
// change the logical row set or its order.
package table

import (
	"sort"
	"strings"
)

// SortDir is the per-column sort state. One column is sorted at a time.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

// Column describes one table column. A non-nil FilterOptions set marks the
// column as facetable: rows are matched by set membership on its cell.
type Column struct {
	Title         string
	Key           string
	Width         int
	FilterOptions []string
}

// Row is a single record, keyed by column key.
type Row map[string]string

// Config carries the table's non-column knobs.
type Config struct {
	SearchKey string // cell key free-text search applies to
	RowHeight int    // estimated render height per row
	Overscan  int    // rows materialized beyond the viewport on each side
}

// Model holds the table's filter/sort state over a row dataset.
type Model struct {
	cols   []Column
	rows   []Row
	config Config

	search  string
	facets  map[string]map[string]bool
	sortKey string
	sortDir SortDir
}

// New creates a table over the given columns.
func New(cols []Column, cfg Config) *Model {
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = 1
	}
	return &Model{
		cols:   cols,
		config: cfg,
		facets: make(map[string]map[string]bool),
	}
}

// Columns returns the column specification.
func (m *Model) Columns() []Column {
	return m.cols
}

// SetRows replaces the dataset. Filter and sort state carry over.
func (m *Model) SetRows(rows []Row) {
	m.rows = rows
}

// Len returns the unfiltered dataset size.
func (m *Model) Len() int {
	return len(m.rows)
}

// SetSearch sets the free-text query. Matching is case-insensitive
// substring against the configured search key.
func (m *Model) SetSearch(query string) {
	m.search = strings.ToLower(query)
}

// Search returns the current free-text query.
func (m *Model) Search() string {
	return m.search
}

// ToggleFacet flips one option in a column's active filter set.
func (m *Model) ToggleFacet(key, option string) {
	set := m.facets[key]
	if set == nil {
		set = make(map[string]bool)
		m.facets[key] = set
	}
	if set[option] {
		delete(set, option)
	} else {
		set[option] = true
	}
}

// ClearFacets removes the active filter set for a column.
func (m *Model) ClearFacets(key string) {
	delete(m.facets, key)
}

// FacetActive reports whether an option is in a column's active set.
func (m *Model) FacetActive(key, option string) bool {
	return m.facets[key][option]
}

// CycleSort advances a column through asc -> desc -> none. Sorting a
// different column resets the previous one.
func (m *Model) CycleSort(key string) {
	if m.sortKey != key {
		m.sortKey = key
		m.sortDir = SortAsc
		return
	}
	switch m.sortDir {
	case SortAsc:
		m.sortDir = SortDesc
	case SortDesc:
		m.sortKey = ""
		m.sortDir = SortNone
	default:
		m.sortDir = SortAsc
	}
}

// Sort returns the active sort column and direction.
func (m *Model) Sort() (string, SortDir) {
	return m.sortKey, m.sortDir
}

// matchesFacets is the faceted filter predicate: true iff, for every column
// with a non-empty active set, the row's cell is a member of that set.
func matchesFacets(row Row, facets map[string]map[string]bool) bool {
	for key, set := range facets {
		if len(set) == 0 {
			continue
		}
		if !set[row[key]] {
			return false
		}
	}
	return true
}

func (m *Model) matchesSearch(row Row) bool {
	if m.search == "" || m.config.SearchKey == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row[m.config.SearchKey]), m.search)
}

// VisibleRows returns the dataset after search, facets, and sort.
// The result is independent of any window parameters.
func (m *Model) VisibleRows() []Row {
	visible := make([]Row, 0, len(m.rows))
	for _, row := range m.rows {
		if m.matchesSearch(row) && matchesFacets(row, m.facets) {
			visible = append(visible, row)
		}
	}

	if m.sortKey != "" && m.sortDir != SortNone {
		key, desc := m.sortKey, m.sortDir == SortDesc
		sort.SliceStable(visible, func(i, j int) bool {
			if desc {
				return visible[i][key] > visible[j][key]
			}
			return visible[i][key] < visible[j][key]
		})
	}

	return visible
}

// Window is the materialized slice of the visible rows plus the spacer
// heights standing in for everything outside it.
type Window struct {
	Rows      []Row
	Start     int // index of Rows[0] within the visible set
	TopPad    int // spacer height above, in estimated row heights
	BottomPad int // spacer height below
}

// Window materializes the rows within [offset, offset+height) plus the
// overscan margin. Rows outside become spacer regions sized from the
// estimated row height, keeping render cost bounded on large datasets.
func (m *Model) Window(offset, height int) Window {
	visible := m.VisibleRows()
	total := len(visible)

	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	start := offset - m.config.Overscan
	if start < 0 {
		start = 0
	}
	end := offset + height + m.config.Overscan
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}

	return Window{
		Rows:      visible[start:end],
		Start:     start,
		TopPad:    start * m.config.RowHeight,
		BottomPad: (total - end) * m.config.RowHeight,
	}
}
