// Package table implements the search, filter, sort and pagination applied to
// the record lists shown in management tables.
package table

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	pageLinksPerPage = 8
	DefaultPageSize  = 10
)

// Record is anything a table can display. Value returns the textual cell
// for the given column key, or "" when the column is unknown.
type Record interface {
	Value(column string) string
}

type Column struct {
	Key        string
	Label      string
	Searchable bool
	Sortable   bool
	Filterable bool
}

type Query struct {
	Search   string
	Filters  map[string]string
	SortBy   string
	Desc     bool
	Page     int
	PageSize int
}

// ParseQuery reads q, f.<column>, sort, order and p from the URL query.
// Malformed values fall back to their zero value.
func ParseQuery(v url.Values, pageSize int) Query {
	q := Query{
		Search:   strings.TrimSpace(v.Get("q")),
		Filters:  make(map[string]string),
		SortBy:   strings.TrimSpace(v.Get("sort")),
		Desc:     strings.EqualFold(v.Get("order"), "desc"),
		PageSize: pageSize,
	}
	for key, vals := range v {
		if !strings.HasPrefix(key, "f.") || len(vals) == 0 {
			continue
		}
		if val := strings.TrimSpace(vals[0]); val != "" {
			q.Filters[strings.TrimPrefix(key, "f.")] = val
		}
	}
	page, err := strconv.Atoi(v.Get("p"))
	if err != nil || page < 1 {
		page = 1
	}
	q.Page = page
	return q
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	for k, val := range q.Filters {
		v.Set("f."+k, val)
	}
	if q.SortBy != "" {
		v.Set("sort", q.SortBy)
		if q.Desc {
			v.Set("order", "desc")
		} else {
			v.Set("order", "asc")
		}
	}
	if q.Page > 1 {
		v.Set("p", strconv.Itoa(q.Page))
	}
	return v
}

// Encode returns the query string for q, without the leading '?'.
func (q Query) Encode() string {
	return q.values().Encode()
}

// PageURL is the query string selecting page n with every other setting kept.
func (q Query) PageURL(n int) string {
	q.Page = n
	return "?" + q.Encode()
}

// SortURL toggles the order when column is already the sort key, otherwise
// sorts ascending by column. It always goes back to the first page.
func (q Query) SortURL(column string) string {
	if q.SortBy == column {
		q.Desc = !q.Desc
	} else {
		q.SortBy = column
		q.Desc = false
	}
	q.Page = 1
	return "?" + q.Encode()
}

// ExportURL keeps search, filters and sort but drops the page.
func (q Query) ExportURL(base, format string) string {
	q.Page = 1
	v := q.values()
	v.Set("format", format)
	return base + "?" + v.Encode()
}

func (q Query) Filter(column string) string {
	return q.Filters[column]
}

func columnByKey(cols []Column, key string) (Column, bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Filter keeps the items matching the free text search over the searchable
// columns and every filter set on a known filterable column.
func Filter[T Record](items []T, cols []Column, q Query) []T {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	filters := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		if c, ok := columnByKey(cols, k); ok && c.Filterable && v != "" {
			filters[k] = v
		}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesFilters(item, filters) && matchesSearch(item, cols, search) {
			out = append(out, item)
		}
	}
	return out
}

func matchesFilters(item Record, filters map[string]string) bool {
	for k, v := range filters {
		if !strings.EqualFold(strings.TrimSpace(item.Value(k)), v) {
			return false
		}
	}
	return true
}

func matchesSearch(item Record, cols []Column, search string) bool {
	if search == "" {
		return true
	}
	for _, c := range cols {
		if c.Searchable && strings.Contains(strings.ToLower(item.Value(c.Key)), search) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of items. A column whose non blank values all
// parse as numbers is compared numerically with blanks first, any other
// column case-insensitively. The sort is stable and an unknown or non
// sortable column leaves the order untouched.
func Sort[T Record](items []T, cols []Column, key string, desc bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	c, ok := columnByKey(cols, key)
	if !ok || !c.Sortable {
		return out
	}
	keys := sortKeys(out, key)
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if desc {
			return b.less(a)
		}
		return a.less(b)
	})
	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

type sortKey struct {
	text    string
	num     float64
	blank   bool
	numeric bool
}

func (a sortKey) less(b sortKey) bool {
	if !a.numeric {
		return a.text < b.text
	}
	if a.blank || b.blank {
		return a.blank && !b.blank
	}
	return a.num < b.num
}

// sortKeys decides once per column whether it sorts as numbers, so every
// pair of rows is compared the same way.
func sortKeys[T Record](items []T, key string) []sortKey {
	keys := make([]sortKey, len(items))
	numeric := true
	for i, item := range items {
		v := strings.TrimSpace(item.Value(key))
		keys[i] = sortKey{text: strings.ToLower(v), blank: v == ""}
		if keys[i].blank {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			numeric = false
			continue
		}
		keys[i].num = f
	}
	for i := range keys {
		keys[i].numeric = numeric
	}
	return keys
}

// Bounds describes the slice [Start, End) of a collection shown on Page.
type Bounds struct {
	Page  int
	Pages int
	Start int
	End   int
}

// Paginate clamps page into [1, pages] and computes the slice boundaries for
// total items split into pages of size items. A non positive size means
// DefaultPageSize.
func Paginate(total, page, size int) Bounds {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	return Bounds{Page: page, Pages: pages, Start: start, End: end}
}

// PageLinks returns at most 8 page numbers to link to, starting a few pages
// before the current one.
func PageLinks(page, pages int) []int {
	links := []int{}
	shift := (pageLinksPerPage / 2) + 1
	first := 1
	if page-shift > 0 {
		first = page - shift
	}
	for i, j := first, 1; i <= pages && j <= pageLinksPerPage; i, j = i+1, j+1 {
		links = append(links, i)
	}
	return links
}

type Page[T Record] struct {
	Columns  []Column
	Rows     []T
	Query    Query
	Total    int
	Page     int
	Pages    int
	PageSize int
	From     int // 1-based index of the first row shown, 0 when empty
	To       int
	Links    []int
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.Pages }

// Select filters and sorts items without paginating, as used by exports.
func Select[T Record](items []T, cols []Column, q Query) []T {
	return Sort(Filter(items, cols, q), cols, q.SortBy, q.Desc)
}

// Apply runs filtering, sorting and pagination for q.
func Apply[T Record](items []T, cols []Column, q Query) Page[T] {
	selected := Select(items, cols, q)
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	b := Paginate(len(selected), q.Page, q.PageSize)
	q.Page = b.Page
	from := 0
	if b.End > b.Start {
		from = b.Start + 1
	}
	return Page[T]{
		Columns:  cols,
		Rows:     selected[b.Start:b.End],
		Query:    q,
		Total:    len(selected),
		Page:     b.Page,
		Pages:    b.Pages,
		PageSize: q.PageSize,
		From:     from,
		To:       b.End,
		Links:    PageLinks(b.Page, b.Pages),
	}
}

// Detail is one labelled line of a record's detail view.
type Detail struct {
	Label string
	Value string
}
