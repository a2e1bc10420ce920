package table

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row map[string]string

func (r row) Value(column string) string { return r[column] }

var cols = []Column{
	{Key: "name", Label: "Name", Searchable: true, Sortable: true},
	{Key: "city", Label: "City", Searchable: true, Sortable: true, Filterable: true},
	{Key: "exp", Label: "Experience", Sortable: true},
	{Key: "status", Label: "Status", Filterable: true},
}

func rows() []row {
	return []row{
		{"name": "Asha Rao", "city": "Pune", "exp": "12", "status": "verified"},
		{"name": "Bilal Khan", "city": "Delhi", "exp": "3", "status": "pending"},
		{"name": "carla mendes", "city": "Pune", "exp": "7", "status": "pending"},
		{"name": "Dev Patel", "city": "Mumbai", "exp": "20", "status": "verified"},
	}
}

func names(rs []row) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r["name"])
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name               string
		total, page, size  int
		want               Bounds
	}{
		{"empty collection", 0, 1, 10, Bounds{Page: 1, Pages: 1, Start: 0, End: 0}},
		{"first page", 25, 1, 10, Bounds{Page: 1, Pages: 3, Start: 0, End: 10}},
		{"partial last page", 25, 3, 10, Bounds{Page: 3, Pages: 3, Start: 20, End: 25}},
		{"exact multiple", 20, 2, 10, Bounds{Page: 2, Pages: 2, Start: 10, End: 20}},
		{"page past the end is clamped", 25, 9, 10, Bounds{Page: 3, Pages: 3, Start: 20, End: 25}},
		{"page below one is clamped", 25, -4, 10, Bounds{Page: 1, Pages: 3, Start: 0, End: 10}},
		{"zero size uses default", 15, 2, 0, Bounds{Page: 2, Pages: 2, Start: 10, End: 15}},
		{"single item pages", 3, 2, 1, Bounds{Page: 2, Pages: 3, Start: 1, End: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.total, tt.page, tt.size))
		})
	}
}

func TestPaginateCoversEveryItemOnce(t *testing.T) {
	for total := 0; total < 40; total++ {
		for size := 1; size < 12; size++ {
			seen := 0
			pages := Paginate(total, 1, size).Pages
			for p := 1; p <= pages; p++ {
				b := Paginate(total, p, size)
				require.LessOrEqual(t, b.End-b.Start, size)
				require.Equal(t, seen, b.Start)
				seen = b.End
			}
			require.Equal(t, total, seen, "total=%d size=%d", total, size)
		}
	}
}

func TestFilter(t *testing.T) {
	t.Run("empty query keeps everything", func(t *testing.T) {
		assert.Len(t, Filter(rows(), cols, Query{}), 4)
	})
	t.Run("search is case insensitive over searchable columns", func(t *testing.T) {
		got := Filter(rows(), cols, Query{Search: "PUNE"})
		assert.Equal(t, []string{"Asha Rao", "carla mendes"}, names(got))
	})
	t.Run("search ignores non searchable columns", func(t *testing.T) {
		assert.Empty(t, Filter(rows(), cols, Query{Search: "verified"}))
	})
	t.Run("filters must all match", func(t *testing.T) {
		got := Filter(rows(), cols, Query{Filters: map[string]string{"city": "pune", "status": "Pending"}})
		assert.Equal(t, []string{"carla mendes"}, names(got))
	})
	t.Run("search and filter combine", func(t *testing.T) {
		got := Filter(rows(), cols, Query{Search: "a", Filters: map[string]string{"status": "verified"}})
		assert.Equal(t, []string{"Asha Rao", "Dev Patel"}, names(got))
	})
	t.Run("unknown and non filterable columns are ignored", func(t *testing.T) {
		got := Filter(rows(), cols, Query{Filters: map[string]string{"nope": "x", "name": "Dev Patel"}})
		assert.Len(t, got, 4)
	})
}

func TestSort(t *testing.T) {
	t.Run("numeric values compare as numbers", func(t *testing.T) {
		got := Sort(rows(), cols, "exp", false)
		assert.Equal(t, []string{"Bilal Khan", "carla mendes", "Asha Rao", "Dev Patel"}, names(got))
	})
	t.Run("strings compare case insensitively descending", func(t *testing.T) {
		got := Sort(rows(), cols, "name", true)
		assert.Equal(t, []string{"Dev Patel", "carla mendes", "Bilal Khan", "Asha Rao"}, names(got))
	})
	t.Run("stable for equal keys", func(t *testing.T) {
		got := Sort(rows(), cols, "city", false)
		assert.Equal(t, []string{"Bilal Khan", "Dev Patel", "Asha Rao", "carla mendes"}, names(got))
	})
	t.Run("one non numeric value makes the whole column lexical", func(t *testing.T) {
		in := []row{
			{"name": "a", "exp": "10"},
			{"name": "b", "exp": "9"},
			{"name": "c", "exp": "n/a"},
			{"name": "d", "exp": "2"},
		}
		assert.Equal(t, []string{"a", "d", "b", "c"}, names(Sort(in, cols, "exp", false)))
		assert.Equal(t, []string{"c", "b", "d", "a"}, names(Sort(in, cols, "exp", true)))
	})
	t.Run("blanks sort before numbers", func(t *testing.T) {
		in := []row{{"name": "a", "exp": "12"}, {"name": "b", "exp": ""}, {"name": "c", "exp": "3"}}
		assert.Equal(t, []string{"b", "c", "a"}, names(Sort(in, cols, "exp", false)))
		assert.Equal(t, []string{"a", "c", "b"}, names(Sort(in, cols, "exp", true)))
	})
	t.Run("unknown or unsortable column keeps order and copies", func(t *testing.T) {
		in := rows()
		got := Sort(in, cols, "status", false)
		assert.Equal(t, names(in), names(got))
		got[0] = row{"name": "changed"}
		assert.Equal(t, "Asha Rao", in[0]["name"])
	})
}

func TestParseQuery(t *testing.T) {
	v, err := url.ParseQuery("q=+pune+&f.status=verified&f.city=&sort=exp&order=DESC&p=3")
	require.NoError(t, err)
	q := ParseQuery(v, 25)
	assert.Equal(t, "pune", q.Search)
	assert.Equal(t, map[string]string{"status": "verified"}, q.Filters)
	assert.Equal(t, "exp", q.SortBy)
	assert.True(t, q.Desc)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PageSize)

	bad := ParseQuery(url.Values{"p": {"abc"}}, 10)
	assert.Equal(t, 1, bad.Page)
}

func TestQueryURLs(t *testing.T) {
	q := Query{Search: "pune", SortBy: "name", Page: 2, Filters: map[string]string{}}
	assert.Equal(t, "?order=asc&p=4&q=pune&sort=name", q.PageURL(4))
	assert.Equal(t, "?order=desc&q=pune&sort=name", q.SortURL("name"))
	assert.Equal(t, "?order=asc&q=pune&sort=exp", q.SortURL("exp"))
	assert.Equal(t, "/admin/doctors/export?format=csv&order=asc&q=pune&sort=name", q.ExportURL("/admin/doctors/export", "csv"))
	// the receiver is never modified
	assert.Equal(t, 2, q.Page)
}

func TestPageLinks(t *testing.T) {
	assert.Equal(t, []int{1}, PageLinks(1, 1))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, PageLinks(3, 20))
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10, 11, 12}, PageLinks(10, 20))
	assert.Equal(t, []int{15, 16, 17, 18, 19, 20}, PageLinks(20, 20))
}

func TestApply(t *testing.T) {
	data := make([]row, 0, 23)
	for i := 0; i < 23; i++ {
		data = append(data, row{"name": string(rune('a' + i)), "city": "Pune", "exp": "1"})
	}
	p := Apply(data, cols, Query{SortBy: "name", Desc: true, Page: 3, PageSize: 10})
	assert.Equal(t, 23, p.Total)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 21, p.From)
	assert.Equal(t, 23, p.To)
	assert.Equal(t, []string{"c", "b", "a"}, names(p.Rows))
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	empty := Apply([]row{}, cols, Query{Search: "zzz", Page: 4})
	assert.Equal(t, 0, empty.From)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, DefaultPageSize, empty.PageSize)
	assert.Empty(t, empty.Rows)
}
