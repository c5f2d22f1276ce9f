package paging

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
)

type item struct {
	name, description string
	created, updated  time.Time
}

func (i item) SortName() string      { return i.name }
func (i item) Created() time.Time    { return i.created }
func (i item) Updated() time.Time    { return i.updated }
func (i item) Matches(q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(i.name), q) || strings.Contains(strings.ToLower(i.description), q)
}

func intPtr(v int) *int { return &v }

func fixture(n int) []item {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]item, n)
	for i := range items {
		items[i] = item{
			name:        fmt.Sprintf("exercise-%02d", i),
			description: fmt.Sprintf("description %d", i),
			created:     base.Add(time.Duration(i) * time.Hour),
			updated:     base.Add(time.Duration(n-i) * time.Hour),
		}
	}
	return items
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestResolve_PagesConcatenateToFullSet(t *testing.T) {
	items := fixture(23)

	for _, size := range []int{1, 2, 5, 7, 23, 50} {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			first, err := Resolve(items, Query{PageSize: intPtr(size), Sort: SortName, Order: OrderAsc})
			require.NoError(t, err)

			var all []item
			for p := 1; p <= first.PageCount; p++ {
				page, err := Resolve(items, Query{PageSize: intPtr(size), PageNumber: intPtr(p), Sort: SortName, Order: OrderAsc})
				require.NoError(t, err)
				assert.Equal(t, p, page.PageNumber)
				assert.LessOrEqual(t, len(page.Items), size)
				all = append(all, page.Items...)
			}

			whole, err := Resolve(items, Query{Sort: SortName, Order: OrderAsc})
			require.NoError(t, err)
			assert.Equal(t, names(whole.Items), names(all))
			assert.Len(t, all, len(items))
		})
	}
}

func TestResolve_PageCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
		size  *int
		want  int
	}{
		{"exact multiple", 10, intPtr(5), 2},
		{"remainder", 11, intPtr(5), 3},
		{"single partial page", 3, intPtr(5), 1},
		{"no size", 11, nil, 1},
		{"no size empty", 0, nil, 0},
		{"empty with size", 0, intPtr(5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Resolve(fixture(tt.count), Query{PageSize: tt.size})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.PageCount)
		})
	}
}

func TestResolve_EmptySet(t *testing.T) {
	page, err := Resolve([]item{}, Query{PageSize: intPtr(10), PageNumber: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 0, page.PageCount)
	assert.Equal(t, 1, page.PageNumber)
	assert.Empty(t, page.Items)

	page, err = Resolve[item](nil, Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.PageCount)

	_, err = Resolve([]item{}, Query{PageSize: intPtr(10), PageNumber: intPtr(2)})
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestResolve_PageBeyondCount(t *testing.T) {
	_, err := Resolve(fixture(10), Query{PageSize: intPtr(5), PageNumber: intPtr(3)})
	require.ErrorIs(t, err, domain.ErrPageNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = Resolve(fixture(10), Query{PageNumber: intPtr(2)})
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestResolve_InvalidParameters(t *testing.T) {
	_, err := Resolve(fixture(3), Query{PageSize: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = Resolve(fixture(3), Query{PageNumber: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidPageNumber)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestResolve_Search(t *testing.T) {
	items := []item{
		{name: "Bench Press", description: "chest"},
		{name: "Squat", description: "Legs and GLUTES"},
		{name: "Deadlift", description: "posterior chain"},
	}

	page, err := Resolve(items, Query{Search: "glute", Sort: SortName, Order: OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Squat"}, names(page.Items))

	page, err = Resolve(items, Query{Search: "PRESS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bench Press"}, names(page.Items))

	page, err = Resolve(items, Query{Search: "   "})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	page, err = Resolve(items, Query{Search: "nothing", PageSize: intPtr(5)})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.PageCount)
}

func TestSort_NameAscIsReverseOfDesc(t *testing.T) {
	items := fixture(9)

	asc := append([]item(nil), items...)
	Sort(asc, SortName, OrderAsc)
	desc := append([]item(nil), items...)
	Sort(desc, SortName, OrderDesc)

	reversed := make([]string, len(desc))
	for i, it := range desc {
		reversed[len(desc)-1-i] = it.name
	}
	assert.Equal(t, names(asc), reversed)

	mixed := []item{{name: "Squat"}, {name: "bench press"}, {name: "Deadlift"}, {name: "squat"}}
	Sort(mixed, SortName, OrderAsc)
	assert.Equal(t, []string{"bench press", "Deadlift", "Squat", "squat"}, names(mixed))
	Sort(mixed, SortName, OrderDesc)
	assert.Equal(t, []string{"squat", "Squat", "Deadlift", "bench press"}, names(mixed))
}

func TestResolve_HugePageSize(t *testing.T) {
	page, err := Resolve(fixture(2), Query{PageSize: intPtr(math.MaxInt)})
	require.NoError(t, err)
	assert.Equal(t, 1, page.PageCount)
	assert.Equal(t, 1, page.PageNumber)
	assert.Len(t, page.Items, 2)

	_, err = Resolve(fixture(2), Query{PageSize: intPtr(math.MaxInt), PageNumber: intPtr(2)})
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestSort_Defaults(t *testing.T) {
	items := fixture(4)

	tests := []struct {
		name      string
		key       string
		order     string
		wantFirst string
	}{
		{"no key is newest created first", "", "", "exercise-03"},
		{"unknown key ignores order", "popularity", OrderAsc, "exercise-03"},
		{"known key defaults to desc", SortName, "", "exercise-03"},
		{"known key unknown order is desc", SortCreated, "sideways", "exercise-03"},
		{"created asc", SortCreated, OrderAsc, "exercise-00"},
		{"updated desc", SortUpdated, OrderDesc, "exercise-00"},
		{"updated asc", SortUpdated, OrderAsc, "exercise-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]item(nil), items...)
			Sort(got, tt.key, tt.order)
			assert.Equal(t, tt.wantFirst, got[0].name)
		})
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	items := fixture(5)
	before := names(items)

	_, err := Resolve(items, Query{Sort: SortName, Order: OrderDesc})
	require.NoError(t, err)
	assert.Equal(t, before, names(items))
}
