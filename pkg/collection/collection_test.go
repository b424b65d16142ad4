package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sale struct {
	Label string
	Total int64
}

func TestMapAndFilter(t *testing.T) {
	sales := []sale{{"a", 100}, {"b", 200}, {"c", 50}}

	totals := Map(sales, func(s sale) int64 { return s.Total })
	assert.Equal(t, []int64{100, 200, 50}, totals)

	big := Filter(sales, func(s sale) bool { return s.Total >= 100 })
	assert.Len(t, big, 2)
}

func TestFirst(t *testing.T) {
	sales := []sale{{"a", 100}, {"b", 200}}

	got, ok := First(sales, func(s sale) bool { return s.Total > 150 })
	assert.True(t, ok)
	assert.Equal(t, "b", got.Label)

	_, ok = First(sales, func(s sale) bool { return s.Total > 900 })
	assert.False(t, ok)
}

func TestGroupBy(t *testing.T) {
	sales := []sale{{"jan", 100}, {"jan", 200}, {"feb", 50}}
	grouped := GroupBy(sales, func(s sale) string { return s.Label })
	assert.Len(t, grouped["jan"], 2)
	assert.Len(t, grouped["feb"], 1)
}

func TestSortByAndTake(t *testing.T) {
	sales := []sale{{"a", 100}, {"b", 300}, {"c", 200}}
	SortBy(sales, func(x, y sale) bool { return x.Total > y.Total })
	top := Take(sales, 2)
	assert.Equal(t, []sale{{"b", 300}, {"c", 200}}, top)

	assert.Len(t, Take(sales, 10), 3)
}

func TestSumInt64(t *testing.T) {
	sales := []sale{{"a", 25000}, {"b", 45000}}
	assert.Equal(t, int64(70000), SumInt64(sales, func(s sale) int64 { return s.Total }))
	assert.Equal(t, int64(0), SumInt64(nil, func(s sale) int64 { return s.Total }))
}

func TestKeyBy(t *testing.T) {
	sales := []sale{{"a", 100}, {"b", 200}, {"a", 300}}
	m := KeyBy(sales, func(s sale) string { return s.Label })
	assert.Equal(t, int64(300), m["a"].Total)
	assert.Equal(t, int64(200), m["b"].Total)
}
