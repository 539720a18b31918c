package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodpulse/pkg/contracts/domain"
)

func TestClampN(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		total int
		want  int
	}{
		{name: "in range", n: 3, total: 5, want: 3},
		{name: "zero clamps up", n: 0, total: 5, want: 1},
		{name: "negative clamps up", n: -4, total: 5, want: 1},
		{name: "over total clamps down", n: 99, total: 5, want: 5},
		{name: "empty collection", n: 3, total: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampN(tt.n, tt.total))
		})
	}
}

func TestTopNBottomN(t *testing.T) {
	rows := []domain.OperatorProductionRow{
		{OperatorName: "A", TotalProduction: 50},
		{OperatorName: "B", TotalProduction: 40},
		{OperatorName: "C", TotalProduction: 30},
		{OperatorName: "D", TotalProduction: 20},
	}

	top := TopN(rows, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].OperatorName)
	assert.Equal(t, "B", top[1].OperatorName)

	bottom := BottomN(rows, 2)
	require.Len(t, bottom, 2)
	assert.Equal(t, "C", bottom[0].OperatorName)
	assert.Equal(t, "D", bottom[1].OperatorName)
}

// For n = total, top and bottom each return the whole set once, and with no
// ties the top order reversed equals the bottom order reversed back.
func TestTopNBottomN_FullSetPartition(t *testing.T) {
	rows := []domain.OperatorProductionRow{
		{OperatorName: "A", TotalProduction: 50},
		{OperatorName: "B", TotalProduction: 40},
		{OperatorName: "C", TotalProduction: 30},
	}

	top := TopN(rows, len(rows))
	bottom := BottomN(rows, len(rows))

	assert.ElementsMatch(t, top, bottom)
	assert.ElementsMatch(t, rows, top)

	for i := range top {
		assert.Equal(t, top[i], bottom[i])
	}
}

func TestTopNBottomN_DisjointHalves(t *testing.T) {
	rows := []domain.OperatorProductionRow{
		{OperatorName: "A", TotalProduction: 50},
		{OperatorName: "B", TotalProduction: 40},
		{OperatorName: "C", TotalProduction: 30},
		{OperatorName: "D", TotalProduction: 20},
	}

	seen := map[string]int{}
	for _, r := range TopN(rows, 2) {
		seen[r.OperatorName]++
	}
	for _, r := range BottomN(rows, 2) {
		seen[r.OperatorName]++
	}

	require.Len(t, seen, 4)
	for name, count := range seen {
		assert.Equal(t, 1, count, "operator %s selected %d times", name, count)
	}
}

func TestTopN_DoesNotAliasInput(t *testing.T) {
	rows := []domain.OperatorProductionRow{
		{OperatorName: "A", TotalProduction: 50},
		{OperatorName: "B", TotalProduction: 40},
	}

	top := TopN(rows, 1)
	top[0].OperatorName = "mutated"

	assert.Equal(t, "A", rows[0].OperatorName)
}
