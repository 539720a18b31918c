package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodpulse/pkg/contracts/domain"
)

// Operator X works machine M1 on D1 and machine M2 on D2; only D1 has a
// matching machine reading. Production and machines handled come from the
// operator records alone, efficiency only from the matched join rows.
func TestOperatorSummaries_PartialMatch(t *testing.T) {
	operators := []domain.OperatorRecord{
		domain.NewOperatorRecord(day(2024, time.March, 1), "X", "M1", domain.ShiftDay, 10),
		domain.NewOperatorRecord(day(2024, time.March, 2), "X", "M2", domain.ShiftNight, 5),
	}
	machines := []domain.MachineRecord{
		domain.NewMachineRecord(day(2024, time.March, 1), "M1", 900, 90, 100, 10),
	}

	rows := OperatorSummaries(operators, machines)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "X", row.OperatorName)
	assert.Equal(t, int64(15), row.TotalProduction)
	assert.Equal(t, "M1, M2", row.MachinesHandled)

	v, ok := row.EfficiencyPct.Float64()
	require.True(t, ok)
	assert.InDelta(t, 90.0, v, 1e-9)
}

func TestOperatorSummaries_NoMatchedRows(t *testing.T) {
	operators := []domain.OperatorRecord{
		domain.NewOperatorRecord(day(2024, time.March, 1), "Y", "M9", domain.ShiftDay, 25),
	}

	rows := OperatorSummaries(operators, nil)
	require.Len(t, rows, 1)

	// Valid row with defined production and machine list, efficiency
	// undefined rather than zero.
	assert.Equal(t, int64(25), rows[0].TotalProduction)
	assert.Equal(t, "M9", rows[0].MachinesHandled)
	assert.False(t, rows[0].EfficiencyPct.Defined())
}

func TestJoinOperatorEfficiency_SumsAllMatches(t *testing.T) {
	operators := []domain.OperatorRecord{
		domain.NewOperatorRecord(day(2024, time.March, 1), "Z", "M1", domain.ShiftDay, 10),
		domain.NewOperatorRecord(day(2024, time.March, 2), "Z", "M1", domain.ShiftDay, 10),
	}
	machines := []domain.MachineRecord{
		domain.NewMachineRecord(day(2024, time.March, 1), "M1", 900, 80, 100, 10),
		domain.NewMachineRecord(day(2024, time.March, 2), "M1", 900, 60, 50, 10),
		// Different machine on the same date must not join.
		domain.NewMachineRecord(day(2024, time.March, 1), "M2", 900, 999, 999, 10),
	}

	joined := JoinOperatorEfficiency(operators, machines)
	require.Contains(t, joined, "Z")

	z := joined["Z"]
	assert.InDelta(t, 140.0, z.TotalActual, 1e-9)
	assert.InDelta(t, 150.0, z.TotalRated, 1e-9)

	v, ok := z.EfficiencyPct.Float64()
	require.True(t, ok)
	assert.InDelta(t, 93.333333, v, 1e-4)
}

func TestOperatorSummaries_SortedByProductionDesc(t *testing.T) {
	operators := []domain.OperatorRecord{
		domain.NewOperatorRecord(day(2024, time.March, 1), "Low", "1", domain.ShiftDay, 5),
		domain.NewOperatorRecord(day(2024, time.March, 1), "High", "1", domain.ShiftDay, 50),
		domain.NewOperatorRecord(day(2024, time.March, 1), "Mid", "2", domain.ShiftNight, 20),
	}

	rows := OperatorSummaries(operators, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "High", rows[0].OperatorName)
	assert.Equal(t, "Mid", rows[1].OperatorName)
	assert.Equal(t, "Low", rows[2].OperatorName)
}
