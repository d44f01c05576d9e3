package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionIDs(actions []NextAction) []string {
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	return ids
}

func TestBuildNextActions(t *testing.T) {
	freezeClock(t)

	significant := []Violation{
		{SystemID: "OK1", Significant: "Y"},
		{SystemID: "OK1", Significant: "N"},
		{SystemID: "OK1", Significant: "y"},
	}

	t.Run("funding reminder only", func(t *testing.T) {
		got := BuildNextActions(nil, AdvisoryReading{}, "")
		require.Len(t, got, 1)
		assert.Equal(t, ActionSRFSetAside, got[0].ID)
		assert.Equal(t, PriorityMedium, got[0].Priority)
		assert.Equal(t, CategoryFunding, got[0].Category)
		assert.Equal(t, "2026-11-08", got[0].DueDate)
		assert.Equal(t, StatusOpen, got[0].Status)
		assert.Len(t, got[0].Steps, 3)
	})

	t.Run("significant violations come first", func(t *testing.T) {
		got := BuildNextActions(significant, AdvisoryReading{}, SourceWater)
		require.Len(t, got, 2)
		assert.Equal(t, PriorityCritical, got[0].Priority)
		assert.Equal(t, "Resolve 2 significant violations", got[0].Title)
		assert.Equal(t, "2026-10-25", got[0].DueDate)
	})

	t.Run("non-significant violations are ignored", func(t *testing.T) {
		got := BuildNextActions([]Violation{{Significant: "N"}, {Significant: "Yes"}}, AdvisoryReading{}, SourceSCADA)
		assert.Equal(t, []string{ActionSRFSetAside}, actionIDs(got))
	})

	t.Run("scada low pressure", func(t *testing.T) {
		got := BuildNextActions(significant, AdvisoryReading{PressurePsi: Float(40)}, SourceSCADA)
		assert.Equal(t, []string{ActionSignificantViolations, ActionSCADALowPressure, ActionSRFSetAside}, actionIDs(got))
		assert.Equal(t, "2026-10-19", got[1].DueDate)
		assert.Equal(t, PriorityHigh, got[1].Priority)
	})

	t.Run("low pressure ignored for manual readings", func(t *testing.T) {
		got := BuildNextActions(nil, AdvisoryReading{PressurePsi: Float(40)}, SourceWater)
		assert.Equal(t, []string{ActionSRFSetAside}, actionIDs(got))
	})

	t.Run("pressure at floor does not fire", func(t *testing.T) {
		got := BuildNextActions(nil, AdvisoryReading{PressurePsi: Float(45)}, SourceSCADA)
		assert.Equal(t, []string{ActionSRFSetAside}, actionIDs(got))
	})

	t.Run("missing pressure does not fire", func(t *testing.T) {
		got := BuildNextActions(nil, AdvisoryReading{}, "SCADA")
		assert.Equal(t, []string{ActionSRFSetAside}, actionIDs(got))
	})

	t.Run("same inputs same list", func(t *testing.T) {
		r := AdvisoryReading{PressurePsi: Float(30)}
		assert.Equal(t, BuildNextActions(significant, r, SourceSCADA), BuildNextActions(significant, r, SourceSCADA))
	})
}

func TestBuildNextActionsDueDatesFollowClock(t *testing.T) {
	fc := freezeClock(t)

	first := BuildNextActions(nil, AdvisoryReading{}, "")
	fc.Advance(24 * time.Hour)
	second := BuildNextActions(nil, AdvisoryReading{}, "")

	assert.Equal(t, "2026-11-08", first[0].DueDate)
	assert.Equal(t, "2026-11-09", second[0].DueDate)
	assert.Equal(t, first[0].Title, second[0].Title)
}

func TestSortActions(t *testing.T) {
	actions := []NextAction{
		{ID: "low", Priority: PriorityLow, DueDate: "2026-01-01"},
		{ID: "med-undated", Priority: PriorityMedium},
		{ID: "med-late", Priority: PriorityMedium, DueDate: "2026-12-01"},
		{ID: "crit", Priority: PriorityCritical, DueDate: "2027-01-01"},
		{ID: "med-early", Priority: PriorityMedium, DueDate: "2026-02-01"},
		{ID: "high", Priority: PriorityHigh},
	}
	SortActions(actions)

	assert.Equal(t, []string{"crit", "high", "med-early", "med-late", "med-undated", "low"}, actionIDs(actions))
}
