package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionTracker_ToggleParity(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"a", "b", "c"})

	tracker.Toggle("a")
	tracker.Toggle("b")
	tracker.Toggle("a")
	tracker.Toggle("c")
	tracker.Toggle("c")
	tracker.Toggle("c")

	assert.False(t, tracker.IsSelected("a"), "even number of toggles")
	assert.True(t, tracker.IsSelected("b"), "odd number of toggles")
	assert.True(t, tracker.IsSelected("c"), "odd number of toggles")
	assert.Equal(t, []string{"b", "c"}, tracker.Selected())
}

func TestSelectionTracker_ToggleUnknownIDIgnored(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"a"})

	tracker.Toggle("ghost")

	assert.Equal(t, 0, tracker.Count())
	assert.False(t, tracker.IsSelected("ghost"))
}

func TestSelectionTracker_SetBatchResetsSelection(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"a", "b"})
	tracker.Toggle("a")
	tracker.Toggle("b")

	tracker.SetBatch([]string{"b", "c"})

	assert.Equal(t, 0, tracker.Count(), "replacement resets selection regardless of overlap")
	assert.Empty(t, tracker.Selected())
}

func TestSelectionTracker_SelectAllOrNone(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"a", "b", "c"})

	tracker.SelectAllOrNone()
	assert.Equal(t, []string{"a", "b", "c"}, tracker.Selected())

	// Double invocation with no intervening change returns to empty
	tracker.SelectAllOrNone()
	assert.Equal(t, 0, tracker.Count())
}

func TestSelectionTracker_SelectAllOrNone_PartialSelectsAll(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"a", "b", "c"})
	tracker.Toggle("b")

	tracker.SelectAllOrNone()

	assert.Equal(t, []string{"a", "b", "c"}, tracker.Selected())
}

func TestSelectionTracker_SelectAllOrNone_EmptyBatch(t *testing.T) {
	tracker := NewSelectionTracker()

	tracker.SelectAllOrNone()

	assert.Equal(t, 0, tracker.Count())
}

func TestSelectionTracker_SelectedPreservesBatchOrder(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"z", "m", "a"})

	tracker.Toggle("a")
	tracker.Toggle("z")

	assert.Equal(t, []string{"z", "a"}, tracker.Selected())
}

func TestSelectionTracker_Clear(t *testing.T) {
	tracker := NewSelectionTracker()
	tracker.SetBatch([]string{"a", "b"})
	tracker.SelectAllOrNone()

	tracker.Clear()

	assert.Equal(t, 0, tracker.Count())
	tracker.Toggle("a")
	assert.True(t, tracker.IsSelected("a"), "batch survives a clear")
}
