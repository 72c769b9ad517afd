package services

// SelectionTracker maintains the set of selected ids over the current
// preview batch. The set is always a subset of the batch: replacing the
// batch resets the selection, and toggles for absent ids are ignored.
// Not safe for concurrent use; the owning service guards it
type SelectionTracker struct {
	batch    []string
	inBatch  map[string]struct{}
	selected map[string]struct{}
}

// NewSelectionTracker creates a tracker with an empty batch
func NewSelectionTracker() *SelectionTracker {
	t := &SelectionTracker{}
	t.SetBatch(nil)
	return t
}

// SetBatch replaces the preview batch wholesale and clears the selection
func (t *SelectionTracker) SetBatch(ids []string) {
	t.batch = append([]string(nil), ids...)
	t.inBatch = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.inBatch[id] = struct{}{}
	}
	t.selected = make(map[string]struct{})
}

// Toggle flips membership of id in the selection. Ids not present in the
// current batch are ignored
func (t *SelectionTracker) Toggle(id string) {
	if _, ok := t.inBatch[id]; !ok {
		return
	}
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
	} else {
		t.selected[id] = struct{}{}
	}
}

// SelectAllOrNone toggles between a full and an empty selection: if every
// batch id is already selected it clears, otherwise it selects the whole
// batch
func (t *SelectionTracker) SelectAllOrNone() {
	if len(t.selected) == len(t.batch) && len(t.batch) > 0 {
		t.selected = make(map[string]struct{})
		return
	}
	t.selected = make(map[string]struct{}, len(t.batch))
	for _, id := range t.batch {
		t.selected[id] = struct{}{}
	}
}

// Selected returns the selected ids in batch order
func (t *SelectionTracker) Selected() []string {
	out := make([]string, 0, len(t.selected))
	for _, id := range t.batch {
		if _, ok := t.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// IsSelected reports whether id is currently selected
func (t *SelectionTracker) IsSelected(id string) bool {
	_, ok := t.selected[id]
	return ok
}

// Count returns the number of selected ids
func (t *SelectionTracker) Count() int {
	return len(t.selected)
}

// Clear empties the selection without touching the batch
func (t *SelectionTracker) Clear() {
	t.selected = make(map[string]struct{})
}
