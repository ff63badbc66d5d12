package results

import "sort"

// ChangeListener receives selection-change notifications. The argument is a
// fresh ascending copy of the selected indexes and is safe to retain.
type ChangeListener interface {
	SelectionChanged(selected []int)
}

// Selection models which competitors out of a fixed-size field are currently
// chosen for display. Every mutating operation validates its arguments
// first and either fully succeeds or leaves the selection untouched.
// Listeners run synchronously, in registration order, before the mutating
// call returns; they must not re-enter mutating methods on the same
// selection.
type Selection struct {
	count     int
	selected  map[int]struct{}
	listeners []ChangeListener
}

// NewSelection creates an empty selection over a field of the given size.
func NewSelection(count int) (*Selection, error) {
	if count < 0 {
		return nil, invalidDataf("competitor count must not be negative, got %d", count)
	}
	return &Selection{count: count, selected: make(map[int]struct{})}, nil
}

// Count returns the size of the field the selection ranges over.
func (s *Selection) Count() int {
	return s.count
}

// RegisterChangeListener adds a listener. Registering a listener that is
// already registered is a no-op: each listener is called once per change.
func (s *Selection) RegisterChangeListener(listener ChangeListener) {
	if listener == nil {
		return
	}
	for _, l := range s.listeners {
		if l == listener {
			return
		}
	}
	s.listeners = append(s.listeners, listener)
}

// DeregisterChangeListener removes a listener. Removing a listener that is
// not registered is a silent no-op.
func (s *Selection) DeregisterChangeListener(listener ChangeListener) {
	for i, l := range s.listeners {
		if l == listener {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Selection) notify() {
	for _, l := range s.listeners {
		l.SelectionChanged(s.SelectedIndexes())
	}
}

func (s *Selection) checkIndex(index int) error {
	if index < 0 || index >= s.count {
		return invalidDataf("index %d out of range [0, %d)", index, s.count)
	}
	return nil
}

// IsSelected reports whether the given index is selected.
func (s *Selection) IsSelected(index int) bool {
	_, ok := s.selected[index]
	return ok
}

// SelectedIndexes returns the selected indexes in ascending order. The
// returned slice is an independent copy.
func (s *Selection) SelectedIndexes() []int {
	indexes := make([]int, 0, len(s.selected))
	for idx := range s.selected {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

// IsSingleRunnerSelected reports whether exactly one competitor is selected.
func (s *Selection) IsSingleRunnerSelected() bool {
	return len(s.selected) == 1
}

// SingleRunnerIndex returns the selected index when exactly one competitor
// is selected.
func (s *Selection) SingleRunnerIndex() (int, bool) {
	if len(s.selected) != 1 {
		return 0, false
	}
	for idx := range s.selected {
		return idx, true
	}
	return 0, false
}

// Toggle flips the selection state of one index and notifies.
func (s *Selection) Toggle(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if s.IsSelected(index) {
		delete(s.selected, index)
	} else {
		s.selected[index] = struct{}{}
	}
	s.notify()
	return nil
}

// SelectAll selects every competitor and notifies, whether or not anything
// changed.
func (s *Selection) SelectAll() {
	for idx := 0; idx < s.count; idx++ {
		s.selected[idx] = struct{}{}
	}
	s.notify()
}

// SelectNone clears the selection and notifies, whether or not anything
// changed.
func (s *Selection) SelectNone() {
	s.selected = make(map[int]struct{})
	s.notify()
}

// SetSelectedIndexes replaces the selected set. If any supplied index is out
// of range the selection is left untouched and no notification fires;
// otherwise it always notifies, even for an empty replacement.
func (s *Selection) SetSelectedIndexes(indexes []int) error {
	if indexes == nil {
		return ErrMissingArgument
	}
	for _, idx := range indexes {
		if err := s.checkIndex(idx); err != nil {
			return err
		}
	}
	s.selected = make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		s.selected[idx] = struct{}{}
	}
	s.notify()
	return nil
}

// BulkSelect adds a batch of indexes as one logical change. Validation is
// atomic: one bad index and nothing is mutated. It notifies at most once,
// and only if the selected set actually changed.
func (s *Selection) BulkSelect(indexes []int) error {
	if indexes == nil {
		return ErrMissingArgument
	}
	for _, idx := range indexes {
		if err := s.checkIndex(idx); err != nil {
			return err
		}
	}
	changed := false
	for _, idx := range indexes {
		if !s.IsSelected(idx) {
			s.selected[idx] = struct{}{}
			changed = true
		}
	}
	if changed {
		s.notify()
	}
	return nil
}

// BulkDeselect removes a batch of indexes as one logical change, with the
// same atomicity and notification rules as BulkSelect.
func (s *Selection) BulkDeselect(indexes []int) error {
	if indexes == nil {
		return ErrMissingArgument
	}
	for _, idx := range indexes {
		if err := s.checkIndex(idx); err != nil {
			return err
		}
	}
	changed := false
	for _, idx := range indexes {
		if s.IsSelected(idx) {
			delete(s.selected, idx)
			changed = true
		}
	}
	if changed {
		s.notify()
	}
	return nil
}

// CompetitorDetail pairs a competitor with whether it is currently visible
// to the user.
type CompetitorDetail struct {
	Competitor *Competitor
	Visible    bool
}

// CrossingPredicate decides whether two competitors' courses cross. The
// exact proximity test belongs to the caller; Crosses is the usual choice.
type CrossingPredicate func(a, b *Competitor) bool

// SelectCrossingRunners adds every visible competitor whose course crosses
// the single currently-selected one, notifying once if any was added. It is
// a silent no-op unless exactly one competitor is selected, and a silent
// no-op when no visible crossing runner exists.
func (s *Selection) SelectCrossingRunners(details []CompetitorDetail, crosses CrossingPredicate) error {
	if details == nil {
		return ErrMissingArgument
	}
	if len(details) != s.count {
		return invalidDataf("got %d competitor details for a selection of %d", len(details), s.count)
	}
	if crosses == nil {
		crosses = Crosses
	}

	selectedIdx, ok := s.SingleRunnerIndex()
	if !ok {
		return nil
	}
	reference := details[selectedIdx].Competitor

	added := false
	for idx, detail := range details {
		if idx == selectedIdx || !detail.Visible || s.IsSelected(idx) {
			continue
		}
		if crosses(detail.Competitor, reference) {
			s.selected[idx] = struct{}{}
			added = true
		}
	}
	if added {
		s.notify()
	}
	return nil
}

// Migrate remaps the selection from one competitor ordering to another, as
// after a data reload. Each selected competitor is identity-matched into
// the new list and keeps its selection at the new index, or silently drops
// out if absent. Migration never notifies: it is a structural remap, not a
// selection change.
func (s *Selection) Migrate(oldCompetitors, newCompetitors []*Competitor) error {
	if oldCompetitors == nil || newCompetitors == nil {
		return ErrMissingArgument
	}
	if len(oldCompetitors) != s.count {
		return invalidDataf("selection ranges over %d competitors, old list has %d", s.count, len(oldCompetitors))
	}
	if len(newCompetitors) == 0 && len(s.selected) > 0 {
		return invalidDataf("cannot migrate a non-empty selection to an empty competitor list")
	}

	newIndexes := make(map[string]int, len(newCompetitors))
	for idx, comp := range newCompetitors {
		key := competitorKey(comp)
		if _, seen := newIndexes[key]; !seen {
			newIndexes[key] = idx
		}
	}

	migrated := make(map[int]struct{}, len(s.selected))
	for oldIdx := range s.selected {
		if newIdx, ok := newIndexes[competitorKey(oldCompetitors[oldIdx])]; ok {
			migrated[newIdx] = struct{}{}
		}
	}

	s.count = len(newCompetitors)
	s.selected = migrated
	return nil
}

// Competitors are matched across reloads by name and club; the input order
// is not stable across reloads.
func competitorKey(c *Competitor) string {
	return c.Name() + "\x00" + c.Club
}
