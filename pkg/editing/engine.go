// Package editing implements inline, one-field-at-a-time editing of a record:
// each field moves between Viewing, Editing and Saving, keeps a single-level
// undo snapshot, validates on every change, and commits only the fields that
// differ from the baseline record.
package editing

import (
	"context"
	"sync"
)

// FieldState is the editing lifecycle position of a single field
type FieldState int

const (
	Viewing FieldState = iota
	Editing
	Saving
)

func (s FieldState) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// ConflictPolicy decides what StartEdit does while another field is being edited
type ConflictPolicy int

const (
	// DiscardOther reverts the other field to its undo snapshot and
	// starts editing the requested one.
	DiscardOther ConflictPolicy = iota
	// RejectNew leaves the other field alone and refuses the request.
	RejectNew
)

// Persister saves a delta and returns the stored record. It may block; the
// engine does not hold its lock while it runs.
type Persister func(ctx context.Context, delta Values) (Record, error)

// ErrorHandler receives persistence failures, always as *PersistError
type ErrorHandler func(err error)

// SaveHandler is notified after a successful save
type SaveHandler func(field FieldID, saved Record)

// Option configures an Engine
type Option func(*Engine)

// WithPersister sets the persistence callback
func WithPersister(p Persister) Option {
	return func(e *Engine) { e.persist = p }
}

// WithErrorHandler sets the callback that receives persistence failures
func WithErrorHandler(h ErrorHandler) Option {
	return func(e *Engine) { e.onError = h }
}

// WithSaveHandler sets the callback invoked after a successful save
func WithSaveHandler(h SaveHandler) Option {
	return func(e *Engine) { e.onSaved = h }
}

// WithConflictPolicy sets how StartEdit treats a field already in edit mode
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// Engine tracks the edit session of one record. It is safe for concurrent
// use so a save can run on a background goroutine.
type Engine struct {
	mu sync.RWMutex

	baseline  Record
	fields    map[FieldID]FieldConfig
	order     []FieldID
	values    Values
	snapshots Values
	states    map[FieldID]FieldState
	errors    map[FieldID][]string
	active    FieldID

	policy    ConflictPolicy
	persist   Persister
	onError   ErrorHandler
	onSaved   SaveHandler
	discarded bool
}

// NewEngine starts an edit session seeded from baseline. Duplicate field ids
// keep their first declaration.
func NewEngine(baseline Record, fields []FieldConfig, opts ...Option) *Engine {
	e := &Engine{
		baseline:  baseline,
		fields:    make(map[FieldID]FieldConfig, len(fields)),
		values:    make(Values, len(fields)),
		snapshots: make(Values, len(fields)),
		states:    make(map[FieldID]FieldState, len(fields)),
		errors:    make(map[FieldID][]string, len(fields)),
		policy:    DiscardOther,
	}

	for _, f := range fields {
		if _, dup := e.fields[f.ID]; dup {
			continue
		}
		e.fields[f.ID] = f
		e.order = append(e.order, f.ID)

		value := Stringify(baseline[string(f.ID)])
		e.values[f.ID] = value
		e.snapshots[f.ID] = value
		e.states[f.ID] = Viewing
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// StartEdit puts id into edit mode and captures its undo snapshot from the
// current value. If another field is being edited the conflict policy
// applies. Returns false when the request is refused.
func (e *Engine) StartEdit(id FieldID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.discarded {
		return false
	}

	state, ok := e.states[id]
	if !ok || state == Saving {
		return false
	}
	if state == Editing {
		return true
	}

	if other := e.active; other != "" && other != id && e.states[other] == Editing {
		if e.policy == RejectNew {
			return false
		}
		e.revertLocked(other)
	}

	e.snapshots[id] = e.values[id]
	e.states[id] = Editing
	e.active = id
	return true
}

// ChangeValue updates the value of the active field and re-runs its
// validators. Changes to any other field are ignored and return false.
func (e *Engine) ChangeValue(id FieldID, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.discarded || e.active != id || e.states[id] != Editing {
		return false
	}

	e.values[id] = value
	e.errors[id] = e.validateLocked(id)
	return true
}

// EndEdit commits the active field. Values that differ from the baseline are
// handed to the persister; when nothing differs the field simply returns to
// Viewing. A persistence failure goes to the error handler and leaves the
// attempted value in place. Returns false if id is not being edited or its
// value is invalid.
func (e *Engine) EndEdit(ctx context.Context, id FieldID) bool {
	delta, ok := e.BeginCommit(id)
	if !ok {
		return false
	}
	if len(delta) > 0 {
		e.Persist(ctx, id, delta)
	}
	return true
}

// BeginCommit is the synchronous half of EndEdit. It validates id, releases
// the edit slot and returns the delta to hand to Persist with the field
// already in Saving. An empty delta means the field went straight back to
// Viewing. Values of other fields still Saving are left out of the delta.
func (e *Engine) BeginCommit(id FieldID) (Values, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.discarded || e.active != id || e.states[id] != Editing {
		return nil, false
	}

	if errs := e.validateLocked(id); len(errs) > 0 {
		e.errors[id] = errs
		return nil, false
	}

	e.errors[id] = nil
	e.active = ""

	delta := e.commitDeltaLocked(id)
	if len(delta) == 0 {
		e.states[id] = Viewing
		return nil, true
	}

	e.states[id] = Saving
	return delta, true
}

// Persist saves a delta returned by BeginCommit and settles id back into
// Viewing. It reports false when id is not Saving.
func (e *Engine) Persist(ctx context.Context, id FieldID, delta Values) bool {
	e.mu.Lock()
	if e.discarded || e.states[id] != Saving {
		e.mu.Unlock()
		return false
	}
	persist := e.persist
	e.mu.Unlock()

	var (
		saved Record
		err   = ErrNoPersister
	)
	if persist != nil {
		saved, err = persist(ctx, delta.Clone())
	}

	e.mu.Lock()
	if e.discarded {
		e.mu.Unlock()
		return true
	}

	e.states[id] = Viewing

	if err != nil {
		onError := e.onError
		e.mu.Unlock()
		if onError != nil {
			onError(&PersistError{Field: id, Delta: delta, Err: err})
		}
		return true
	}

	e.snapshots[id] = e.values[id]
	e.baseline = nextBaseline(e.baseline, saved, delta)
	onSaved := e.onSaved
	e.mu.Unlock()

	if onSaved != nil {
		onSaved(id, saved)
	}
	return true
}

// CancelEdit restores the undo snapshot of an editing field and returns it
// to Viewing without persisting anything.
func (e *Engine) CancelEdit(id FieldID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.discarded || e.states[id] != Editing {
		return false
	}

	e.revertLocked(id)
	return true
}

// Discard ends the session. Later calls are no-ops and the result of a save
// still in flight is dropped.
func (e *Engine) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.discarded = true
	e.active = ""
}

// IsEditing reports whether id is in edit mode
func (e *Engine) IsEditing(id FieldID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.states[id] == Editing
}

// IsSaving reports whether a save of id is in flight
func (e *Engine) IsSaving(id FieldID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.states[id] == Saving
}

// IsAnyFieldEditing reports whether some field is in edit mode
func (e *Engine) IsAnyFieldEditing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active != "" && e.states[e.active] == Editing
}

// IsDiscarded reports whether Discard has been called
func (e *Engine) IsDiscarded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.discarded
}

// ActiveField returns the field holding the edit slot, or ""
func (e *Engine) ActiveField() FieldID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// State returns the lifecycle state of id
func (e *Engine) State(id FieldID) FieldState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.states[id]
}

// Value returns the current value of id
func (e *Engine) Value(id FieldID) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.values[id]
}

// Values returns a copy of every field value
func (e *Engine) Values() Values {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.values.Clone()
}

// Snapshot returns the value id reverts to on CancelEdit
func (e *Engine) Snapshot(id FieldID) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshots[id]
}

// Errors returns the validation messages of id
func (e *Engine) Errors(id FieldID) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.errors[id]...)
}

// Baseline returns the record current values are diffed against
func (e *Engine) Baseline() Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseline
}

// Pending returns the values that would be sent on the next commit
func (e *Engine) Pending() Values {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Delta(e.baseline, e.values)
}

// HasChanges reports whether any value differs from the baseline
func (e *Engine) HasChanges() bool {
	return len(e.Pending()) > 0
}

// Field returns the declaration of id
func (e *Engine) Field(id FieldID) (FieldConfig, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.fields[id]
	return f, ok
}

// Fields returns the field declarations in declaration order
func (e *Engine) Fields() []FieldConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]FieldConfig, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.fields[id])
	}
	return out
}

func (e *Engine) revertLocked(id FieldID) {
	e.values[id] = e.snapshots[id]
	e.errors[id] = nil
	e.states[id] = Viewing
	if e.active == id {
		e.active = ""
	}
}

// commitDeltaLocked diffs every value against the baseline except those of
// other fields whose own save is still in flight.
func (e *Engine) commitDeltaLocked(id FieldID) Values {
	delta := Delta(e.baseline, e.values)
	for other := range delta {
		if other != id && e.states[other] == Saving {
			delete(delta, other)
		}
	}
	return delta
}

func (e *Engine) validateLocked(id FieldID) []string {
	field, ok := e.fields[id]
	if !ok {
		return nil
	}
	return field.Validate(e.values[id], e.values.Clone())
}

// nextBaseline builds the record to diff against after a save. The saved
// record wins; delta keys it does not carry (such as write-only fields) are
// kept so they are not resent.
func nextBaseline(prev, saved Record, delta Values) Record {
	next := make(Record, len(prev)+len(delta))
	if saved == nil {
		for k, v := range prev {
			next[k] = v
		}
	} else {
		for k, v := range saved {
			next[k] = v
		}
	}
	for id, value := range delta {
		if _, ok := next[string(id)]; ok && saved != nil {
			continue
		}
		next[string(id)] = value
	}
	return next
}
