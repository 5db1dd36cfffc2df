package casedoc

import (
	"fmt"
	"sort"

	"github.com/frherrer/GoE2E-CaseDoc/internal/domain"
)

// Action kinds accepted by ActionRegistry.Add.
const (
	ActionStep   = "test_step"
	ActionResult = "test_result"
)

// ActionUnified names the directive that carries both a step and a result.
// It is not a registry kind.
const ActionUnified = "test_action"

// Action is one numbered step/result pair. A zero payload means absent.
type Action[T comparable] struct {
	ID     int
	Step   T
	Result T
}

type registryOptions struct {
	allowClash bool
	floor      int
}

// RegistryOption configures an ActionRegistry.
type RegistryOption func(*registryOptions)

// AllowClash makes a second payload of the same kind replace the first
// instead of failing.
func AllowClash() RegistryOption {
	return func(o *registryOptions) { o.allowClash = true }
}

// WithAutoIDFloor sets the minimum base for auto-assigned ids. Auto ids are
// max(highest id, floor) + 1.
func WithAutoIDFloor(floor int) RegistryOption {
	return func(o *registryOptions) { o.floor = floor }
}

// ActionRegistry maps action ids to their step and result payloads.
type ActionRegistry[T comparable] struct {
	opts  registryOptions
	slots map[int]*Action[T]
	maxID int
}

// NewActionRegistry creates an empty registry.
func NewActionRegistry[T comparable](opts ...RegistryOption) *ActionRegistry[T] {
	r := &ActionRegistry[T]{slots: make(map[int]*Action[T])}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// Add stores payload under kind for id and returns the id used. An id of 0
// requests auto-assignment.
func (r *ActionRegistry[T]) Add(kind string, payload T, id int) (int, error) {
	if kind != ActionStep && kind != ActionResult {
		return 0, &domain.ActionKindError{Kind: kind}
	}
	if id < 0 {
		return 0, fmt.Errorf("invalid action id %d", id)
	}
	if id == 0 {
		id = max(r.maxID, r.opts.floor) + 1
	}

	var zero T
	slot := r.slots[id]
	if slot != nil && !r.opts.allowClash {
		if (kind == ActionStep && slot.Step != zero) || (kind == ActionResult && slot.Result != zero) {
			return 0, &domain.ActionClashError{ID: id, Kind: kind}
		}
	}
	if slot == nil {
		slot = &Action[T]{ID: id}
		r.slots[id] = slot
	}
	if kind == ActionStep {
		slot.Step = payload
	} else {
		slot.Result = payload
	}
	r.maxID = max(r.maxID, id)
	return id, nil
}

// AddStep is Add(ActionStep, payload, id).
func (r *ActionRegistry[T]) AddStep(payload T, id int) (int, error) {
	return r.Add(ActionStep, payload, id)
}

// AddResult is Add(ActionResult, payload, id).
func (r *ActionRegistry[T]) AddResult(payload T, id int) (int, error) {
	return r.Add(ActionResult, payload, id)
}

// Len returns the number of ids holding at least one payload.
func (r *ActionRegistry[T]) Len() int {
	return len(r.Actions())
}

// Actions returns the populated actions in ascending id order.
func (r *ActionRegistry[T]) Actions() []Action[T] {
	var zero T
	out := make([]Action[T], 0, len(r.slots))
	for _, slot := range r.slots {
		if slot.Step != zero || slot.Result != zero {
			out = append(out, *slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Contents flattens the payloads in id order, step before result.
func (r *ActionRegistry[T]) Contents() []T {
	var zero T
	var out []T
	for _, a := range r.Actions() {
		if a.Step != zero {
			out = append(out, a.Step)
		}
		if a.Result != zero {
			out = append(out, a.Result)
		}
	}
	return out
}
