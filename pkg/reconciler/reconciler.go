package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/events"
	"github.com/cdot65/scmsync/pkg/log"
	"github.com/cdot65/scmsync/pkg/metrics"
	"github.com/cdot65/scmsync/pkg/scm"
	"github.com/cdot65/scmsync/pkg/types"
)

// Action is the single mutating or non-mutating step a reconciliation run
// decides on. Derived per run, never stored.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionNoOp   Action = "noop"
)

// Resource is the per-kind plugin the generic pipeline is parameterized by.
// Concrete kinds (address, service, tag, ...) implement it once; the
// pipeline itself is never duplicated per kind.
type Resource interface {
	// Kind names the resource type.
	Kind() types.ResourceKind
	// Identity resolves the object's name and single container scope.
	Identity() (types.Identity, error)
	// Validate checks structural and mutual-exclusion rules for the given
	// lifecycle intent. It is pure: no backend contact, ever.
	Validate(state types.State) error
	// Attrs returns the desired attributes, containing only fields the
	// caller actually set. Omitted fields mean "leave as is".
	Attrs() map[string]any
	// Rules is the kind's comparator table driving the diff.
	Rules() diff.Rules
	// Exclusions lists the kind's mutually exclusive attribute groups.
	// Setting one member of a group on update clears its siblings from the
	// payload. Kinds without variant fields return nil.
	Exclusions() []diff.ExclusionGroup
}

// Result is the normalized outcome of one reconciliation run.
type Result struct {
	Changed bool
	Action  Action
	// Object holds the serialized remote object where one resulted from the
	// run, with the backend id rendered in its canonical string form. Nil
	// for deletes, absent-noops and dry-run mutations.
	Object map[string]any
}

// Reconciler drives the validate -> resolve -> probe -> diff -> decide ->
// mutate -> report pipeline. It is stateless between runs: safe to share
// across goroutines reconciling independent resources.
type Reconciler struct {
	client scm.Client
	broker *events.Broker
	logger zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithEvents publishes one event per reconciliation outcome to the broker.
func WithEvents(b *events.Broker) Option {
	return func(r *Reconciler) { r.broker = b }
}

// WithLogger overrides the default component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// New creates a Reconciler bound to a backend client session.
func New(client scm.Client, opts ...Option) *Reconciler {
	r := &Reconciler{
		client: client,
		logger: log.WithComponent("reconciler"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile runs the pipeline for one resource. Validation always precedes
// any backend contact, so a spec that fails validation can never cause a
// partial remote change. With dryRun set, every decision is computed but no
// mutating call is issued.
func (r *Reconciler) Reconcile(ctx context.Context, res Resource, state types.State, dryRun bool) (*Result, error) {
	timer := metrics.NewTimer()
	kind := res.Kind()
	defer func() {
		timer.ObserveDuration(metrics.ReconcileDuration.WithLabelValues(string(kind)))
	}()

	result, err := r.reconcile(ctx, res, state, dryRun)
	if err != nil {
		metrics.ReconcileFailures.WithLabelValues(string(kind)).Inc()
		return nil, err
	}
	metrics.ReconcilesTotal.WithLabelValues(string(kind), string(result.Action)).Inc()
	return result, nil
}

func (r *Reconciler) reconcile(ctx context.Context, res Resource, state types.State, dryRun bool) (*Result, error) {
	if err := res.Validate(state); err != nil {
		return nil, err
	}
	id, err := res.Identity()
	if err != nil {
		return nil, err
	}
	logger := log.WithResource(r.logger, id)

	existing, err := r.probe(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes diff.ChangeSet
	if state == types.StatePresent && existing != nil {
		changes = diff.Compare(res.Attrs(), existing.Attrs, res.Rules())
	}

	action := decide(state, existing != nil, changes)
	logger.Debug().
		Str("action", string(action)).
		Strs("fields", changes.Fields()).
		Bool("dry_run", dryRun).
		Msg("reconciliation decided")

	if dryRun {
		return r.reportDryRun(id, action, existing), nil
	}
	return r.execute(ctx, logger, res, id, action, existing, changes)
}

// probe fetches the current remote object. NotFound is a normal branch and
// comes back as a nil object; every other fault is terminal.
func (r *Reconciler) probe(ctx context.Context, id types.Identity) (*types.RemoteObject, error) {
	metrics.BackendCallsTotal.WithLabelValues("fetch").Inc()
	obj, err := r.client.Fetch(ctx, id)
	if err != nil {
		var notFound *scm.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		metrics.BackendErrorsTotal.WithLabelValues("fetch").Inc()
		return nil, err
	}
	return obj, nil
}

// decide is the reconciliation state machine. The table is total: every
// combination of intent and existence maps to exactly one action.
func decide(state types.State, exists bool, changes diff.ChangeSet) Action {
	switch {
	case state == types.StatePresent && !exists:
		return ActionCreate
	case state == types.StatePresent && !changes.Empty():
		return ActionUpdate
	case state == types.StateAbsent && exists:
		return ActionDelete
	default:
		return ActionNoOp
	}
}

// execute performs the decided action against the backend, single-attempt.
func (r *Reconciler) execute(ctx context.Context, logger zerolog.Logger, res Resource, id types.Identity, action Action, existing *types.RemoteObject, changes diff.ChangeSet) (*Result, error) {
	switch action {
	case ActionCreate:
		metrics.BackendCallsTotal.WithLabelValues("create").Inc()
		created, err := r.client.Create(ctx, id.Kind, res.Attrs())
		if err != nil {
			metrics.BackendErrorsTotal.WithLabelValues("create").Inc()
			return nil, fmt.Errorf("failed to create %s: %w", id, err)
		}
		logger.Info().Msg("object created")
		r.publish(events.EventObjectCreated, id, nil)
		return &Result{Changed: true, Action: action, Object: Serialize(created)}, nil

	case ActionUpdate:
		merged := existing.Clone()
		applyChangeSet(merged.Attrs, changes, res.Exclusions())
		metrics.BackendCallsTotal.WithLabelValues("update").Inc()
		updated, err := r.client.Update(ctx, id.Kind, merged)
		if err != nil {
			metrics.BackendErrorsTotal.WithLabelValues("update").Inc()
			return nil, fmt.Errorf("failed to update %s: %w", id, err)
		}
		logger.Info().Strs("fields", changes.Fields()).Msg("object updated")
		r.publish(events.EventObjectUpdated, id, changes.Fields())
		return &Result{Changed: true, Action: action, Object: Serialize(updated)}, nil

	case ActionDelete:
		metrics.BackendCallsTotal.WithLabelValues("delete").Inc()
		if err := r.client.Delete(ctx, id.Kind, existing.ID); err != nil {
			metrics.BackendErrorsTotal.WithLabelValues("delete").Inc()
			return nil, fmt.Errorf("failed to delete %s: %w", id, err)
		}
		logger.Info().Msg("object deleted")
		r.publish(events.EventObjectDeleted, id, nil)
		return &Result{Changed: true, Action: action}, nil

	default:
		r.publish(events.EventObjectInSync, id, nil)
		result := &Result{Changed: false, Action: ActionNoOp}
		if existing != nil {
			result.Object = Serialize(existing)
		}
		return result, nil
	}
}

// reportDryRun mirrors execute's changed flag without touching the backend.
// Mutating actions report no object: the would-be result does not exist yet.
func (r *Reconciler) reportDryRun(id types.Identity, action Action, existing *types.RemoteObject) *Result {
	result := &Result{Changed: action != ActionNoOp, Action: action}
	if action == ActionNoOp && existing != nil {
		result.Object = Serialize(existing)
	}
	r.publish(events.EventDryRunSkipped, id, nil)
	return result
}

func (r *Reconciler) publish(t events.EventType, id types.Identity, fields []string) {
	if r.broker == nil {
		return
	}
	r.broker.Publish(&events.Event{Type: t, Identity: id, Fields: fields})
}

// applyChangeSet overlays desired values onto the observed attributes.
// Structured values merge key by key so that remote sub-fields the desired
// spec omitted survive the update. When the change-set sets a member of a
// mutual-exclusion group, the competing members are cleared: a variant
// switch must never leave both variants on the payload.
func applyChangeSet(attrs map[string]any, changes diff.ChangeSet, groups []diff.ExclusionGroup) {
	for field, value := range changes {
		dv, dok := value.(map[string]any)
		rv, rok := attrs[field].(map[string]any)
		if dok && rok {
			attrs[field] = mergeMaps(rv, dv)
			continue
		}
		attrs[field] = value
	}
	for _, group := range groups {
		stripSiblings(attrs, changes, group)
	}
}

// stripSiblings removes the unchosen members of one exclusion group from the
// merged payload. A group the change-set never touches is left alone, so an
// update editing unrelated fields preserves the remote variant.
func stripSiblings(attrs map[string]any, changes diff.ChangeSet, group diff.ExclusionGroup) {
	chosen := make(map[string]bool, len(group))
	for _, path := range group {
		if pathSet(changes, path) {
			chosen[path] = true
		}
	}
	if len(chosen) == 0 {
		return
	}
	for _, path := range group {
		if !chosen[path] {
			deletePath(attrs, path)
		}
	}
}

func pathSet(m map[string]any, path string) bool {
	head, rest, nested := strings.Cut(path, ".")
	v, ok := m[head]
	if !ok {
		return false
	}
	if !nested {
		return true
	}
	sub, ok := v.(map[string]any)
	return ok && pathSet(sub, rest)
}

func deletePath(m map[string]any, path string) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		delete(m, head)
		return
	}
	if sub, ok := m[head].(map[string]any); ok {
		deletePath(sub, rest)
	}
}

func mergeMaps(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if ov, ok := v.(map[string]any); ok {
			if bv, ok := out[k].(map[string]any); ok {
				out[k] = mergeMaps(bv, ov)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Serialize renders a remote object for callers: the stable id in its
// canonical string form, every other attribute passed through unchanged.
func Serialize(obj *types.RemoteObject) map[string]any {
	out := make(map[string]any, len(obj.Attrs)+1)
	for k, v := range obj.Attrs {
		out[k] = v
	}
	out["id"] = obj.ID.String()
	return out
}
