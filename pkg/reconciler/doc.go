/*
Package reconciler drives desired state into the configuration backend.

The reconciler package implements the single generic pipeline every resource
kind flows through. A caller hands it a Resource (the desired spec), a target
state, and a dry-run flag; the pipeline validates the spec, probes the backend
for the current object, diffs the two, and performs at most one mutation.

# Pipeline

Every reconcile call walks the same stages in order:

	┌────────────────── RECONCILE PIPELINE ──────────────────┐
	│                                                          │
	│  Validate ─► Resolve container ─► Probe backend          │
	│                                        │                 │
	│                              exists? ──┤                 │
	│                                        ▼                 │
	│                                   Diff (typed rules)     │
	│                                        │                 │
	│                                        ▼                 │
	│            Decide: create / update / delete / no-op      │
	│                                        │                 │
	│                         dry-run? ──────┤                 │
	│                             │          ▼                 │
	│                         report     Execute one call      │
	│                                        │                 │
	│                                        ▼                 │
	│                          Result {changed, object}        │
	│                                                          │
	└──────────────────────────────────────────────────────────┘

The decision table is fixed: a desired object that does not exist is created,
one that exists with no drift is left alone, drift triggers a full update, and
an absent target deletes only what exists. Validation failures stop the run
before any backend traffic.

# Resources

Resource is the per-kind plugin contract. A kind contributes its attribute
construction (Attrs), its mutual-exclusion rules (Validate), and its typed
comparison table (Rules); the pipeline owns everything else. The objects
package holds the seven implementations.

# Usage

	client, err := scm.Authenticate(ctx, creds)
	if err != nil {
		return err
	}
	rec := reconciler.New(client, reconciler.WithEvents(broker))
	result, err := rec.Reconcile(ctx, res, types.StatePresent, dryRun)

Results carry the changed flag and the object's final attributes, with the
backend id rendered in canonical string form.
*/
package reconciler
