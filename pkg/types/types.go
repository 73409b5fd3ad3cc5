package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ResourceKind identifies one of the configuration object types managed in
// Strata Cloud Manager.
type ResourceKind string

const (
	KindAddress          ResourceKind = "address"
	KindAddressGroup     ResourceKind = "address-group"
	KindApplication      ResourceKind = "application"
	KindApplicationGroup ResourceKind = "application-group"
	KindService          ResourceKind = "service"
	KindServiceGroup     ResourceKind = "service-group"
	KindTag              ResourceKind = "tag"
)

// Kinds lists every resource kind the engine knows about.
var Kinds = []ResourceKind{
	KindAddress,
	KindAddressGroup,
	KindApplication,
	KindApplicationGroup,
	KindService,
	KindServiceGroup,
	KindTag,
}

// State is the desired lifecycle intent for a resource.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// ParseState validates a lifecycle intent string.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePresent, StateAbsent:
		return State(s), nil
	}
	return "", fmt.Errorf("invalid state %q: must be %q or %q", s, StatePresent, StateAbsent)
}

// ContainerScope is the placement scope type a resource lives in.
type ContainerScope string

const (
	ScopeFolder  ContainerScope = "folder"
	ScopeSnippet ContainerScope = "snippet"
	ScopeDevice  ContainerScope = "device"
)

// ContainerRef is the single placement context of a resource. Exactly one
// scope applies per resource; construction goes through validate.ResolveContainer.
type ContainerRef struct {
	Scope ContainerScope
	Name  string
}

func (c ContainerRef) String() string {
	return string(c.Scope) + "/" + c.Name
}

// Identity uniquely addresses a remote object within its resource kind.
type Identity struct {
	Kind      ResourceKind
	Name      string
	Container ContainerRef
}

func (i Identity) String() string {
	return string(i.Kind) + "/" + i.Container.String() + "/" + i.Name
}

// RemoteObject is a point-in-time, read-only copy of an object as observed
// from the backend. The backend owns it; the engine never caches one across
// reconciliation runs.
type RemoteObject struct {
	ID    uuid.UUID
	Attrs map[string]any
}

// Clone returns a copy of the object with a fresh attribute map, so callers
// can overlay a change-set without mutating the observed state.
func (o *RemoteObject) Clone() *RemoteObject {
	attrs := make(map[string]any, len(o.Attrs))
	for k, v := range o.Attrs {
		attrs[k] = v
	}
	return &RemoteObject{ID: o.ID, Attrs: attrs}
}
