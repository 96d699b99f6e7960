package idl

import (
	"fmt"
	"sync"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/corba"
)

// Repository stores IDL type information keyed by repository ID. Generated
// helpers register their interfaces here so servers can answer type queries.
type Repository struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRepository creates a new interface repository
func NewRepository() *Repository {
	return &Repository{
		types: make(map[string]Type),
	}
}

// Register adds a type to the repository
func (r *Repository) Register(id string, t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[id] = t
}

// Get retrieves a type from the repository
func (r *Repository) Get(id string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// IDs returns all registered repository IDs
func (r *Repository) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	return ids
}

// Helper is the interface implemented by generated helper types
type Helper interface {
	// ID returns the repository ID for the type
	ID() string
}

// ServantBase is an embeddable base for hand-written servants that want
// function-valued dispatch
type ServantBase struct {
	dispatcher func(methodName string, args []interface{}) (interface{}, error)
}

// SetDispatcher sets the function that handles method dispatching
func (s *ServantBase) SetDispatcher(dispatcher func(methodName string, args []interface{}) (interface{}, error)) {
	s.dispatcher = dispatcher
}

// Dispatch dispatches a method call to the configured dispatcher
func (s *ServantBase) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	if s.dispatcher == nil {
		return nil, fmt.Errorf("no dispatcher set for servant")
	}
	return s.dispatcher(methodName, args)
}

// Register registers a servant with the ORB under the given object name
func Register(orb *corba.ORB, objectName string, servant corba.Servant) error {
	return orb.RegisterObject(objectName, servant)
}
