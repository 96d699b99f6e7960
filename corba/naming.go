package corba

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Common naming service errors
var (
	ErrNameNotFound      = errors.New("name not found")
	ErrNameAlreadyBound  = errors.New("name already bound")
	ErrInvalidNameFormat = errors.New("invalid name format")
)

// NameComponent represents a single component in a CORBA name
type NameComponent struct {
	ID   string
	Kind string
}

// String returns a string representation of the name component
func (nc NameComponent) String() string {
	if nc.Kind == "" {
		return nc.ID
	}
	return fmt.Sprintf("%s.%s", nc.ID, nc.Kind)
}

// Name is a sequence of name components forming a CORBA name path
type Name []NameComponent

// String returns a string representation of the name
func (n Name) String() string {
	parts := make([]string, len(n))
	for i, nc := range n {
		parts[i] = nc.String()
	}
	return strings.Join(parts, "/")
}

// ParseName parses a string into a CORBA Name.
// Format: "id1.kind1/id2.kind2"; kind is optional.
func ParseName(s string) (Name, error) {
	if s == "" {
		return nil, ErrInvalidNameFormat
	}

	components := strings.Split(s, "/")
	result := make(Name, 0, len(components))

	for _, comp := range components {
		if comp == "" {
			continue
		}

		parts := strings.SplitN(comp, ".", 2)
		nc := NameComponent{ID: parts[0]}
		if len(parts) > 1 {
			nc.Kind = parts[1]
		}
		result = append(result, nc)
	}

	if len(result) == 0 {
		return nil, ErrInvalidNameFormat
	}
	return result, nil
}

// Binding represents a name-to-object binding in the naming service. The
// bound value is the object key the name resolves to, which a client turns
// back into an object reference.
type Binding struct {
	Name      Name
	ObjectKey string
}

// NamingContext holds name bindings. Bindings are stored against the full
// name path; the hpp corbaserver uses a flat namespace ("hpp/robots" style
// paths) rather than a tree of sub-contexts.
type NamingContext struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
	orb      *ORB
	id       string
}

// NewNamingContext creates a new naming context
func NewNamingContext(orb *ORB, id string) *NamingContext {
	return &NamingContext{
		bindings: make(map[string]*Binding),
		orb:      orb,
		id:       id,
	}
}

// Bind associates a name with an object key in this context
func (nc *NamingContext) Bind(name Name, objectKey string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	key := name.String()
	if _, exists := nc.bindings[key]; exists {
		return ErrNameAlreadyBound
	}

	nc.bindings[key] = &Binding{Name: name, ObjectKey: objectKey}
	return nil
}

// Rebind binds a name to an object key, replacing any existing binding
func (nc *NamingContext) Rebind(name Name, objectKey string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.bindings[name.String()] = &Binding{Name: name, ObjectKey: objectKey}
	return nil
}

// Resolve returns the object key bound to the given name
func (nc *NamingContext) Resolve(name Name) (string, error) {
	nc.mu.RLock()
	defer nc.mu.RUnlock()

	binding, exists := nc.bindings[name.String()]
	if !exists {
		return "", ErrNameNotFound
	}
	return binding.ObjectKey, nil
}

// Unbind removes the binding for the given name
func (nc *NamingContext) Unbind(name Name) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	key := name.String()
	if _, exists := nc.bindings[key]; !exists {
		return ErrNameNotFound
	}

	delete(nc.bindings, key)
	return nil
}

// List returns all bound names in this context, sorted
func (nc *NamingContext) List() []string {
	nc.mu.RLock()
	defer nc.mu.RUnlock()

	names := make([]string, 0, len(nc.bindings))
	for key := range nc.bindings {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// NamingServiceServant is the CORBA servant implementing the naming service
type NamingServiceServant struct {
	rootContext *NamingContext
}

// NewNamingServiceServant creates a new naming service servant
func NewNamingServiceServant(orb *ORB) *NamingServiceServant {
	return &NamingServiceServant{
		rootContext: NewNamingContext(orb, NamingServiceName),
	}
}

// GetRootContext returns the root naming context
func (ns *NamingServiceServant) GetRootContext() *NamingContext {
	return ns.rootContext
}

// Dispatch handles incoming CORBA method calls to the naming service
func (ns *NamingServiceServant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	case "bind", "rebind":
		if len(args) < 2 {
			return nil, fmt.Errorf("%s requires 2 arguments", methodName)
		}

		name, err := nameArg(args[0])
		if err != nil {
			return nil, err
		}

		objectKey, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("%s: object key must be a string, got %T", methodName, args[1])
		}

		if methodName == "bind" {
			return nil, ns.rootContext.Bind(name, objectKey)
		}
		return nil, ns.rootContext.Rebind(name, objectKey)

	case "resolve":
		if len(args) < 1 {
			return nil, fmt.Errorf("resolve requires 1 argument")
		}

		name, err := nameArg(args[0])
		if err != nil {
			return nil, err
		}

		return ns.rootContext.Resolve(name)

	case "unbind":
		if len(args) < 1 {
			return nil, fmt.Errorf("unbind requires 1 argument")
		}

		name, err := nameArg(args[0])
		if err != nil {
			return nil, err
		}

		return nil, ns.rootContext.Unbind(name)

	case "list":
		return ns.rootContext.List(), nil

	default:
		return nil, fmt.Errorf("method %s not supported by naming service", methodName)
	}
}

// nameArg converts a wire argument to a Name
func nameArg(arg interface{}) (Name, error) {
	switch n := arg.(type) {
	case Name:
		return n, nil
	case string:
		return ParseName(n)
	default:
		return nil, ErrInvalidNameFormat
	}
}

// NamingServiceClient provides a client interface to the naming service
type NamingServiceClient struct {
	client     *Client
	objectRef  *ObjectRef
	serverHost string
	serverPort int
}

// ConnectToNameService connects to a naming service at the given host and port
func ConnectToNameService(orb *ORB, host string, port int) (*NamingServiceClient, error) {
	client := orb.CreateClient()

	if err := client.Connect(host, port); err != nil {
		return nil, fmt.Errorf("failed to connect to naming service: %w", err)
	}

	objRef, err := client.GetObject(NamingServiceName, host, port)
	if err != nil {
		client.Disconnect(host, port)
		return nil, fmt.Errorf("failed to get naming service reference: %w", err)
	}

	return &NamingServiceClient{
		client:     client,
		objectRef:  objRef,
		serverHost: host,
		serverPort: port,
	}, nil
}

// Bind associates a name with an object key in the naming service
func (nsc *NamingServiceClient) Bind(name string, objectKey string) error {
	_, err := nsc.objectRef.Invoke("bind", name, objectKey)
	return err
}

// Rebind binds a name to an object key, replacing any existing binding
func (nsc *NamingServiceClient) Rebind(name string, objectKey string) error {
	_, err := nsc.objectRef.Invoke("rebind", name, objectKey)
	return err
}

// Resolve returns a reference to the object bound to the given name
func (nsc *NamingServiceClient) Resolve(name string) (*ObjectRef, error) {
	result, err := nsc.objectRef.Invoke("resolve", name)
	if err != nil {
		return nil, err
	}

	objectKey, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("naming service returned %T, expected object key", result)
	}

	return nsc.client.GetObject(objectKey, nsc.serverHost, nsc.serverPort)
}

// Unbind removes the binding for the given name
func (nsc *NamingServiceClient) Unbind(name string) error {
	_, err := nsc.objectRef.Invoke("unbind", name)
	return err
}

// List returns all names bound in the naming service
func (nsc *NamingServiceClient) List() ([]string, error) {
	result, err := nsc.objectRef.Invoke("list")
	if err != nil {
		return nil, err
	}

	names, ok := result.([]string)
	if !ok {
		return nil, fmt.Errorf("naming service returned %T, expected name list", result)
	}
	return names, nil
}
