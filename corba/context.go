package corba

import (
	"sync"
)

// Context represents a CORBA context that contains a collection of properties
type Context struct {
	mu         sync.RWMutex
	properties map[string]interface{}
	parent     *Context
}

// NewContext creates a new CORBA context
func NewContext() *Context {
	return &Context{
		properties: make(map[string]interface{}),
	}
}

// SetParent sets the parent context
func (c *Context) SetParent(parent *Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parent = parent
}

// GetParent returns the parent context
func (c *Context) GetParent() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parent
}

// Set adds or updates a property in the context
func (c *Context) Set(name string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties[name] = value
}

// Get retrieves a property from the context, falling back to the parent chain
func (c *Context) Get(name string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if val, exists := c.properties[name]; exists {
		return val, true
	}

	if c.parent != nil {
		return c.parent.Get(name)
	}

	return nil, false
}

// GetAll returns all properties from this context and its parent contexts
func (c *Context) GetAll() map[string]interface{} {
	result := make(map[string]interface{})

	if c.parent != nil {
		for k, v := range c.parent.GetAll() {
			result[k] = v
		}
	}

	c.mu.RLock()
	for k, v := range c.properties {
		result[k] = v
	}
	c.mu.RUnlock()

	return result
}

// ObjectRef represents a reference to a remote CORBA object
type ObjectRef struct {
	Name       string
	ServerHost string
	ServerPort int
	client     *Client
	typeID     string // Repository ID of the referenced interface
}

// Invoke calls a method on the referenced object using GIOP/IIOP
func (ref *ObjectRef) Invoke(methodName string, args ...interface{}) (interface{}, error) {
	if ref == nil || ref.client == nil {
		return nil, OBJECT_NOT_EXIST(0, CompletionStatusNo)
	}

	return ref.client.InvokeMethod(ref.Name, methodName, ref.ServerHost, ref.ServerPort, args...)
}

// IsNil checks if this is a nil object reference
func (ref *ObjectRef) IsNil() bool {
	return ref == nil || ref.Name == ""
}

// Equals checks if two object references point to the same object
func (ref *ObjectRef) Equals(other *ObjectRef) bool {
	if ref == nil || other == nil {
		return ref == other
	}

	return ref.Name == other.Name &&
		ref.ServerHost == other.ServerHost &&
		ref.ServerPort == other.ServerPort
}

// GetTypeID returns the repository ID of the referenced interface
func (ref *ObjectRef) GetTypeID() string {
	return ref.typeID
}

// SetTypeID sets the repository ID of the referenced interface
func (ref *ObjectRef) SetTypeID(typeID string) {
	ref.typeID = typeID
}
