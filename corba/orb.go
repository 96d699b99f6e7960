package corba

import (
	"fmt"
	"sync"
)

// ORB represents the Object Request Broker which enables communication
// between objects in a distributed environment
type ORB struct {
	mu                  sync.RWMutex
	objectMap           map[string]interface{}
	isInitialized       bool
	defaultContext      *Context
	interceptorRegistry *InterceptorRegistry
	namingService       *NamingServiceServant
}

// NamingServiceName is the well-known object key of the naming service
const NamingServiceName = "NameService"

// Init initializes and returns a new ORB instance
func Init() *ORB {
	return &ORB{
		objectMap:           make(map[string]interface{}),
		isInitialized:       true,
		defaultContext:      NewContext(),
		interceptorRegistry: NewInterceptorRegistry(),
	}
}

// Shutdown terminates the ORB
func (orb *ORB) Shutdown(wait bool) {
	orb.mu.Lock()
	defer orb.mu.Unlock()

	orb.isInitialized = false
	orb.objectMap = make(map[string]interface{})
	orb.namingService = nil
}

// CreateClient creates a new CORBA client
func (orb *ORB) CreateClient() *Client {
	return &Client{
		orb: orb,
	}
}

// RegisterObject registers an object with the ORB
func (orb *ORB) RegisterObject(name string, obj interface{}) error {
	orb.mu.Lock()
	defer orb.mu.Unlock()

	if _, exists := orb.objectMap[name]; exists {
		return fmt.Errorf("object with name %s already registered", name)
	}

	orb.objectMap[name] = obj
	return nil
}

// ResolveObject retrieves an object from the ORB
func (orb *ORB) ResolveObject(name string) (interface{}, error) {
	orb.mu.RLock()
	defer orb.mu.RUnlock()

	obj, exists := orb.objectMap[name]
	if !exists {
		return nil, fmt.Errorf("object with name %s not found", name)
	}

	return obj, nil
}

// IsInitialized returns whether the ORB is initialized
func (orb *ORB) IsInitialized() bool {
	orb.mu.RLock()
	defer orb.mu.RUnlock()
	return orb.isInitialized
}

// GetDefaultContext returns the default context for the ORB
func (orb *ORB) GetDefaultContext() *Context {
	return orb.defaultContext
}

// ActivateNamingService initializes and registers the naming service with this ORB
func (orb *ORB) ActivateNamingService(server *Server) error {
	orb.mu.Lock()
	if orb.namingService != nil {
		orb.mu.Unlock()
		return fmt.Errorf("naming service is already active")
	}

	ns := NewNamingServiceServant(orb)
	orb.namingService = ns
	orb.mu.Unlock()

	if err := server.RegisterServant(NamingServiceName, ns); err != nil {
		orb.mu.Lock()
		orb.namingService = nil
		orb.mu.Unlock()
		return fmt.Errorf("failed to register naming service: %w", err)
	}

	return nil
}

// GetNamingService returns the naming service instance
func (orb *ORB) GetNamingService() (*NamingServiceServant, error) {
	orb.mu.RLock()
	defer orb.mu.RUnlock()

	if orb.namingService == nil {
		return nil, fmt.Errorf("naming service is not active")
	}

	return orb.namingService, nil
}

// ResolveNameService connects to a remote naming service
func (orb *ORB) ResolveNameService(host string, port int) (*NamingServiceClient, error) {
	return ConnectToNameService(orb, host, port)
}

// GetInterceptorRegistry returns the interceptor registry
func (orb *ORB) GetInterceptorRegistry() *InterceptorRegistry {
	return orb.interceptorRegistry
}

// RegisterClientRequestInterceptor registers a client request interceptor with the ORB
func (orb *ORB) RegisterClientRequestInterceptor(interceptor ClientRequestInterceptor) {
	orb.interceptorRegistry.RegisterClientRequestInterceptor(interceptor)
}

// RegisterServerRequestInterceptor registers a server request interceptor with the ORB
func (orb *ORB) RegisterServerRequestInterceptor(interceptor ServerRequestInterceptor) {
	orb.interceptorRegistry.RegisterServerRequestInterceptor(interceptor)
}
