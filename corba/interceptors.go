package corba

import (
	"sync"

	"github.com/rs/zerolog"
)

// RequestInfo provides information about a request to interceptors
type RequestInfo struct {
	// The operation being invoked
	Operation string
	// The object key for the target object
	ObjectKey string
	// Arguments for the operation
	Arguments []interface{}
	// Result of the operation
	Result interface{}
	// Any exception that occurred
	Exception Exception
	// The service contexts associated with the request
	ServiceContexts []ServiceContext
	// Request ID
	RequestID uint32
	// Whether a reply is expected
	ResponseExpected bool
}

// ServiceContext represents a service context entry
type ServiceContext struct {
	ID   uint32
	Data []byte
}

// ServerRequestInterceptor is invoked during server-side request processing
type ServerRequestInterceptor interface {
	// Name returns the name of the interceptor
	Name() string

	// ReceiveRequest is called before the servant operation is invoked
	ReceiveRequest(info *RequestInfo) error

	// SendReply is called after the servant operation returns
	SendReply(info *RequestInfo) error

	// SendException is called if the operation raises an exception
	SendException(info *RequestInfo, ex Exception) error
}

// ClientRequestInterceptor is invoked during client-side request processing
type ClientRequestInterceptor interface {
	// Name returns the name of the interceptor
	Name() string

	// SendRequest is called before the request is sent to the server
	SendRequest(info *RequestInfo) error

	// ReceiveReply is called after a normal reply is received
	ReceiveReply(info *RequestInfo) error

	// ReceiveException is called if an exception is received
	ReceiveException(info *RequestInfo, ex Exception) error

	// ReceiveOther is called for other outcomes (location forward, etc.)
	ReceiveOther(info *RequestInfo) error
}

// InterceptorRegistry holds the interceptors registered with an ORB
type InterceptorRegistry struct {
	mu                 sync.RWMutex
	clientInterceptors []ClientRequestInterceptor
	serverInterceptors []ServerRequestInterceptor
}

// NewInterceptorRegistry creates a new interceptor registry
func NewInterceptorRegistry() *InterceptorRegistry {
	return &InterceptorRegistry{}
}

// RegisterClientRequestInterceptor registers a client request interceptor
func (r *InterceptorRegistry) RegisterClientRequestInterceptor(interceptor ClientRequestInterceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clientInterceptors = append(r.clientInterceptors, interceptor)
}

// RegisterServerRequestInterceptor registers a server request interceptor
func (r *InterceptorRegistry) RegisterServerRequestInterceptor(interceptor ServerRequestInterceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serverInterceptors = append(r.serverInterceptors, interceptor)
}

// GetClientRequestInterceptors returns the registered client request interceptors
func (r *InterceptorRegistry) GetClientRequestInterceptors() []ClientRequestInterceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ClientRequestInterceptor(nil), r.clientInterceptors...)
}

// GetServerRequestInterceptors returns the registered server request interceptors
func (r *InterceptorRegistry) GetServerRequestInterceptors() []ServerRequestInterceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ServerRequestInterceptor(nil), r.serverInterceptors...)
}

// LoggingInterceptor logs requests and replies on both sides of the wire.
type LoggingInterceptor struct {
	log zerolog.Logger
}

// NewLoggingInterceptor creates a logging interceptor writing to the given logger
func NewLoggingInterceptor(log zerolog.Logger) *LoggingInterceptor {
	return &LoggingInterceptor{log: log}
}

// Name returns the name of the interceptor
func (l *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// SendRequest logs an outgoing request
func (l *LoggingInterceptor) SendRequest(info *RequestInfo) error {
	l.log.Debug().
		Uint32("request_id", info.RequestID).
		Str("object", info.ObjectKey).
		Str("operation", info.Operation).
		Int("args", len(info.Arguments)).
		Msg("sending request")
	return nil
}

// ReceiveReply logs an incoming reply
func (l *LoggingInterceptor) ReceiveReply(info *RequestInfo) error {
	l.log.Debug().
		Uint32("request_id", info.RequestID).
		Str("operation", info.Operation).
		Msg("received reply")
	return nil
}

// ReceiveException logs an incoming exception reply
func (l *LoggingInterceptor) ReceiveException(info *RequestInfo, ex Exception) error {
	l.log.Warn().
		Uint32("request_id", info.RequestID).
		Str("operation", info.Operation).
		Str("exception", ex.Name()).
		Msg("received exception")
	return nil
}

// ReceiveOther logs any other reply outcome
func (l *LoggingInterceptor) ReceiveOther(info *RequestInfo) error {
	l.log.Debug().
		Uint32("request_id", info.RequestID).
		Str("operation", info.Operation).
		Msg("received non-reply outcome")
	return nil
}

// ReceiveRequest logs an incoming request on the server side
func (l *LoggingInterceptor) ReceiveRequest(info *RequestInfo) error {
	l.log.Debug().
		Uint32("request_id", info.RequestID).
		Str("object", info.ObjectKey).
		Str("operation", info.Operation).
		Msg("dispatching request")
	return nil
}

// SendReply logs an outgoing reply on the server side
func (l *LoggingInterceptor) SendReply(info *RequestInfo) error {
	l.log.Debug().
		Uint32("request_id", info.RequestID).
		Str("operation", info.Operation).
		Msg("sending reply")
	return nil
}

// SendException logs an outgoing exception reply on the server side
func (l *LoggingInterceptor) SendException(info *RequestInfo, ex Exception) error {
	l.log.Warn().
		Uint32("request_id", info.RequestID).
		Str("operation", info.Operation).
		Str("exception", ex.Name()).
		Msg("sending exception")
	return nil
}
