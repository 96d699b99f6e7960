// Package corba provides the CORBA runtime used by the hpp corbaserver:
// ORB, client, server, naming service, interceptors and the OMG exception
// taxonomy.
package corba

import (
	"fmt"
	"strings"
)

// CompletionStatus indicates the status of an operation that raised an exception
type CompletionStatus int32

const (
	// CompletionStatusYes indicates the operation was completed
	CompletionStatusYes CompletionStatus = 0
	// CompletionStatusNo indicates the operation was not completed
	CompletionStatusNo CompletionStatus = 1
	// CompletionStatusMaybe indicates the operation completion status is unknown
	CompletionStatusMaybe CompletionStatus = 2
)

// Exception is the base interface for all CORBA exceptions
type Exception interface {
	error
	ID() string                  // Repository ID of this exception
	Name() string                // Name of this exception
	Minor() uint32               // Minor code for the exception
	Completed() CompletionStatus // Completion status of the operation
}

// SystemException represents a CORBA system exception
type SystemException struct {
	exceptionName  string
	minorCode      uint32
	completedValue CompletionStatus
}

// NewCORBASystemException creates a new CORBA system exception
func NewCORBASystemException(name string, minor uint32, completed CompletionStatus) *SystemException {
	return &SystemException{
		exceptionName:  name,
		minorCode:      minor,
		completedValue: completed,
	}
}

// Error implements the error interface for SystemException
func (e *SystemException) Error() string {
	return fmt.Sprintf("CORBA system exception: %s (minor code: %d, completion status: %v)",
		e.exceptionName, e.minorCode, e.completedValue)
}

// ID returns the repository ID of this system exception
func (e *SystemException) ID() string {
	return fmt.Sprintf("IDL:omg.org/CORBA/%s:1.0", e.exceptionName)
}

// Name returns the name of this system exception
func (e *SystemException) Name() string {
	return e.exceptionName
}

// Minor returns the minor code of this system exception
func (e *SystemException) Minor() uint32 {
	return e.minorCode
}

// Completed returns the completion status of the operation that raised this exception
func (e *SystemException) Completed() CompletionStatus {
	return e.completedValue
}

// UserException represents a CORBA user-defined exception. The hpp
// corbaserver raises a single user exception type, hpp::Error, whose one
// member is a message string.
type UserException struct {
	exceptionName string
	exceptionID   string
	message       string
}

// NewCORBAUserException creates a new CORBA user-defined exception
func NewCORBAUserException(name string, id string, message string) *UserException {
	return &UserException{
		exceptionName: name,
		exceptionID:   id,
		message:       message,
	}
}

// HppErrorID is the repository ID of the hpp::Error user exception.
const HppErrorID = "IDL:hpp/Error:1.0"

// HppError creates the hpp::Error user exception with a formatted message
func HppError(format string, args ...interface{}) *UserException {
	return NewCORBAUserException("Error", HppErrorID, fmt.Sprintf(format, args...))
}

// Error implements the error interface for UserException
func (e *UserException) Error() string {
	if e.message == "" {
		return fmt.Sprintf("CORBA user exception: %s (ID: %s)", e.exceptionName, e.exceptionID)
	}
	return fmt.Sprintf("CORBA user exception: %s: %s", e.exceptionName, e.message)
}

// ID returns the repository ID of this user exception
func (e *UserException) ID() string {
	return e.exceptionID
}

// Name returns the name of this user exception
func (e *UserException) Name() string {
	return e.exceptionName
}

// Message returns the message member of this user exception
func (e *UserException) Message() string {
	return e.message
}

// Minor returns the minor code of this user exception (always 0)
func (e *UserException) Minor() uint32 {
	return 0
}

// Completed returns the completion status of the operation that raised this exception (always No)
func (e *UserException) Completed() CompletionStatus {
	return CompletionStatusNo
}

// Standard CORBA system exceptions as defined in the CORBA specification
var (
	// UNKNOWN - The unknown exception
	UNKNOWN = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("UNKNOWN", minor, completed)
	}

	// BAD_PARAM - An invalid parameter was passed
	BAD_PARAM = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("BAD_PARAM", minor, completed)
	}

	// COMM_FAILURE - Communication failure
	COMM_FAILURE = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("COMM_FAILURE", minor, completed)
	}

	// INV_OBJREF - Invalid object reference
	INV_OBJREF = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("INV_OBJREF", minor, completed)
	}

	// INTERNAL - ORB internal error
	INTERNAL = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("INTERNAL", minor, completed)
	}

	// MARSHAL - Error marshalling parameter or result
	MARSHAL = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("MARSHAL", minor, completed)
	}

	// INITIALIZE - ORB initialization failure
	INITIALIZE = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("INITIALIZE", minor, completed)
	}

	// NO_IMPLEMENT - Operation implementation unavailable
	NO_IMPLEMENT = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("NO_IMPLEMENT", minor, completed)
	}

	// BAD_OPERATION - Invalid operation
	BAD_OPERATION = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("BAD_OPERATION", minor, completed)
	}

	// BAD_INV_ORDER - Routine invocations out of order
	BAD_INV_ORDER = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("BAD_INV_ORDER", minor, completed)
	}

	// TRANSIENT - Transient failure, reissue request
	TRANSIENT = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("TRANSIENT", minor, completed)
	}

	// OBJ_ADAPTER - Failure detected by object adapter
	OBJ_ADAPTER = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("OBJ_ADAPTER", minor, completed)
	}

	// DATA_CONVERSION - Data conversion error
	DATA_CONVERSION = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("DATA_CONVERSION", minor, completed)
	}

	// OBJECT_NOT_EXIST - Non-existent object, delete reference
	OBJECT_NOT_EXIST = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("OBJECT_NOT_EXIST", minor, completed)
	}

	// TIMEOUT - Operation timed out
	TIMEOUT = func(minor uint32, completed CompletionStatus) *SystemException {
		return NewCORBASystemException("TIMEOUT", minor, completed)
	}
)

// IsSystemException checks if an error is a CORBA system exception
func IsSystemException(err error) bool {
	_, ok := err.(*SystemException)
	return ok
}

// IsUserException checks if an error is a CORBA user exception
func IsUserException(err error) bool {
	_, ok := err.(*UserException)
	return ok
}

// IsException checks if an error is a CORBA exception (system or user)
func IsException(err error) bool {
	return IsSystemException(err) || IsUserException(err)
}

// MarshalException serializes an exception for the EXCP service context.
// Format: "SYSTEM:<name>:<minor>:<completed>" or "USER:<id>:<name>:<message>".
func MarshalException(ex Exception) ([]byte, error) {
	switch e := ex.(type) {
	case *SystemException:
		return []byte(fmt.Sprintf("SYSTEM:%s:%d:%d", e.Name(), e.Minor(), e.Completed())), nil
	case *UserException:
		return []byte(fmt.Sprintf("USER:%s:%s:%s", e.ID(), e.Name(), e.Message())), nil
	default:
		return nil, fmt.Errorf("unsupported exception type: %T", ex)
	}
}

// UnmarshalException deserializes an exception from the EXCP service context
func UnmarshalException(data []byte) (Exception, error) {
	payload := string(data)

	switch {
	case strings.HasPrefix(payload, "SYSTEM:"):
		parts := strings.SplitN(payload, ":", 4)
		if len(parts) < 4 {
			return nil, fmt.Errorf("invalid system exception data format")
		}

		var minor uint32
		if _, err := fmt.Sscanf(parts[2], "%d", &minor); err != nil {
			return nil, fmt.Errorf("invalid minor code %q: %w", parts[2], err)
		}

		var completed int32
		if _, err := fmt.Sscanf(parts[3], "%d", &completed); err != nil {
			return nil, fmt.Errorf("invalid completion status %q: %w", parts[3], err)
		}

		return NewCORBASystemException(parts[1], minor, CompletionStatus(completed)), nil

	case strings.HasPrefix(payload, "USER:"):
		parts := strings.SplitN(payload, ":", 4)
		if len(parts) < 4 {
			return nil, fmt.Errorf("invalid user exception data format")
		}

		// The repository ID itself contains colons ("IDL:hpp/Error:1.0"), so
		// re-split around the name component.
		rest := payload[len("USER:"):]
		name := ""
		message := ""
		id := rest
		if idx := strings.Index(rest, ":1.0:"); idx >= 0 {
			id = rest[:idx+len(":1.0")]
			tail := rest[idx+len(":1.0:"):]
			nameAndMsg := strings.SplitN(tail, ":", 2)
			name = nameAndMsg[0]
			if len(nameAndMsg) > 1 {
				message = nameAndMsg[1]
			}
		}

		return NewCORBAUserException(name, id, message), nil

	default:
		return nil, fmt.Errorf("unknown exception encoding: %q", payload)
	}
}

// ThrowableToException converts a Go error or panic value to a CORBA
// exception. Plain errors returned by servants become hpp::Error user
// exceptions so their message survives the wire.
func ThrowableToException(err interface{}) Exception {
	switch e := err.(type) {
	case nil:
		return nil
	case Exception:
		return e
	case error:
		return HppError("%s", e.Error())
	default:
		return UNKNOWN(0, CompletionStatusNo)
	}
}

// SafeInvoke invokes a function and converts any error or panic to an exception
func SafeInvoke(fn func() (interface{}, error)) (interface{}, Exception) {
	var ex Exception
	var result interface{}

	func() {
		defer func() {
			if r := recover(); r != nil {
				ex = ThrowableToException(r)
			}
		}()

		var err error
		result, err = fn()
		if err != nil {
			ex = ThrowableToException(err)
			result = nil
		}
	}()

	return result, ex
}
