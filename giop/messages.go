// Package giop implements the subset of the General Inter-ORB Protocol (GIOP)
// used by the hpp corbaserver: request/reply framing, locate requests and
// connection control, with CDR-encoded bodies.
package giop

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// GIOP message types
const (
	MsgRequest       = 0
	MsgReply         = 1
	MsgCancelRequest = 2
	MsgLocateRequest = 3
	MsgLocateReply   = 4
	MsgCloseConn     = 5
	MsgMessageError  = 6
	MsgFragment      = 7
)

// Reply status values
const (
	ReplyStatusNoException         = 0
	ReplyStatusUserException       = 1
	ReplyStatusSystemException     = 2
	ReplyStatusLocationForward     = 3
	ReplyStatusLocationForwardPerm = 4
	ReplyStatusNeedsAddressingMode = 5
)

// Locate reply status values
const (
	LocateStatusUnknownObject = 0
	LocateStatusObjectHere    = 1
	LocateStatusObjectForward = 2
)

// GIOP versions
var (
	GIOP_1_0 = [2]byte{1, 0}
	GIOP_1_2 = [2]byte{1, 2}
)

// Well-known service context IDs.
const (
	// ServiceContextException carries a marshalled exception in a reply.
	ServiceContextException uint32 = 0x45584350 // "EXCP"
	// ServiceContextTimestamp carries the request send time for correlation.
	ServiceContextTimestamp uint32 = 0x54534400 // "TSD"
)

// MessageHeader is the common 12-byte header for all GIOP messages
type MessageHeader struct {
	Magic   [4]byte // "GIOP"
	Version [2]byte // Major, Minor
	Flags   byte    // Endianness, fragments
	MsgType byte
	MsgSize uint32 // Size of the message body
}

// ServiceContext contains out-of-band information attached to a request or reply
type ServiceContext struct {
	ID   uint32
	Data []byte
}

// ServiceContextList is a sequence of service contexts
type ServiceContextList []ServiceContext

// RequestHeader contains the fields of a request message. Arguments holds the
// operation's positional parameters; they are encoded after the header as a
// tagged value list.
type RequestHeader struct {
	ServiceContexts  ServiceContextList
	RequestID        uint32
	ResponseExpected bool
	ObjectKey        []byte
	Operation        string
	Principal        []byte // Deprecated in GIOP 1.2+
	Arguments        []interface{}
}

// ReplyHeader contains the fields of a reply message. Result holds the
// operation's return value and is encoded after the header as a tagged value;
// it is nil for void operations and for exception replies.
type ReplyHeader struct {
	ServiceContexts ServiceContextList
	RequestID       uint32
	ReplyStatus     uint32
	Result          interface{}
}

// CancelRequestHeader contains fields specific to a cancel request message
type CancelRequestHeader struct {
	RequestID uint32
}

// LocateRequestHeader contains fields specific to a locate request message
type LocateRequestHeader struct {
	RequestID uint32
	ObjectKey []byte
}

// LocateReplyHeader contains fields specific to a locate reply message
type LocateReplyHeader struct {
	RequestID uint32
	Status    uint32
}

// Message represents a complete GIOP message with header and body
type Message struct {
	Header MessageHeader
	Body   interface{}
}

// NewMessageHeader creates a new GIOP message header
func NewMessageHeader(msgType byte, msgSize uint32) MessageHeader {
	return MessageHeader{
		Magic:   [4]byte{'G', 'I', 'O', 'P'},
		Version: GIOP_1_2,
		Flags:   0, // Big endian
		MsgType: msgType,
		MsgSize: msgSize,
	}
}

// NewRequestMessage creates a new GIOP request message carrying the given
// positional arguments.
func NewRequestMessage(requestID uint32, objectKey []byte, operation string, responseExpected bool, args ...interface{}) *Message {
	requestHeader := &RequestHeader{
		ServiceContexts:  make(ServiceContextList, 0),
		RequestID:        requestID,
		ResponseExpected: responseExpected,
		ObjectKey:        objectKey,
		Operation:        operation,
		Principal:        []byte{},
		Arguments:        args,
	}

	// Timestamp service context for correlation
	timestamp := time.Now().UnixNano()
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, timestamp)

	requestHeader.ServiceContexts = append(requestHeader.ServiceContexts, ServiceContext{
		ID:   ServiceContextTimestamp,
		Data: buf.Bytes(),
	})

	return &Message{
		Header: NewMessageHeader(MsgRequest, 0), // Size set during marshalling
		Body:   requestHeader,
	}
}

// NewReplyMessage creates a new GIOP reply message with the given result value.
func NewReplyMessage(requestID uint32, status uint32, result interface{}) *Message {
	replyHeader := &ReplyHeader{
		ServiceContexts: make(ServiceContextList, 0),
		RequestID:       requestID,
		ReplyStatus:     status,
		Result:          result,
	}

	return &Message{
		Header: NewMessageHeader(MsgReply, 0),
		Body:   replyHeader,
	}
}

// IsLittleEndian returns whether the message is encoded in little endian
func (h *MessageHeader) IsLittleEndian() bool {
	return (h.Flags & 0x01) == 1
}

// HasMoreFragments returns whether more fragments follow
func (h *MessageHeader) HasMoreFragments() bool {
	return (h.Flags & 0x02) == 2
}

// MaxMessageSize caps the declared body size of an incoming message. The
// size field is attacker-controlled and both peers allocate the body buffer
// before reading it.
const MaxMessageSize = 16 << 20

// Validate checks if the message header is valid
func (h *MessageHeader) Validate() error {
	if h.Magic != [4]byte{'G', 'I', 'O', 'P'} {
		return fmt.Errorf("invalid GIOP magic: %v", h.Magic)
	}

	if h.MsgType > MsgFragment {
		return fmt.Errorf("invalid message type: %d", h.MsgType)
	}

	if h.MsgSize > MaxMessageSize {
		return fmt.Errorf("message size %d exceeds limit %d", h.MsgSize, MaxMessageSize)
	}

	return nil
}
