package giop

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// CDR alignment sizes
const (
	Align1 = 1 // 8-bit types: octet, boolean, char
	Align2 = 2 // 16-bit types: short, unsigned short
	Align4 = 4 // 32-bit types: long, unsigned long, float
	Align8 = 8 // 64-bit types: long long, unsigned long long, double
)

// Tags for the value encoding used in request and reply bodies. CDR proper
// encodes values against an IDL signature known to both peers; the hpp
// corbaserver operations are invoked positionally, so each value is prefixed
// with a one-octet tag describing its wire form.
const (
	tagVoid      = 0x00
	tagBool      = 0x01
	tagLongLong  = 0x02
	tagDouble    = 0x03
	tagString    = 0x04
	tagDoubleSeq = 0x05
	tagStringSeq = 0x06
	tagOctetSeq  = 0x07
	tagValueSeq  = 0x08
)

// CDRMarshaller marshals data into CDR format
type CDRMarshaller struct {
	buffer    *bytes.Buffer
	byteOrder binary.ByteOrder
	position  int
}

// NewCDRMarshaller creates a new CDR marshaller with the specified byte order
func NewCDRMarshaller(byteOrder binary.ByteOrder) *CDRMarshaller {
	return &CDRMarshaller{
		buffer:    new(bytes.Buffer),
		byteOrder: byteOrder,
	}
}

// Bytes returns the marshalled bytes
func (m *CDRMarshaller) Bytes() []byte {
	return m.buffer.Bytes()
}

// Size returns the current size of the marshalled data
func (m *CDRMarshaller) Size() int {
	return m.position
}

// align pads the buffer to the specified boundary
func (m *CDRMarshaller) align(alignment int) {
	if alignment <= 1 {
		return
	}

	padding := (alignment - (m.position % alignment)) % alignment
	if padding > 0 {
		m.buffer.Write(make([]byte, padding))
		m.position += padding
	}
}

func (m *CDRMarshaller) writeRaw(b []byte) {
	m.buffer.Write(b)
	m.position += len(b)
}

// WriteBool writes a boolean value
func (m *CDRMarshaller) WriteBool(value bool) {
	var b byte
	if value {
		b = 1
	}
	m.WriteOctet(b)
}

// WriteOctet writes a byte value
func (m *CDRMarshaller) WriteOctet(value byte) {
	m.buffer.WriteByte(value)
	m.position++
}

// WriteUShort writes a 16-bit unsigned integer value
func (m *CDRMarshaller) WriteUShort(value uint16) {
	m.align(Align2)
	buf := make([]byte, 2)
	m.byteOrder.PutUint16(buf, value)
	m.writeRaw(buf)
}

// WriteShort writes a 16-bit integer value
func (m *CDRMarshaller) WriteShort(value int16) {
	m.WriteUShort(uint16(value))
}

// WriteULong writes a 32-bit unsigned integer value
func (m *CDRMarshaller) WriteULong(value uint32) {
	m.align(Align4)
	buf := make([]byte, 4)
	m.byteOrder.PutUint32(buf, value)
	m.writeRaw(buf)
}

// WriteLong writes a 32-bit integer value
func (m *CDRMarshaller) WriteLong(value int32) {
	m.WriteULong(uint32(value))
}

// WriteULongLong writes a 64-bit unsigned integer value
func (m *CDRMarshaller) WriteULongLong(value uint64) {
	m.align(Align8)
	buf := make([]byte, 8)
	m.byteOrder.PutUint64(buf, value)
	m.writeRaw(buf)
}

// WriteLongLong writes a 64-bit integer value
func (m *CDRMarshaller) WriteLongLong(value int64) {
	m.WriteULongLong(uint64(value))
}

// WriteFloat writes a 32-bit floating point value
func (m *CDRMarshaller) WriteFloat(value float32) {
	m.WriteULong(math.Float32bits(value))
}

// WriteDouble writes a 64-bit floating point value
func (m *CDRMarshaller) WriteDouble(value float64) {
	m.WriteULongLong(math.Float64bits(value))
}

// WriteString writes a string value with its NUL terminator
func (m *CDRMarshaller) WriteString(value string) {
	m.WriteULong(uint32(len(value) + 1))
	m.writeRaw([]byte(value))
	m.WriteOctet(0)
}

// WriteOctetSequence writes a length-prefixed sequence of bytes
func (m *CDRMarshaller) WriteOctetSequence(value []byte) {
	m.WriteULong(uint32(len(value)))
	m.writeRaw(value)
}

// WriteDoubleSequence writes a length-prefixed sequence of doubles
func (m *CDRMarshaller) WriteDoubleSequence(value []float64) {
	m.WriteULong(uint32(len(value)))
	for _, v := range value {
		m.WriteDouble(v)
	}
}

// WriteStringSequence writes a length-prefixed sequence of strings
func (m *CDRMarshaller) WriteStringSequence(value []string) {
	m.WriteULong(uint32(len(value)))
	for _, v := range value {
		m.WriteString(v)
	}
}

// WriteServiceContext writes a service context
func (m *CDRMarshaller) WriteServiceContext(ctx ServiceContext) {
	m.WriteULong(ctx.ID)
	m.WriteOctetSequence(ctx.Data)
}

// WriteServiceContextList writes a list of service contexts
func (m *CDRMarshaller) WriteServiceContextList(contexts ServiceContextList) {
	m.WriteULong(uint32(len(contexts)))
	for _, ctx := range contexts {
		m.WriteServiceContext(ctx)
	}
}

// WriteMessageHeader writes a GIOP message header
func (m *CDRMarshaller) WriteMessageHeader(header MessageHeader) {
	m.writeRaw(header.Magic[:])
	m.writeRaw(header.Version[:])
	m.WriteOctet(header.Flags)
	m.WriteOctet(header.MsgType)

	buf := make([]byte, 4)
	m.byteOrder.PutUint32(buf, header.MsgSize)
	m.writeRaw(buf)
}

// WriteRequestHeader writes a GIOP request header (not including arguments)
func (m *CDRMarshaller) WriteRequestHeader(header *RequestHeader) {
	m.WriteServiceContextList(header.ServiceContexts)
	m.WriteULong(header.RequestID)
	m.WriteBool(header.ResponseExpected)
	m.writeRaw([]byte{0, 0, 0}) // Reserved
	m.WriteOctetSequence(header.ObjectKey)
	m.WriteString(header.Operation)
	m.WriteOctetSequence(header.Principal)
}

// WriteReplyHeader writes a GIOP reply header (not including the result)
func (m *CDRMarshaller) WriteReplyHeader(header *ReplyHeader) {
	m.WriteServiceContextList(header.ServiceContexts)
	m.WriteULong(header.RequestID)
	m.WriteULong(header.ReplyStatus)
}

// WriteValue writes a single tagged value. Integers are normalized to long
// long and float32 to double before encoding, so the receiver sees a small
// closed set of wire forms.
func (m *CDRMarshaller) WriteValue(value interface{}) error {
	switch v := value.(type) {
	case nil:
		m.WriteOctet(tagVoid)
	case bool:
		m.WriteOctet(tagBool)
		m.WriteBool(v)
	case int:
		m.WriteOctet(tagLongLong)
		m.WriteLongLong(int64(v))
	case int32:
		m.WriteOctet(tagLongLong)
		m.WriteLongLong(int64(v))
	case int64:
		m.WriteOctet(tagLongLong)
		m.WriteLongLong(v)
	case uint32:
		m.WriteOctet(tagLongLong)
		m.WriteLongLong(int64(v))
	case float32:
		m.WriteOctet(tagDouble)
		m.WriteDouble(float64(v))
	case float64:
		m.WriteOctet(tagDouble)
		m.WriteDouble(v)
	case string:
		m.WriteOctet(tagString)
		m.WriteString(v)
	case []float64:
		m.WriteOctet(tagDoubleSeq)
		m.WriteDoubleSequence(v)
	case []string:
		m.WriteOctet(tagStringSeq)
		m.WriteStringSequence(v)
	case []byte:
		m.WriteOctet(tagOctetSeq)
		m.WriteOctetSequence(v)
	case []interface{}:
		m.WriteOctet(tagValueSeq)
		m.WriteULong(uint32(len(v)))
		for _, elem := range v {
			if err := m.WriteValue(elem); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported type for marshalling: %T", value)
	}

	return nil
}

// WriteValueList writes a length-prefixed list of tagged values
func (m *CDRMarshaller) WriteValueList(values []interface{}) error {
	m.WriteULong(uint32(len(values)))
	for _, v := range values {
		if err := m.WriteValue(v); err != nil {
			return err
		}
	}
	return nil
}

// CDRUnmarshaller unmarshals data from CDR format
type CDRUnmarshaller struct {
	reader    *bytes.Reader
	byteOrder binary.ByteOrder
	position  int
}

// NewCDRUnmarshaller creates a new CDR unmarshaller with the specified byte order
func NewCDRUnmarshaller(data []byte, byteOrder binary.ByteOrder) *CDRUnmarshaller {
	return &CDRUnmarshaller{
		reader:    bytes.NewReader(data),
		byteOrder: byteOrder,
	}
}

// align skips padding up to the specified boundary
func (u *CDRUnmarshaller) align(alignment int) {
	if alignment <= 1 {
		return
	}

	padding := (alignment - (u.position % alignment)) % alignment
	if padding > 0 {
		if _, err := u.reader.Seek(int64(padding), io.SeekCurrent); err == nil {
			u.position += padding
		}
	}
}

func (u *CDRUnmarshaller) readRaw(n int) ([]byte, error) {
	if n < 0 || n > u.reader.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(u.reader, buf); err != nil {
		return nil, err
	}
	u.position += n
	return buf, nil
}

// ReadOctet reads a byte value
func (u *CDRUnmarshaller) ReadOctet() (byte, error) {
	b, err := u.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	u.position++
	return b, nil
}

// ReadBool reads a boolean value
func (u *CDRUnmarshaller) ReadBool() (bool, error) {
	b, err := u.ReadOctet()
	return b != 0, err
}

// ReadUShort reads a 16-bit unsigned integer value
func (u *CDRUnmarshaller) ReadUShort() (uint16, error) {
	u.align(Align2)
	buf, err := u.readRaw(2)
	if err != nil {
		return 0, err
	}
	return u.byteOrder.Uint16(buf), nil
}

// ReadShort reads a 16-bit integer value
func (u *CDRUnmarshaller) ReadShort() (int16, error) {
	v, err := u.ReadUShort()
	return int16(v), err
}

// ReadULong reads a 32-bit unsigned integer value
func (u *CDRUnmarshaller) ReadULong() (uint32, error) {
	u.align(Align4)
	buf, err := u.readRaw(4)
	if err != nil {
		return 0, err
	}
	return u.byteOrder.Uint32(buf), nil
}

// ReadLong reads a 32-bit integer value
func (u *CDRUnmarshaller) ReadLong() (int32, error) {
	v, err := u.ReadULong()
	return int32(v), err
}

// ReadULongLong reads a 64-bit unsigned integer value
func (u *CDRUnmarshaller) ReadULongLong() (uint64, error) {
	u.align(Align8)
	buf, err := u.readRaw(8)
	if err != nil {
		return 0, err
	}
	return u.byteOrder.Uint64(buf), nil
}

// ReadLongLong reads a 64-bit integer value
func (u *CDRUnmarshaller) ReadLongLong() (int64, error) {
	v, err := u.ReadULongLong()
	return int64(v), err
}

// ReadFloat reads a 32-bit floating point value
func (u *CDRUnmarshaller) ReadFloat() (float32, error) {
	v, err := u.ReadULong()
	return math.Float32frombits(v), err
}

// ReadDouble reads a 64-bit floating point value
func (u *CDRUnmarshaller) ReadDouble() (float64, error) {
	v, err := u.ReadULongLong()
	return math.Float64frombits(v), err
}

// ReadString reads a string value
func (u *CDRUnmarshaller) ReadString() (string, error) {
	// Length includes the NUL terminator
	length, err := u.ReadULong()
	if err != nil {
		return "", err
	}

	if length == 0 {
		return "", nil
	}

	buf, err := u.readRaw(int(length - 1))
	if err != nil {
		return "", err
	}

	if _, err := u.ReadOctet(); err != nil { // NUL
		return "", err
	}

	return string(buf), nil
}

// ReadOctetSequence reads a length-prefixed sequence of bytes
func (u *CDRUnmarshaller) ReadOctetSequence() ([]byte, error) {
	length, err := u.ReadULong()
	if err != nil {
		return nil, err
	}

	if length == 0 {
		return []byte{}, nil
	}
	return u.readRaw(int(length))
}

// sequenceLength validates a wire-supplied element count against the bytes
// remaining, given the minimum encoded size of one element. Lengths are
// attacker-controlled; allocating before this check invites a multi-GB
// allocation from a 20-byte frame.
func (u *CDRUnmarshaller) sequenceLength(count uint32, minElemSize int) (int, error) {
	if int64(count)*int64(minElemSize) > int64(u.reader.Len()) {
		return 0, fmt.Errorf("sequence length %d exceeds remaining message bytes", count)
	}
	return int(count), nil
}

// ReadDoubleSequence reads a length-prefixed sequence of doubles
func (u *CDRUnmarshaller) ReadDoubleSequence() ([]float64, error) {
	count, err := u.ReadULong()
	if err != nil {
		return nil, err
	}

	length, err := u.sequenceLength(count, Align8)
	if err != nil {
		return nil, err
	}
	result := make([]float64, length)
	for i := range result {
		if result[i], err = u.ReadDouble(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ReadStringSequence reads a length-prefixed sequence of strings
func (u *CDRUnmarshaller) ReadStringSequence() ([]string, error) {
	count, err := u.ReadULong()
	if err != nil {
		return nil, err
	}

	// An empty string still encodes its 4-byte length
	length, err := u.sequenceLength(count, Align4)
	if err != nil {
		return nil, err
	}
	result := make([]string, length)
	for i := range result {
		if result[i], err = u.ReadString(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ReadServiceContext reads a service context
func (u *CDRUnmarshaller) ReadServiceContext() (ServiceContext, error) {
	var ctx ServiceContext
	var err error

	if ctx.ID, err = u.ReadULong(); err != nil {
		return ctx, err
	}

	if ctx.Data, err = u.ReadOctetSequence(); err != nil {
		return ctx, err
	}

	return ctx, nil
}

// ReadServiceContextList reads a list of service contexts
func (u *CDRUnmarshaller) ReadServiceContextList() (ServiceContextList, error) {
	count, err := u.ReadULong()
	if err != nil {
		return nil, err
	}

	// Each context carries at least its 4-byte ID and 4-byte data length
	length, err := u.sequenceLength(count, 8)
	if err != nil {
		return nil, err
	}
	contexts := make(ServiceContextList, length)
	for i := 0; i < length; i++ {
		if contexts[i], err = u.ReadServiceContext(); err != nil {
			return nil, err
		}
	}

	return contexts, nil
}

// ReadMessageHeader reads a GIOP message header and adjusts the byte order
// from the flags
func (u *CDRUnmarshaller) ReadMessageHeader() (MessageHeader, error) {
	var header MessageHeader

	magic, err := u.readRaw(4)
	if err != nil {
		return header, err
	}
	copy(header.Magic[:], magic)

	version, err := u.readRaw(2)
	if err != nil {
		return header, err
	}
	copy(header.Version[:], version)

	if header.Flags, err = u.ReadOctet(); err != nil {
		return header, err
	}

	if header.IsLittleEndian() {
		u.byteOrder = binary.LittleEndian
	} else {
		u.byteOrder = binary.BigEndian
	}

	if header.MsgType, err = u.ReadOctet(); err != nil {
		return header, err
	}

	buf, err := u.readRaw(4)
	if err != nil {
		return header, err
	}
	header.MsgSize = u.byteOrder.Uint32(buf)

	if err = header.Validate(); err != nil {
		return header, err
	}

	return header, nil
}

// ReadRequestHeader reads a GIOP request header (not including arguments)
func (u *CDRUnmarshaller) ReadRequestHeader() (*RequestHeader, error) {
	header := &RequestHeader{}
	var err error

	if header.ServiceContexts, err = u.ReadServiceContextList(); err != nil {
		return nil, err
	}

	if header.RequestID, err = u.ReadULong(); err != nil {
		return nil, err
	}

	if header.ResponseExpected, err = u.ReadBool(); err != nil {
		return nil, err
	}

	if _, err = u.readRaw(3); err != nil { // Reserved
		return nil, err
	}

	if header.ObjectKey, err = u.ReadOctetSequence(); err != nil {
		return nil, err
	}

	if header.Operation, err = u.ReadString(); err != nil {
		return nil, err
	}

	if header.Principal, err = u.ReadOctetSequence(); err != nil {
		return nil, err
	}

	return header, nil
}

// ReadReplyHeader reads a GIOP reply header (not including the result)
func (u *CDRUnmarshaller) ReadReplyHeader() (*ReplyHeader, error) {
	header := &ReplyHeader{}
	var err error

	if header.ServiceContexts, err = u.ReadServiceContextList(); err != nil {
		return nil, err
	}

	if header.RequestID, err = u.ReadULong(); err != nil {
		return nil, err
	}

	if header.ReplyStatus, err = u.ReadULong(); err != nil {
		return nil, err
	}

	return header, nil
}

// ReadValue reads a single tagged value
func (u *CDRUnmarshaller) ReadValue() (interface{}, error) {
	tag, err := u.ReadOctet()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagVoid:
		return nil, nil
	case tagBool:
		return u.ReadBool()
	case tagLongLong:
		return u.ReadLongLong()
	case tagDouble:
		return u.ReadDouble()
	case tagString:
		return u.ReadString()
	case tagDoubleSeq:
		return u.ReadDoubleSequence()
	case tagStringSeq:
		return u.ReadStringSequence()
	case tagOctetSeq:
		return u.ReadOctetSequence()
	case tagValueSeq:
		count, err := u.ReadULong()
		if err != nil {
			return nil, err
		}
		// Every tagged value occupies at least its tag octet
		length, err := u.sequenceLength(count, 1)
		if err != nil {
			return nil, err
		}
		result := make([]interface{}, length)
		for i := range result {
			if result[i], err = u.ReadValue(); err != nil {
				return nil, err
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unknown value tag: 0x%02x", tag)
	}
}

// ReadValueList reads a length-prefixed list of tagged values
func (u *CDRUnmarshaller) ReadValueList() ([]interface{}, error) {
	count, err := u.ReadULong()
	if err != nil {
		return nil, err
	}

	length, err := u.sequenceLength(count, 1)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, length)
	for i := range values {
		if values[i], err = u.ReadValue(); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// MarshalGIOPMessage marshals a GIOP message to bytes. Request arguments and
// reply results are encoded after their headers as tagged values.
func MarshalGIOPMessage(msg *Message) ([]byte, error) {
	var byteOrder binary.ByteOrder = binary.BigEndian
	if msg.Header.IsLittleEndian() {
		byteOrder = binary.LittleEndian
	}

	bodyMarshaller := NewCDRMarshaller(byteOrder)

	switch msg.Header.MsgType {
	case MsgRequest:
		requestHeader, ok := msg.Body.(*RequestHeader)
		if !ok {
			return nil, fmt.Errorf("body is not a RequestHeader")
		}
		bodyMarshaller.WriteRequestHeader(requestHeader)
		if err := bodyMarshaller.WriteValueList(requestHeader.Arguments); err != nil {
			return nil, err
		}

	case MsgReply:
		replyHeader, ok := msg.Body.(*ReplyHeader)
		if !ok {
			return nil, fmt.Errorf("body is not a ReplyHeader")
		}
		bodyMarshaller.WriteReplyHeader(replyHeader)
		if err := bodyMarshaller.WriteValue(replyHeader.Result); err != nil {
			return nil, err
		}

	case MsgCancelRequest:
		cancelHeader, ok := msg.Body.(*CancelRequestHeader)
		if !ok {
			return nil, fmt.Errorf("body is not a CancelRequestHeader")
		}
		bodyMarshaller.WriteULong(cancelHeader.RequestID)

	case MsgLocateRequest:
		locateHeader, ok := msg.Body.(*LocateRequestHeader)
		if !ok {
			return nil, fmt.Errorf("body is not a LocateRequestHeader")
		}
		bodyMarshaller.WriteULong(locateHeader.RequestID)
		bodyMarshaller.WriteOctetSequence(locateHeader.ObjectKey)

	case MsgLocateReply:
		locateHeader, ok := msg.Body.(*LocateReplyHeader)
		if !ok {
			return nil, fmt.Errorf("body is not a LocateReplyHeader")
		}
		bodyMarshaller.WriteULong(locateHeader.RequestID)
		bodyMarshaller.WriteULong(locateHeader.Status)

	case MsgCloseConn:
		// No body

	case MsgMessageError:
		errorMsg, ok := msg.Body.(string)
		if !ok {
			return nil, fmt.Errorf("body is not a string")
		}
		bodyMarshaller.WriteString(errorMsg)

	default:
		return nil, fmt.Errorf("unknown message type: %d", msg.Header.MsgType)
	}

	bodyBytes := bodyMarshaller.Bytes()
	msg.Header.MsgSize = uint32(len(bodyBytes))

	headerMarshaller := NewCDRMarshaller(byteOrder)
	headerMarshaller.WriteMessageHeader(msg.Header)

	return append(headerMarshaller.Bytes(), bodyBytes...), nil
}

// UnmarshalGIOPMessage unmarshals a GIOP message from bytes. The body is
// decoded with a reader of its own so CDR alignment matches the sender, which
// aligned relative to the body start.
func UnmarshalGIOPMessage(data []byte) (*Message, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("message shorter than GIOP header: %d bytes", len(data))
	}

	headerUnmarshaller := NewCDRUnmarshaller(data[:12], binary.BigEndian)
	header, err := headerUnmarshaller.ReadMessageHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}

	var byteOrder binary.ByteOrder = binary.BigEndian
	if header.IsLittleEndian() {
		byteOrder = binary.LittleEndian
	}
	unmarshaller := NewCDRUnmarshaller(data[12:], byteOrder)

	msg := &Message{Header: header}

	switch header.MsgType {
	case MsgRequest:
		requestHeader, err := unmarshaller.ReadRequestHeader()
		if err != nil {
			return nil, fmt.Errorf("failed to read request header: %w", err)
		}
		if requestHeader.Arguments, err = unmarshaller.ReadValueList(); err != nil {
			return nil, fmt.Errorf("failed to read request arguments: %w", err)
		}
		msg.Body = requestHeader

	case MsgReply:
		replyHeader, err := unmarshaller.ReadReplyHeader()
		if err != nil {
			return nil, fmt.Errorf("failed to read reply header: %w", err)
		}
		if replyHeader.Result, err = unmarshaller.ReadValue(); err != nil {
			return nil, fmt.Errorf("failed to read reply result: %w", err)
		}
		msg.Body = replyHeader

	case MsgCancelRequest:
		cancelHeader := &CancelRequestHeader{}
		if cancelHeader.RequestID, err = unmarshaller.ReadULong(); err != nil {
			return nil, fmt.Errorf("failed to read cancel request ID: %w", err)
		}
		msg.Body = cancelHeader

	case MsgLocateRequest:
		locateHeader := &LocateRequestHeader{}
		if locateHeader.RequestID, err = unmarshaller.ReadULong(); err != nil {
			return nil, fmt.Errorf("failed to read locate request ID: %w", err)
		}
		if locateHeader.ObjectKey, err = unmarshaller.ReadOctetSequence(); err != nil {
			return nil, fmt.Errorf("failed to read locate object key: %w", err)
		}
		msg.Body = locateHeader

	case MsgLocateReply:
		locateHeader := &LocateReplyHeader{}
		if locateHeader.RequestID, err = unmarshaller.ReadULong(); err != nil {
			return nil, fmt.Errorf("failed to read locate reply request ID: %w", err)
		}
		if locateHeader.Status, err = unmarshaller.ReadULong(); err != nil {
			return nil, fmt.Errorf("failed to read locate reply status: %w", err)
		}
		msg.Body = locateHeader

	case MsgCloseConn:
		// No body

	case MsgMessageError:
		errorMsg, err := unmarshaller.ReadString()
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		msg.Body = errorMsg

	default:
		return nil, fmt.Errorf("unknown message type: %d", header.MsgType)
	}

	return msg, nil
}
