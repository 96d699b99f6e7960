package giop

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func TestValueListRoundTrip(t *testing.T) {
	values := []interface{}{
		"test",
		int64(42),
		3.5,
		true,
		[]float64{0, 0, 0, 0, 0, 0, 1},
		[]string{"root_joint", "elbow"},
		nil,
	}

	m := NewCDRMarshaller(binary.BigEndian)
	if err := m.WriteValueList(values); err != nil {
		t.Fatalf("WriteValueList failed: %v", err)
	}

	u := NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	got, err := u.ReadValueList()
	if err != nil {
		t.Fatalf("ReadValueList failed: %v", err)
	}

	if !reflect.DeepEqual(got, values) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, values)
	}
}

func TestValueIntNormalization(t *testing.T) {
	m := NewCDRMarshaller(binary.BigEndian)
	if err := m.WriteValue(7); err != nil {
		t.Fatalf("WriteValue failed: %v", err)
	}

	u := NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	got, err := u.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}

	if got != int64(7) {
		t.Errorf("expected int64(7), got %#v", got)
	}
}

func TestValueUnsupportedType(t *testing.T) {
	m := NewCDRMarshaller(binary.BigEndian)
	if err := m.WriteValue(struct{ X int }{1}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestAlignmentAfterOddOffset(t *testing.T) {
	m := NewCDRMarshaller(binary.BigEndian)
	m.WriteOctet(0xff)
	m.WriteDouble(2.25)
	m.WriteOctet(0x01)
	m.WriteULong(9)

	u := NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if b, err := u.ReadOctet(); err != nil || b != 0xff {
		t.Fatalf("ReadOctet = %v, %v", b, err)
	}
	if d, err := u.ReadDouble(); err != nil || d != 2.25 {
		t.Fatalf("ReadDouble = %v, %v", d, err)
	}
	if b, err := u.ReadOctet(); err != nil || b != 0x01 {
		t.Fatalf("ReadOctet = %v, %v", b, err)
	}
	if l, err := u.ReadULong(); err != nil || l != 9 {
		t.Fatalf("ReadULong = %v, %v", l, err)
	}
}

func TestRequestMessageRoundTrip(t *testing.T) {
	msg := NewRequestMessage(3, []byte("hpp.Robot"), "appendJoint", true,
		"test", "", "root_joint", "planar", []float64{0, 0, 0, 0, 0, 0, 1})

	data, err := MarshalGIOPMessage(msg)
	if err != nil {
		t.Fatalf("MarshalGIOPMessage failed: %v", err)
	}

	decoded, err := UnmarshalGIOPMessage(data)
	if err != nil {
		t.Fatalf("UnmarshalGIOPMessage failed: %v", err)
	}

	header, ok := decoded.Body.(*RequestHeader)
	if !ok {
		t.Fatalf("expected RequestHeader body, got %T", decoded.Body)
	}

	if header.RequestID != 3 {
		t.Errorf("RequestID = %d, want 3", header.RequestID)
	}
	if string(header.ObjectKey) != "hpp.Robot" {
		t.Errorf("ObjectKey = %q, want hpp.Robot", header.ObjectKey)
	}
	if header.Operation != "appendJoint" {
		t.Errorf("Operation = %q, want appendJoint", header.Operation)
	}
	if !header.ResponseExpected {
		t.Error("ResponseExpected = false, want true")
	}

	want := []interface{}{"test", "", "root_joint", "planar", []float64{0, 0, 0, 0, 0, 0, 1}}
	if !reflect.DeepEqual(header.Arguments, want) {
		t.Errorf("Arguments mismatch:\n got %#v\nwant %#v", header.Arguments, want)
	}
}

func TestReplyMessageRoundTrip(t *testing.T) {
	msg := NewReplyMessage(7, ReplyStatusNoException, []float64{1, 2, 0.5})

	data, err := MarshalGIOPMessage(msg)
	if err != nil {
		t.Fatalf("MarshalGIOPMessage failed: %v", err)
	}

	decoded, err := UnmarshalGIOPMessage(data)
	if err != nil {
		t.Fatalf("UnmarshalGIOPMessage failed: %v", err)
	}

	header, ok := decoded.Body.(*ReplyHeader)
	if !ok {
		t.Fatalf("expected ReplyHeader body, got %T", decoded.Body)
	}

	if header.RequestID != 7 {
		t.Errorf("RequestID = %d, want 7", header.RequestID)
	}
	if header.ReplyStatus != ReplyStatusNoException {
		t.Errorf("ReplyStatus = %d, want %d", header.ReplyStatus, ReplyStatusNoException)
	}
	if !reflect.DeepEqual(header.Result, []float64{1, 2, 0.5}) {
		t.Errorf("Result = %#v, want [1 2 0.5]", header.Result)
	}
}

func TestVoidReply(t *testing.T) {
	msg := NewReplyMessage(1, ReplyStatusNoException, nil)

	data, err := MarshalGIOPMessage(msg)
	if err != nil {
		t.Fatalf("MarshalGIOPMessage failed: %v", err)
	}

	decoded, err := UnmarshalGIOPMessage(data)
	if err != nil {
		t.Fatalf("UnmarshalGIOPMessage failed: %v", err)
	}

	header := decoded.Body.(*ReplyHeader)
	if header.Result != nil {
		t.Errorf("Result = %#v, want nil", header.Result)
	}
}

func TestHeaderValidation(t *testing.T) {
	data := []byte("JUNK\x01\x02\x00\x00\x00\x00\x00\x00")
	if _, err := UnmarshalGIOPMessage(data); err == nil {
		t.Error("expected error for bad magic")
	}

	if _, err := UnmarshalGIOPMessage([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated header")
	}
}

func TestSequenceLengthCapped(t *testing.T) {
	// A few bytes claiming a huge element count must error out instead of
	// allocating gigabytes
	m := NewCDRMarshaller(binary.BigEndian)
	m.WriteULong(0xFFFFFFF0)

	u := NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if _, err := u.ReadDoubleSequence(); err == nil {
		t.Error("expected error for oversized double sequence length")
	}

	u = NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if _, err := u.ReadStringSequence(); err == nil {
		t.Error("expected error for oversized string sequence length")
	}

	u = NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if _, err := u.ReadValueList(); err == nil {
		t.Error("expected error for oversized value list length")
	}

	u = NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if _, err := u.ReadOctetSequence(); err == nil {
		t.Error("expected error for oversized octet sequence length")
	}

	u = NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if _, err := u.ReadServiceContextList(); err == nil {
		t.Error("expected error for oversized service context count")
	}
}

func TestTaggedValueSeqLengthCapped(t *testing.T) {
	m := NewCDRMarshaller(binary.BigEndian)
	m.WriteOctet(tagValueSeq)
	m.WriteULong(0xFFFFFFF0)

	u := NewCDRUnmarshaller(m.Bytes(), binary.BigEndian)
	if _, err := u.ReadValue(); err == nil {
		t.Error("expected error for oversized nested value sequence")
	}
}

func TestHeaderRejectsOversizedBody(t *testing.T) {
	data := []byte{'G', 'I', 'O', 'P', 1, 2, 0, MsgRequest, 0xFF, 0xFF, 0xFF, 0xFF}

	u := NewCDRUnmarshaller(data, binary.BigEndian)
	if _, err := u.ReadMessageHeader(); err == nil {
		t.Error("expected error for body size above MaxMessageSize")
	}

	// A size at the limit still validates
	header := NewMessageHeader(MsgRequest, MaxMessageSize)
	if err := header.Validate(); err != nil {
		t.Errorf("size at limit should validate: %v", err)
	}
}
