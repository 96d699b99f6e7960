package corba

import (
	"errors"
	"testing"
)

func TestSystemExceptionRoundTrip(t *testing.T) {
	ex := OBJECT_NOT_EXIST(1, CompletionStatusNo)

	data, err := MarshalException(ex)
	if err != nil {
		t.Fatalf("MarshalException failed: %v", err)
	}

	decoded, err := UnmarshalException(data)
	if err != nil {
		t.Fatalf("UnmarshalException failed: %v", err)
	}

	if !IsSystemException(decoded) {
		t.Fatalf("expected system exception, got %T", decoded)
	}
	if decoded.Name() != "OBJECT_NOT_EXIST" {
		t.Errorf("Name = %q, want OBJECT_NOT_EXIST", decoded.Name())
	}
	if decoded.Minor() != 1 {
		t.Errorf("Minor = %d, want 1", decoded.Minor())
	}
	if decoded.Completed() != CompletionStatusNo {
		t.Errorf("Completed = %v, want %v", decoded.Completed(), CompletionStatusNo)
	}
}

func TestUserExceptionRoundTrip(t *testing.T) {
	ex := HppError("robot %s not found", "test")

	data, err := MarshalException(ex)
	if err != nil {
		t.Fatalf("MarshalException failed: %v", err)
	}

	decoded, err := UnmarshalException(data)
	if err != nil {
		t.Fatalf("UnmarshalException failed: %v", err)
	}

	userEx, ok := decoded.(*UserException)
	if !ok {
		t.Fatalf("expected user exception, got %T", decoded)
	}
	if userEx.ID() != HppErrorID {
		t.Errorf("ID = %q, want %q", userEx.ID(), HppErrorID)
	}
	if userEx.Message() != "robot test not found" {
		t.Errorf("Message = %q, want %q", userEx.Message(), "robot test not found")
	}
}

func TestUserExceptionMessageWithColons(t *testing.T) {
	ex := HppError("joint %q: config size 4: got 3", "root_joint")

	data, _ := MarshalException(ex)
	decoded, err := UnmarshalException(data)
	if err != nil {
		t.Fatalf("UnmarshalException failed: %v", err)
	}

	if decoded.(*UserException).Message() != ex.Message() {
		t.Errorf("Message = %q, want %q", decoded.(*UserException).Message(), ex.Message())
	}
}

func TestThrowableToException(t *testing.T) {
	if ThrowableToException(nil) != nil {
		t.Error("nil should map to nil")
	}

	sysEx := INTERNAL(0, CompletionStatusMaybe)
	if got := ThrowableToException(sysEx); got != Exception(sysEx) {
		t.Error("exceptions should pass through unchanged")
	}

	got := ThrowableToException(errors.New("no robot selected"))
	userEx, ok := got.(*UserException)
	if !ok {
		t.Fatalf("plain errors should become user exceptions, got %T", got)
	}
	if userEx.Message() != "no robot selected" {
		t.Errorf("Message = %q, want %q", userEx.Message(), "no robot selected")
	}
}

func TestSafeInvokeConvertsPanic(t *testing.T) {
	_, ex := SafeInvoke(func() (interface{}, error) {
		panic("boom")
	})
	if ex == nil {
		t.Fatal("expected exception from panic")
	}
	if !IsSystemException(ex) {
		t.Errorf("expected system exception, got %T", ex)
	}
}

func TestSafeInvokePassesResult(t *testing.T) {
	result, ex := SafeInvoke(func() (interface{}, error) {
		return int64(4), nil
	})
	if ex != nil {
		t.Fatalf("unexpected exception: %v", ex)
	}
	if result != int64(4) {
		t.Errorf("result = %v, want 4", result)
	}
}
