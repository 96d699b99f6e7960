package corba

import (
	"reflect"
	"testing"
)

func TestParseName(t *testing.T) {
	name, err := ParseName("hpp/Robot.obj")
	if err != nil {
		t.Fatalf("ParseName failed: %v", err)
	}
	want := Name{{ID: "hpp"}, {ID: "Robot", Kind: "obj"}}
	if !reflect.DeepEqual(name, want) {
		t.Errorf("ParseName = %v, want %v", name, want)
	}
	if name.String() != "hpp/Robot.obj" {
		t.Errorf("String = %q, want %q", name.String(), "hpp/Robot.obj")
	}

	if _, err := ParseName(""); err == nil {
		t.Error("empty name should fail")
	}
}

func TestNamingContextBindResolve(t *testing.T) {
	orb := Init()
	ctx := NewNamingContext(orb, "test")

	name, _ := ParseName("hpp/Problem")
	if err := ctx.Bind(name, "hpp.Problem"); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if err := ctx.Bind(name, "other"); err != ErrNameAlreadyBound {
		t.Errorf("double bind: got %v, want ErrNameAlreadyBound", err)
	}

	key, err := ctx.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "hpp.Problem" {
		t.Errorf("Resolve = %q, want hpp.Problem", key)
	}

	if err := ctx.Rebind(name, "hpp.Problem2"); err != nil {
		t.Fatalf("Rebind failed: %v", err)
	}
	key, _ = ctx.Resolve(name)
	if key != "hpp.Problem2" {
		t.Errorf("Resolve after Rebind = %q, want hpp.Problem2", key)
	}

	if err := ctx.Unbind(name); err != nil {
		t.Fatalf("Unbind failed: %v", err)
	}
	if _, err := ctx.Resolve(name); err != ErrNameNotFound {
		t.Errorf("Resolve after Unbind: got %v, want ErrNameNotFound", err)
	}
}

func TestNamingServantDispatch(t *testing.T) {
	orb := Init()
	ns := NewNamingServiceServant(orb)

	if _, err := ns.Dispatch("bind", []interface{}{"hpp/Robot", "hpp.Robot"}); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if _, err := ns.Dispatch("bind", []interface{}{"hpp/Obstacle", "hpp.Obstacle"}); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	result, err := ns.Dispatch("resolve", []interface{}{"hpp/Robot"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result != "hpp.Robot" {
		t.Errorf("resolve = %v, want hpp.Robot", result)
	}

	result, err = ns.Dispatch("list", nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	names, ok := result.([]string)
	if !ok {
		t.Fatalf("list returned %T, want []string", result)
	}
	want := []string{"hpp/Obstacle", "hpp/Robot"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("list = %v, want %v", names, want)
	}

	if _, err := ns.Dispatch("unbind", []interface{}{"hpp/Robot"}); err != nil {
		t.Fatalf("unbind failed: %v", err)
	}
	if _, err := ns.Dispatch("resolve", []interface{}{"hpp/Robot"}); err == nil {
		t.Error("resolve after unbind should fail")
	}

	if _, err := ns.Dispatch("destroyAll", nil); err == nil {
		t.Error("unknown method should fail")
	}
}
