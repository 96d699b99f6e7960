package corba

import (
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"testing"
	"time"
)

// echoServant mirrors arguments back and exercises each wire value kind.
type echoServant struct{}

func (e *echoServant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	case "echo":
		if len(args) == 0 {
			return nil, nil
		}
		return args[0], nil
	case "sum":
		var total int64
		for _, a := range args {
			v, ok := a.(int64)
			if !ok {
				return nil, fmt.Errorf("sum: expected integer, got %T", a)
			}
			total += v
		}
		return total, nil
	case "fail":
		return nil, errors.New("servant refused the request")
	default:
		return nil, fmt.Errorf("unknown method %s", methodName)
	}
}

// startTestServer runs a server on an ephemeral port and returns it with a
// connected client.
func startTestServer(t *testing.T) (*ORB, *Server, *Client) {
	t.Helper()

	orb := Init()
	server, err := orb.CreateServer("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}

	if err := server.RegisterServant("echo", &echoServant{}); err != nil {
		t.Fatalf("RegisterServant failed: %v", err)
	}
	if err := orb.ActivateNamingService(server); err != nil {
		t.Fatalf("ActivateNamingService failed: %v", err)
	}

	if err := server.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	t.Cleanup(func() { server.Shutdown() })

	client := orb.CreateClient()
	if err := client.Connect("127.0.0.1", server.Port()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(client.Close)

	return orb, server, client
}

func TestLoopbackInvoke(t *testing.T) {
	_, server, client := startTestServer(t)

	result, err := client.InvokeMethod("echo", "echo", "127.0.0.1", server.Port(), "hello")
	if err != nil {
		t.Fatalf("InvokeMethod failed: %v", err)
	}
	if result != "hello" {
		t.Errorf("echo = %v, want hello", result)
	}

	result, err = client.InvokeMethod("echo", "sum", "127.0.0.1", server.Port(), 1, 2, 3)
	if err != nil {
		t.Fatalf("InvokeMethod failed: %v", err)
	}
	if result != int64(6) {
		t.Errorf("sum = %v, want 6", result)
	}
}

func TestLoopbackSequenceArguments(t *testing.T) {
	_, server, client := startTestServer(t)

	pose := []float64{0, 0, 1, 0, 0, 0, 1}
	result, err := client.InvokeMethod("echo", "echo", "127.0.0.1", server.Port(), pose)
	if err != nil {
		t.Fatalf("InvokeMethod failed: %v", err)
	}
	if !reflect.DeepEqual(result, pose) {
		t.Errorf("echo = %v, want %v", result, pose)
	}

	names := []string{"base_joint", "arm_joint"}
	result, err = client.InvokeMethod("echo", "echo", "127.0.0.1", server.Port(), names)
	if err != nil {
		t.Fatalf("InvokeMethod failed: %v", err)
	}
	if !reflect.DeepEqual(result, names) {
		t.Errorf("echo = %v, want %v", result, names)
	}
}

func TestLoopbackUserException(t *testing.T) {
	_, server, client := startTestServer(t)

	_, err := client.InvokeMethod("echo", "fail", "127.0.0.1", server.Port())
	if err == nil {
		t.Fatal("expected error from failing servant")
	}

	userEx, ok := err.(*UserException)
	if !ok {
		t.Fatalf("expected user exception, got %T: %v", err, err)
	}
	if userEx.Message() != "servant refused the request" {
		t.Errorf("Message = %q, want servant error text", userEx.Message())
	}
}

func TestLoopbackObjectNotExist(t *testing.T) {
	_, server, client := startTestServer(t)

	_, err := client.InvokeMethod("nosuch", "echo", "127.0.0.1", server.Port())
	if err == nil {
		t.Fatal("expected error for unregistered object")
	}

	sysEx, ok := err.(*SystemException)
	if !ok {
		t.Fatalf("expected system exception, got %T: %v", err, err)
	}
	if sysEx.Name() != "OBJECT_NOT_EXIST" {
		t.Errorf("Name = %q, want OBJECT_NOT_EXIST", sysEx.Name())
	}
}

func TestLoopbackNamingService(t *testing.T) {
	orb, server, _ := startTestServer(t)

	nsc, err := orb.ResolveNameService("127.0.0.1", server.Port())
	if err != nil {
		t.Fatalf("ResolveNameService failed: %v", err)
	}

	if err := nsc.Bind("services/echo", "echo"); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	ref, err := nsc.Resolve("services/echo")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	result, err := ref.Invoke("echo", 3.5)
	if err != nil {
		t.Fatalf("Invoke through resolved reference failed: %v", err)
	}
	if result != 3.5 {
		t.Errorf("echo = %v, want 3.5", result)
	}

	names, err := nsc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"services/echo"}) {
		t.Errorf("List = %v, want [services/echo]", names)
	}
}

func TestServerDropsOversizedFrame(t *testing.T) {
	_, server, _ := startTestServer(t)

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", server.Port()))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// GIOP header claiming a 4 GiB body; the server must close the
	// connection instead of allocating the buffer
	frame := []byte{'G', 'I', 'O', 'P', 1, 2, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err != io.EOF {
		t.Errorf("expected connection close, got %v", err)
	}
}
