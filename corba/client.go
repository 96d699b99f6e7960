package corba

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/giop"
)

// clientConn is a TCP connection to a CORBA server. Requests on one
// connection are serialized: GIOP replies are matched to requests by ID, but
// this client writes a request and reads its reply in one critical section.
type clientConn struct {
	mu   sync.Mutex
	conn net.Conn
}

// Client represents a CORBA client
type Client struct {
	orb              *ORB
	connections      map[string]*clientConn
	requestIDCounter uint32
	mu               sync.RWMutex
}

// Connect establishes a connection to a CORBA server
func (c *Client) Connect(host string, port int) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to CORBA server at %s: %w", address, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connections == nil {
		c.connections = make(map[string]*clientConn)
	}
	c.connections[address] = &clientConn{conn: conn}
	return nil
}

// Disconnect closes a connection to a CORBA server
func (c *Client) Disconnect(host string, port int) error {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	c.mu.Lock()
	defer c.mu.Unlock()

	cc, exists := c.connections[address]
	if !exists {
		return fmt.Errorf("no connection exists to %s", address)
	}

	// Send a CloseConnection message before closing
	closeMsg := &giop.Message{
		Header: giop.NewMessageHeader(giop.MsgCloseConn, 0),
	}

	if data, err := giop.MarshalGIOPMessage(closeMsg); err == nil {
		cc.conn.Write(data) // Best effort
	}

	if err := cc.conn.Close(); err != nil {
		return fmt.Errorf("error closing connection to %s: %w", address, err)
	}

	delete(c.connections, address)
	return nil
}

// Close closes all connections held by the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for address, cc := range c.connections {
		cc.conn.Close()
		delete(c.connections, address)
	}
}

// NextRequestID generates a new unique request ID
func (c *Client) NextRequestID() uint32 {
	return atomic.AddUint32(&c.requestIDCounter, 1)
}

// getConn returns the connection for the address, dialing if necessary
func (c *Client) getConn(host string, port int) (*clientConn, error) {
	address := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	c.mu.RLock()
	cc, exists := c.connections[address]
	c.mu.RUnlock()

	if exists {
		return cc, nil
	}

	if err := c.Connect(host, port); err != nil {
		return nil, err
	}

	c.mu.RLock()
	cc = c.connections[address]
	c.mu.RUnlock()
	return cc, nil
}

// InvokeMethod invokes a method on a remote object using GIOP/IIOP. The
// arguments travel CDR-encoded in the request body; the reply carries the
// operation's return value or an exception in the EXCP service context.
func (c *Client) InvokeMethod(objectName string, methodName string, serverHost string, serverPort int, args ...interface{}) (interface{}, error) {
	cc, err := c.getConn(serverHost, serverPort)
	if err != nil {
		return nil, err
	}

	requestID := c.NextRequestID()
	requestMsg := giop.NewRequestMessage(requestID, []byte(objectName), methodName, true, args...)

	reqInfo := &RequestInfo{
		Operation:        methodName,
		ObjectKey:        objectName,
		Arguments:        args,
		RequestID:        requestID,
		ResponseExpected: true,
	}

	interceptors := c.orb.GetInterceptorRegistry().GetClientRequestInterceptors()
	for _, interceptor := range interceptors {
		if err := interceptor.SendRequest(reqInfo); err != nil {
			return nil, err
		}
	}

	// Attach service contexts added by interceptors
	requestHeader := requestMsg.Body.(*giop.RequestHeader)
	for _, ctx := range reqInfo.ServiceContexts {
		requestHeader.ServiceContexts = append(requestHeader.ServiceContexts, giop.ServiceContext{
			ID:   ctx.ID,
			Data: ctx.Data,
		})
	}

	data, err := giop.MarshalGIOPMessage(requestMsg)
	if err != nil {
		return nil, MARSHAL(1, CompletionStatusNo)
	}

	cc.mu.Lock()
	replyMsg, err := c.roundTrip(cc.conn, data)
	cc.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if replyMsg.Header.MsgType != giop.MsgReply {
		return nil, fmt.Errorf("expected reply message, got message type %d", replyMsg.Header.MsgType)
	}

	replyHeader, ok := replyMsg.Body.(*giop.ReplyHeader)
	if !ok {
		return nil, fmt.Errorf("invalid reply message format")
	}

	if replyHeader.RequestID != requestID {
		return nil, fmt.Errorf("mismatched request ID: expected %d, got %d", requestID, replyHeader.RequestID)
	}

	for _, ctx := range replyHeader.ServiceContexts {
		reqInfo.ServiceContexts = append(reqInfo.ServiceContexts, ServiceContext{
			ID:   ctx.ID,
			Data: ctx.Data,
		})
	}

	if replyHeader.ReplyStatus != giop.ReplyStatusNoException {
		switch replyHeader.ReplyStatus {
		case giop.ReplyStatusUserException, giop.ReplyStatusSystemException:
			exception, err := c.handleExceptionReply(replyHeader)
			if err != nil {
				return nil, err
			}

			for _, interceptor := range interceptors {
				if err := interceptor.ReceiveException(reqInfo, exception); err != nil {
					return nil, err
				}
			}

			return nil, exception

		default:
			for _, interceptor := range interceptors {
				if err := interceptor.ReceiveOther(reqInfo); err != nil {
					return nil, err
				}
			}

			return nil, fmt.Errorf("unsupported reply status: %d", replyHeader.ReplyStatus)
		}
	}

	reqInfo.Result = replyHeader.Result

	for _, interceptor := range interceptors {
		if err := interceptor.ReceiveReply(reqInfo); err != nil {
			return nil, err
		}
	}

	return reqInfo.Result, nil
}

// roundTrip writes a request and reads the complete reply message
func (c *Client) roundTrip(conn net.Conn, request []byte) (*giop.Message, error) {
	if _, err := conn.Write(request); err != nil {
		return nil, COMM_FAILURE(1, CompletionStatusMaybe)
	}

	headerBuf := make([]byte, 12)
	if _, err := io.ReadFull(conn, headerBuf); err != nil {
		return nil, COMM_FAILURE(2, CompletionStatusMaybe)
	}

	unmarshaller := giop.NewCDRUnmarshaller(headerBuf, binary.BigEndian)
	header, err := unmarshaller.ReadMessageHeader()
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response header: %w", err)
	}

	bodyBuf := make([]byte, header.MsgSize)
	if _, err := io.ReadFull(conn, bodyBuf); err != nil {
		return nil, COMM_FAILURE(2, CompletionStatusMaybe)
	}

	msg, err := giop.UnmarshalGIOPMessage(append(headerBuf, bodyBuf...))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return msg, nil
}

// handleExceptionReply extracts the exception carried in a reply
func (c *Client) handleExceptionReply(reply *giop.ReplyHeader) (Exception, error) {
	var exceptionData []byte
	for _, ctx := range reply.ServiceContexts {
		if ctx.ID == giop.ServiceContextException {
			exceptionData = ctx.Data
			break
		}
	}

	if len(exceptionData) == 0 {
		return UNKNOWN(0, CompletionStatusNo), nil
	}

	ex, err := UnmarshalException(exceptionData)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal exception: %w", err)
	}

	return ex, nil
}

// GetObject retrieves a reference to a remote object
func (c *Client) GetObject(name string, serverHost string, serverPort int) (*ObjectRef, error) {
	if _, err := c.getConn(serverHost, serverPort); err != nil {
		return nil, err
	}

	return &ObjectRef{
		Name:       name,
		ServerHost: serverHost,
		ServerPort: serverPort,
		client:     c,
	}, nil
}
