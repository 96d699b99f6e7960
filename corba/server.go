package corba

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/giop"
)

// Servant is the interface implemented by all objects served over GIOP
type Servant interface {
	Dispatch(methodName string, args []interface{}) (interface{}, error)
}

// ServerBinding represents a binding between an object and a service name
type ServerBinding struct {
	ObjectName string
	Object     Servant
	ServiceID  string
}

// Server represents a CORBA server
type Server struct {
	orb      *ORB
	bindings []ServerBinding
	running  bool
	mu       sync.RWMutex
	listener net.Listener
	host     string
	port     int
	log      zerolog.Logger
}

// CreateServer creates a new server at the specified host and port
func (o *ORB) CreateServer(host string, port int) (*Server, error) {
	return &Server{
		orb:      o,
		bindings: make([]ServerBinding, 0),
		host:     host,
		port:     port,
		log:      zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger used by the server
func (s *Server) SetLogger(log zerolog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

// RegisterServant registers a servant object with a name
func (s *Server) RegisterServant(objectName string, servant interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoker, ok := servant.(Servant)
	if !ok {
		return fmt.Errorf("servant does not implement Dispatch method")
	}

	if err := s.orb.RegisterObject(objectName, invoker); err != nil {
		return err
	}

	s.bindings = append(s.bindings, ServerBinding{
		ObjectName: objectName,
		Object:     invoker,
		ServiceID:  generateServiceID(objectName),
	})
	return nil
}

// Bind registers an object with a name for the server (alias for RegisterServant)
func (s *Server) Bind(objectName string, obj interface{}) error {
	return s.RegisterServant(objectName, obj)
}

// Run starts the server
func (s *Server) Run() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	return s.startIIOPListener()
}

// Shutdown stops the server
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("server is not running")
	}

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			return fmt.Errorf("error closing listener: %w", err)
		}
	}

	s.running = false
	return nil
}

// Stop is an alias for Shutdown
func (s *Server) Stop() error {
	return s.Shutdown()
}

// IsRunning returns whether the server is running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the listener address, or nil when the server is not running.
// With port 0 the kernel picks the port; Addr reports the real one.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the port the server is listening on
func (s *Server) Port() int {
	addr := s.Addr()
	if addr == nil {
		return s.port
	}
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return s.port
}

// startIIOPListener starts the IIOP listener
func (s *Server) startIIOPListener() error {
	address := net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info().Stringer("addr", listener.Addr()).Msg("CORBA server listening")

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				s.mu.RLock()
				running := s.running
				s.mu.RUnlock()
				if !running {
					return
				}
				s.log.Error().Err(err).Msg("error accepting connection")
				continue
			}

			go s.handleConnection(conn)
		}
	}()

	return nil
}

// handleConnection processes incoming IIOP requests
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	for {
		conn.SetReadDeadline(time.Now().Add(1 * time.Hour))

		headerBuf := make([]byte, 12)
		if _, err := io.ReadFull(conn, headerBuf); err != nil {
			if err != io.EOF {
				s.log.Debug().Err(err).Msg("error reading GIOP header")
			}
			return
		}

		unmarshaller := giop.NewCDRUnmarshaller(headerBuf, binary.BigEndian)
		header, err := unmarshaller.ReadMessageHeader()
		if err != nil {
			s.log.Error().Err(err).Msg("error parsing GIOP header")
			return
		}

		bodyBuf := make([]byte, header.MsgSize)
		if _, err := io.ReadFull(conn, bodyBuf); err != nil {
			s.log.Error().Err(err).Msg("error reading GIOP message body")
			return
		}

		msg, err := giop.UnmarshalGIOPMessage(append(headerBuf, bodyBuf...))
		if err != nil {
			s.log.Error().Err(err).Msg("error unmarshalling GIOP message")
			continue
		}

		switch msg.Header.MsgType {
		case giop.MsgRequest:
			requestHeader, ok := msg.Body.(*giop.RequestHeader)
			if !ok {
				s.log.Error().Msg("invalid request message format")
				continue
			}
			s.handleGIOPRequest(conn, requestHeader)

		case giop.MsgLocateRequest:
			locateHeader, ok := msg.Body.(*giop.LocateRequestHeader)
			if !ok {
				s.log.Error().Msg("invalid locate request message format")
				continue
			}
			s.handleGIOPLocateRequest(conn, locateHeader)

		case giop.MsgCancelRequest:
			// Cancellation is not supported; requests are short-lived
			s.log.Debug().Msg("received cancel request - ignored")

		case giop.MsgCloseConn:
			return

		default:
			s.log.Warn().Uint8("type", msg.Header.MsgType).Msg("unsupported message type")
		}
	}
}

// handleGIOPRequest processes a GIOP request message
func (s *Server) handleGIOPRequest(conn net.Conn, request *giop.RequestHeader) {
	objectName := string(request.ObjectKey)

	obj, err := s.orb.ResolveObject(objectName)
	if err != nil {
		s.sendExceptionReply(conn, request.RequestID,
			OBJECT_NOT_EXIST(1, CompletionStatusNo))
		return
	}

	invoker, ok := obj.(Servant)
	if !ok {
		s.sendExceptionReply(conn, request.RequestID,
			OBJ_ADAPTER(1, CompletionStatusNo))
		return
	}

	reqInfo := &RequestInfo{
		Operation:        request.Operation,
		ObjectKey:        objectName,
		Arguments:        request.Arguments,
		RequestID:        request.RequestID,
		ResponseExpected: request.ResponseExpected,
	}

	interceptors := s.orb.GetInterceptorRegistry().GetServerRequestInterceptors()
	for _, interceptor := range interceptors {
		if err := interceptor.ReceiveRequest(reqInfo); err != nil {
			s.sendExceptionReply(conn, request.RequestID, ThrowableToException(err))
			return
		}
	}

	result, ex := SafeInvoke(func() (interface{}, error) {
		return invoker.Dispatch(request.Operation, request.Arguments)
	})

	if ex != nil {
		for _, interceptor := range interceptors {
			interceptor.SendException(reqInfo, ex)
		}
		s.sendExceptionReply(conn, request.RequestID, ex)
		return
	}

	reqInfo.Result = result
	for _, interceptor := range interceptors {
		if err := interceptor.SendReply(reqInfo); err != nil {
			s.sendExceptionReply(conn, request.RequestID, ThrowableToException(err))
			return
		}
	}

	s.sendSuccessReply(conn, request.RequestID, result)
}

// handleGIOPLocateRequest processes a GIOP locate request message
func (s *Server) handleGIOPLocateRequest(conn net.Conn, request *giop.LocateRequestHeader) {
	objectName := string(request.ObjectKey)

	if _, err := s.orb.ResolveObject(objectName); err != nil {
		s.sendLocateReply(conn, request.RequestID, giop.LocateStatusUnknownObject)
		return
	}

	s.sendLocateReply(conn, request.RequestID, giop.LocateStatusObjectHere)
}

// sendSuccessReply sends a successful reply carrying the result value
func (s *Server) sendSuccessReply(conn net.Conn, requestID uint32, result interface{}) {
	replyMsg := giop.NewReplyMessage(requestID, giop.ReplyStatusNoException, result)

	data, err := giop.MarshalGIOPMessage(replyMsg)
	if err != nil {
		s.log.Error().Err(err).Msg("error marshalling success reply")
		// The result cannot be encoded; report MARSHAL instead of staying silent
		s.sendExceptionReply(conn, requestID, MARSHAL(1, CompletionStatusYes))
		return
	}

	if _, err := conn.Write(data); err != nil {
		s.log.Error().Err(err).Msg("error sending success reply")
	}
}

// sendLocateReply sends a locate reply
func (s *Server) sendLocateReply(conn net.Conn, requestID uint32, status uint32) {
	locateMsg := &giop.Message{
		Header: giop.NewMessageHeader(giop.MsgLocateReply, 0),
		Body: &giop.LocateReplyHeader{
			RequestID: requestID,
			Status:    status,
		},
	}

	data, err := giop.MarshalGIOPMessage(locateMsg)
	if err != nil {
		s.log.Error().Err(err).Msg("error marshalling locate reply")
		return
	}

	if _, err := conn.Write(data); err != nil {
		s.log.Error().Err(err).Msg("error sending locate reply")
	}
}

// sendExceptionReply sends an exception reply
func (s *Server) sendExceptionReply(conn net.Conn, requestID uint32, ex Exception) {
	var replyStatus uint32
	switch {
	case IsUserException(ex):
		replyStatus = giop.ReplyStatusUserException
	default:
		replyStatus = giop.ReplyStatusSystemException
	}

	replyHeader := &giop.ReplyHeader{
		ServiceContexts: make(giop.ServiceContextList, 0),
		RequestID:       requestID,
		ReplyStatus:     replyStatus,
	}

	exData, err := MarshalException(ex)
	if err != nil {
		s.log.Error().Err(err).Msg("error marshalling exception")
		exData = []byte(ex.Error())
	}

	replyHeader.ServiceContexts = append(replyHeader.ServiceContexts, giop.ServiceContext{
		ID:   giop.ServiceContextException,
		Data: exData,
	})

	replyMsg := &giop.Message{
		Header: giop.NewMessageHeader(giop.MsgReply, 0),
		Body:   replyHeader,
	}

	data, err := giop.MarshalGIOPMessage(replyMsg)
	if err != nil {
		s.log.Error().Err(err).Msg("error marshalling exception reply")
		return
	}

	if _, err := conn.Write(data); err != nil {
		s.log.Error().Err(err).Msg("error sending exception reply")
	}
}

// generateServiceID creates a unique service ID for a binding
func generateServiceID(name string) string {
	return fmt.Sprintf("IDL:%s:1.0", name)
}
