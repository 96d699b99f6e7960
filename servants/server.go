package servants

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/corba"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/solver"
)

// Object keys the corbaserver registers its servants under. Clients reach a
// servant either directly by key or through the naming service.
const (
	RobotKey    = "hpp.Robot"
	ProblemKey  = "hpp.Problem"
	ObstacleKey = "hpp.Obstacle"
	ToolsKey    = "hpp.Tools"
)

// PluginFunc extends a running corbaserver, typically by registering extra
// servants on its server.
type PluginFunc func(*Corbaserver) error

var (
	pluginMu sync.RWMutex
	plugins  = make(map[string]PluginFunc)
)

// RegisterPlugin makes a plugin available under a name. It is meant to be
// called from package init functions.
func RegisterPlugin(name string, fn PluginFunc) {
	pluginMu.Lock()
	defer pluginMu.Unlock()
	plugins[name] = fn
}

// Corbaserver owns the ORB, the IIOP server and the problem solver, and
// wires the servants to both.
type Corbaserver struct {
	orb    *corba.ORB
	server *corba.Server
	ps     *solver.ProblemSolver
	log    zerolog.Logger

	mu     sync.Mutex
	loaded map[string]bool
}

// NewCorbaserver creates a corbaserver listening on host:port. Port 0 lets
// the kernel pick one; query it with Port after Start.
func NewCorbaserver(host string, port int, log zerolog.Logger) (*Corbaserver, error) {
	ps, err := solver.NewProblemSolver()
	if err != nil {
		return nil, err
	}
	ps.SetLogger(log)

	orb := corba.Init()
	orb.RegisterServerRequestInterceptor(corba.NewLoggingInterceptor(log))
	server, err := orb.CreateServer(host, port)
	if err != nil {
		ps.Close()
		return nil, err
	}
	server.SetLogger(log)

	return &Corbaserver{
		orb:    orb,
		server: server,
		ps:     ps,
		log:    log,
		loaded: make(map[string]bool),
	}, nil
}

// Start registers the servants, activates the naming service and begins
// accepting connections.
func (cs *Corbaserver) Start() error {
	servants := map[string]corba.Servant{
		RobotKey:    NewRobotServant(cs.ps),
		ProblemKey:  NewProblemServant(cs.ps),
		ObstacleKey: NewObstacleServant(cs.ps),
		ToolsKey:    NewToolsServant(cs),
	}
	for key, servant := range servants {
		if err := cs.server.RegisterServant(key, servant); err != nil {
			return fmt.Errorf("registering %s: %w", key, err)
		}
	}

	if err := cs.orb.ActivateNamingService(cs.server); err != nil {
		return err
	}
	ns, err := cs.orb.GetNamingService()
	if err != nil {
		return err
	}
	root := ns.GetRootContext()
	for name, key := range map[string]string{
		"hpp/robot":    RobotKey,
		"hpp/problem":  ProblemKey,
		"hpp/obstacle": ObstacleKey,
		"hpp/tools":    ToolsKey,
	} {
		parsed, err := corba.ParseName(name)
		if err != nil {
			return err
		}
		if err := root.Bind(parsed, key); err != nil {
			return fmt.Errorf("binding %s: %w", name, err)
		}
	}

	if err := cs.server.Run(); err != nil {
		return err
	}
	cs.log.Info().Int("port", cs.server.Port()).Msg("hpp corbaserver started")
	return nil
}

// Stop shuts the server down and releases the solver resources
func (cs *Corbaserver) Stop() {
	if err := cs.server.Shutdown(); err != nil {
		cs.log.Warn().Err(err).Msg("server shutdown")
	}
	cs.orb.Shutdown(true)
	cs.ps.Close()
}

// Port returns the port the server listens on
func (cs *Corbaserver) Port() int {
	return cs.server.Port()
}

// ProblemSolver returns the solver shared by the servants
func (cs *Corbaserver) ProblemSolver() *solver.ProblemSolver {
	return cs.ps
}

// Server returns the underlying IIOP server, for plugins registering
// additional servants
func (cs *Corbaserver) Server() *corba.Server {
	return cs.server
}

// LoadPlugin runs a registered plugin against this server. Loading a plugin
// twice is a no-op.
func (cs *Corbaserver) LoadPlugin(name string) error {
	pluginMu.RLock()
	fn, ok := plugins[name]
	pluginMu.RUnlock()
	if !ok {
		return fmt.Errorf("plugin %s is not registered", name)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.loaded[name] {
		return nil
	}
	if err := fn(cs); err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	cs.loaded[name] = true
	cs.log.Info().Str("plugin", name).Msg("plugin loaded")
	return nil
}

// LoadedPlugins returns the names of the plugins loaded so far, sorted
func (cs *Corbaserver) LoadedPlugins() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	names := make([]string, 0, len(cs.loaded))
	for name := range cs.loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToolsServant serves server-level operations: plugin loading and
// introspection
type ToolsServant struct {
	cs *Corbaserver
}

// NewToolsServant creates the tools servant for a corbaserver
func NewToolsServant(cs *Corbaserver) *ToolsServant {
	return &ToolsServant{cs: cs}
}

// Dispatch handles incoming tools operations
func (s *ToolsServant) Dispatch(methodName string, args []interface{}) (interface{}, error) {
	switch methodName {
	case "loadServerPlugin":
		if err := checkArity(methodName, args, 1); err != nil {
			return nil, err
		}
		name, err := stringArg(methodName, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.cs.LoadPlugin(name)

	case "getLoadedPlugins":
		return s.cs.LoadedPlugins(), nil

	default:
		return nil, fmt.Errorf("method %s not supported by tools servant", methodName)
	}
}
