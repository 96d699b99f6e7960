// Package hpp is the client binding for the hpp corbaserver. It exposes the
// Robot and ProblemSolver facades over the CORBA transport, mirroring the
// interface the server exports.
package hpp

import (
	"fmt"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/corba"
	"github.com/humanoid-path-planner/hpp-corbaserver-go/servants"
)

// DefaultPort is the IIOP port the corbaserver listens on by default
const DefaultPort = 13331

// Client holds references to the corbaserver's servants. The zero value is
// not usable; create one with NewClient.
type Client struct {
	orb    *corba.ORB
	client *corba.Client
	host   string
	port   int

	robot    *corba.ObjectRef
	problem  *corba.ObjectRef
	obstacle *corba.ObjectRef
	tools    *corba.ObjectRef
}

// NewClient connects to a corbaserver and resolves its servant references
func NewClient(host string, port int) (*Client, error) {
	orb := corba.Init()
	client := orb.CreateClient()
	if err := client.Connect(host, port); err != nil {
		return nil, err
	}

	c := &Client{orb: orb, client: client, host: host, port: port}
	for _, ref := range []struct {
		key  string
		dest **corba.ObjectRef
	}{
		{servants.RobotKey, &c.robot},
		{servants.ProblemKey, &c.problem},
		{servants.ObstacleKey, &c.obstacle},
		{servants.ToolsKey, &c.tools},
	} {
		obj, err := client.GetObject(ref.key, host, port)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("resolving %s: %w", ref.key, err)
		}
		*ref.dest = obj
	}
	return c, nil
}

// Close releases the client's connections
func (c *Client) Close() {
	c.client.Close()
	c.orb.Shutdown(true)
}

// Robot returns the robot facade
func (c *Client) Robot() *Robot {
	return &Robot{ref: c.robot}
}

// Problem returns the problem solver facade
func (c *Client) Problem() *ProblemSolver {
	return &ProblemSolver{ref: c.problem}
}

// Obstacle returns the obstacle facade
func (c *Client) Obstacle() *Obstacle {
	return &Obstacle{ref: c.obstacle}
}

// LoadServerPlugin asks the server to load a named plugin
func (c *Client) LoadServerPlugin(name string) error {
	_, err := c.tools.Invoke("loadServerPlugin", name)
	return err
}

// LoadedPlugins returns the plugins the server has loaded
func (c *Client) LoadedPlugins() ([]string, error) {
	result, err := c.tools.Invoke("getLoadedPlugins")
	if err != nil {
		return nil, err
	}
	return stringSeqResult(result)
}
