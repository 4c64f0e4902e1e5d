// Package vanitygen drives an external vanitygen executable: it builds its
// arguments, runs synchronous probes, and supervises continuous searches that
// stream results back through a named pipe.
//
// Tool settings (executable, working directory, network) live in a Client.
// Every call snapshots them when it starts, so changing a setting never
// affects a process that is already running. The package-level functions use
// a shared default Client.
package vanitygen

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const DefaultExecutable = "vanitygen"

// Config is a snapshot of the tool settings used by one call.
type Config struct {
	Executable string
	WorkDir    string // "" runs the tool in the caller's working directory
	Network    Network

	// Continuous-mode timings; zero values select the defaults below.
	PollInterval time.Duration // stream reader wake-up period
	DrainTimeout time.Duration // max idle time on the pipe after the tool exits
	StopGrace    time.Duration // SIGTERM to SIGKILL delay during teardown
}

const (
	DefaultPollInterval = 50 * time.Millisecond
	DefaultDrainTimeout = time.Second
	DefaultStopGrace    = 2 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Executable == "" {
		c.Executable = DefaultExecutable
	}
	if c.Network == "" {
		c.Network = DefaultNetwork
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = DefaultDrainTimeout
	}
	if c.StopGrace <= 0 {
		c.StopGrace = DefaultStopGrace
	}
	return c
}

// Client holds the tool settings. It is safe for concurrent use.
type Client struct {
	mu  sync.RWMutex
	cfg Config
}

// New returns a Client; cfg.Network is validated and cfg.WorkDir created.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if !cfg.Network.Valid() {
		return nil, fmt.Errorf("%w: %q not supported", ErrUnknownNetwork, cfg.Network)
	}
	if cfg.WorkDir != "" {
		if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
	}
	return &Client{cfg: cfg}, nil
}

// Config returns the current settings.
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *Client) Network() Network { return c.Config().Network }

// SetNetwork switches the network for later calls. Unknown names are
// rejected and leave the setting unchanged.
func (c *Client) SetNetwork(name string) error {
	n, err := ParseNetwork(name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg.Network = n
	c.mu.Unlock()
	return nil
}

func (c *Client) Executable() string { return c.Config().Executable }

// SetExecutable sets the tool name or path; "" restores the default.
func (c *Client) SetExecutable(exe string) {
	if exe == "" {
		exe = DefaultExecutable
	}
	c.mu.Lock()
	c.cfg.Executable = exe
	c.mu.Unlock()
}

func (c *Client) WorkDir() string { return c.Config().WorkDir }

// SetWorkDir sets the directory the tool runs in and temporary files are
// created in, creating it if needed. "" means the caller's working directory.
func (c *Client) SetWorkDir(dir string) error {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
	}
	c.mu.Lock()
	c.cfg.WorkDir = dir
	c.mu.Unlock()
	return nil
}

var std, _ = New(Config{})

// Default returns the shared Client behind the package-level functions.
func Default() *Client { return std }

func SetNetwork(name string) error { return std.SetNetwork(name) }
func CurrentNetwork() Network { return std.Network() }
func SetExecutable(exe string) { std.SetExecutable(exe) }
func Executable() string { return std.Executable() }
func SetWorkDir(dir string) error { return std.SetWorkDir(dir) }
func WorkDir() string { return std.WorkDir() }
