package config

import (
	"time"

	flag "github.com/spf13/pflag"
)

type ClientConfig struct {
	Client     Client
	Session    Session
	Input      Input
	Monitoring Monitoring
	Webrtc     Webrtc
}

type Client struct {
	Debug bool
	// session service websocket endpoint, e.g. ws://host:port/session
	ServiceAddress string
}

// Session holds the remote stream session parameters.
type Session struct {
	// identifier of the resource pool sessions are allocated from
	Group string
	// identifier of the application template to launch
	App string
	// preferred region, used as the default location list
	Region string
	// caller-supplied user id, generated when empty
	UserId string
	// passed through to the launched application
	LaunchArgs []string          `fig:"launchargs"`
	EnvVars    map[string]string `fig:"envvars"`
	// remote ceilings
	ConnectionTimeout time.Duration `fig:"connectiontimeout" default:"600s"`
	Length            time.Duration `fig:"length" default:"4h"`
	// status poll cadence
	PollInterval time.Duration `fig:"pollinterval" default:"2s"`
	// stored descriptors older than this are treated as absent
	MaxAge time.Duration `fig:"maxage" default:"1h"`
	// single-slot descriptor storage
	StorePath string `fig:"storepath" default:".streamlift-session"`
}

type Input struct {
	// directional keys are ignored below this percent of the joystick radius
	Deadzone int `fig:"deadzone" default:"20"`
	// d-pad continuous move tick, one per display frame
	RepeatTick time.Duration `fig:"repeattick" default:"16ms"`
	MoveSpeed  int           `fig:"movespeed" default:"16"`
	// render virtual widgets regardless of mobile detection
	ForceWidgets bool
}

type Monitoring struct {
	Port             int
	URLPrefix        string `fig:"urlprefix"`
	MetricEnabled    bool   `fig:"metric_enabled"`
	ProfilingEnabled bool   `fig:"profiling_enabled"`
}

func (m *Monitoring) IsEnabled() bool { return m.MetricEnabled || m.ProfilingEnabled }

// allows custom config path
var clientConfigPath string

func NewClientConfig() (conf ClientConfig) {
	if err := LoadConfig(&conf, clientConfigPath); err != nil {
		panic(err)
	}
	return
}

func (c *ClientConfig) ParseFlags() {
	flag.StringVar(&c.Client.ServiceAddress, "service", c.Client.ServiceAddress, "Session service address (ws://host:port/path)")
	flag.StringVar(&c.Session.Group, "group", c.Session.Group, "Stream group identifier")
	flag.StringVar(&c.Session.App, "app", c.Session.App, "Application identifier")
	flag.StringVar(&c.Session.UserId, "user", c.Session.UserId, "User identifier (generated when empty)")
	flag.BoolVar(&c.Client.Debug, "debug", c.Client.Debug, "Enable debug logs")
	flag.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port")
	flag.StringVar(&clientConfigPath, "conf", clientConfigPath, "Set custom configuration file path")
	flag.Parse()
}
