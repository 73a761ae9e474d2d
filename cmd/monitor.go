package cmd

import (
	"fmt"

	"conni/config"
	"conni/heartbeat"
	"conni/lights"
	"conni/network"
	"conni/node"
	"conni/notify"
	"conni/poll"
	"conni/status"

	"github.com/rs/zerolog/log"
)

// monitor is the wired set of components behind `conni run`.
type monitor struct {
	checker   *network.Checker
	task      *poll.Task
	indicator *lights.Indicator
	recorder  *status.Recorder
	server    *status.Server
}

func newMonitor(c *config.Config) (*monitor, error) {
	req, err := c.Request()
	if err != nil {
		return nil, err
	}

	nodeName := node.Name(c.Node.Name)
	base := log.With().Str("node", nodeName).Logger()

	checker, err := network.NewChecker(req, c.Probe.Timeout, base.With().Str("component", "checker").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create checker: %w", err)
	}

	var light lights.Light = lights.NewMemoryLight()
	if c.Light.Port != "" {
		light = lights.NewTrafficLight(c.Light.Port, c.Light.Baud)
	}
	indicator := lights.NewIndicator(light, base.With().Str("component", "light").Logger())
	checker.Register(indicator)

	recorder := status.NewRecorder(req.URL())
	checker.Register(recorder)

	if c.Heartbeat.URL != "" {
		checker.Register(heartbeat.New(c.Heartbeat.URL, c.Heartbeat.Interval, base.With().Str("component", "heartbeat").Logger()))
	}
	if c.Notify.URL != "" {
		checker.Register(notify.New(c.Notify.URL, nodeName, base.With().Str("component", "notify").Logger()))
	}

	task := poll.NewTask(checker, c.Poll.SuccessInterval, c.Poll.FailureInterval, base.With().Str("component", "poll").Logger())

	m := &monitor{
		checker:   checker,
		task:      task,
		indicator: indicator,
		recorder:  recorder,
	}
	if c.Status.Addr != "" {
		m.server = status.NewServer(c.Status.Addr, recorder)
	}

	return m, nil
}
