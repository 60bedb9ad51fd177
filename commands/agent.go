package commands

import (
	"context"
	"errors"

	"github.com/mobile-next/inputmeter/agent"
	"github.com/mobile-next/inputmeter/config"
	"github.com/mobile-next/inputmeter/daemon"
	"github.com/mobile-next/inputmeter/utils"
)

type AgentStatus struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	PidFile string `json:"pid_file"`
}

func pidFile(configPath string) (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	return cfg.Agent.PidFile, nil
}

func AgentStatusCommand(configPath string) *CommandResponse {
	path, err := pidFile(configPath)
	if err != nil {
		return NewErrorResponse(err)
	}

	status := AgentStatus{PidFile: path}
	pid, err := daemon.Status(path)
	switch {
	case err == nil:
		status.Running = true
		status.PID = pid
	case errors.Is(err, daemon.ErrNotRunning):
	default:
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(status)
}

func AgentStopCommand(configPath string) *CommandResponse {
	path, err := pidFile(configPath)
	if err != nil {
		return NewErrorResponse(err)
	}

	pid, err := daemon.Stop(path)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(AgentStatus{Running: false, PID: pid, PidFile: path})
}

type AgentRunRequest struct {
	ConfigPath string
	// Daemonized is set in a daemon child, where go-daemon owns the pid file
	// and stderr already points at the log file.
	Daemonized bool
}

type AgentRunResult struct {
	Instance string `json:"instance"`
	Stopped  bool   `json:"stopped"`
}

// AgentRunCommand runs the agent in the foreground until ctx is cancelled.
func AgentRunCommand(ctx context.Context, req AgentRunRequest) *CommandResponse {
	cfg, err := config.Load(req.ConfigPath)
	if err != nil {
		return NewErrorResponse(err)
	}
	if err := cfg.Validate(); err != nil {
		return NewErrorResponse(err)
	}

	if !req.Daemonized && cfg.Agent.LogFile != "" {
		if err := utils.SetLogFile(cfg.Agent.LogFile); err != nil {
			return NewErrorResponse(err)
		}
		defer func() { _ = utils.SetLogFile("") }()
	}

	a, err := agent.New(agent.Options{Config: cfg})
	if err != nil {
		return NewErrorResponse(err)
	}

	if !req.Daemonized {
		remove, err := daemon.WritePidFile(cfg.Agent.PidFile)
		if err != nil {
			return NewErrorResponse(err)
		}
		a.OnShutdown("pid-file", remove)
	}

	utils.Verbose("config: %s (loaded=%t), credential source: %s", cfg.Path, cfg.FileLoaded, cfg.CredentialSource)

	if err := a.Run(ctx); err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(AgentRunResult{Instance: a.ID(), Stopped: true})
}
