package commands

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mobile-next/inputmeter/config"
	"github.com/mobile-next/inputmeter/hooks"
)

type DoctorInfo struct {
	Version          string                  `json:"version"`
	OS               string                  `json:"os"`
	OSVersion        string                  `json:"os_version"`
	Display          string                  `json:"display,omitempty"`
	ConfigPath       string                  `json:"config_path"`
	ConfigLoaded     bool                    `json:"config_loaded"`
	ConfigError      string                  `json:"config_error,omitempty"`
	KeypressURLSet   bool                    `json:"keypress_url_set"`
	MouseURLSet      bool                    `json:"mouse_url_set"`
	CredentialSource config.CredentialSource `json:"credential_source"`
	HookAvailable    bool                    `json:"hook_available"`
	HookDetail       string                  `json:"hook_detail"`
}

func getOSVersion() string {
	switch runtime.GOOS {
	case "darwin":
		cmd := exec.Command("sw_vers", "-productVersion")
		output, err := cmd.CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "windows":
		cmd := exec.Command("cmd", "/c", "ver")
		output, err := cmd.CombinedOutput()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(output))
	case "linux":
		// try reading /etc/os-release
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		lines := strings.Split(string(data), "\n")
		for _, line := range lines {
			if strings.HasPrefix(line, "PRETTY_NAME=") {
				return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
			}
		}
		return ""
	default:
		return ""
	}
}

// DoctorCommand reports the environment the agent would run in. The
// credential value itself is never included.
func DoctorCommand(version, configPath string) *CommandResponse {
	info := DoctorInfo{
		Version:   version,
		OS:        runtime.GOOS,
		OSVersion: getOSVersion(),
		Display:   os.Getenv("DISPLAY"),
	}

	info.HookAvailable, info.HookDetail = hooks.Available()

	cfg, err := config.Load(configPath)
	if err != nil {
		info.ConfigPath = configPath
		info.ConfigError = err.Error()
		return NewSuccessResponse(info)
	}

	info.ConfigPath = cfg.Path
	info.ConfigLoaded = cfg.FileLoaded
	info.KeypressURLSet = cfg.Report.KeypressURL != ""
	info.MouseURLSet = cfg.Report.MouseURL != ""
	info.CredentialSource = cfg.CredentialSource
	if err := cfg.Validate(); err != nil {
		info.ConfigError = err.Error()
	}

	return NewSuccessResponse(info)
}
