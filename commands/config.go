package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/mobile-next/inputmeter/config"
)

// ConfigShowCommand returns the effective configuration. The credential is
// omitted by its json tag.
func ConfigShowCommand(configPath string) *CommandResponse {
	cfg, err := config.Load(configPath)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(cfg)
}

type ConfigInitRequest struct {
	Path        string
	URL         string
	KeypressURL string
	MouseURL    string
	Force       bool
}

// ConfigInitCommand writes a config file with the given endpoints.
func ConfigInitCommand(req ConfigInitRequest) *CommandResponse {
	path := req.Path
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return NewErrorResponse(err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !req.Force {
		return NewErrorResponse(fmt.Errorf("config %s already exists (use --force to overwrite)", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return NewErrorResponse(err)
	}

	cfg := config.Default()
	cfg.Report.URL = req.URL
	cfg.Report.KeypressURL = req.KeypressURL
	cfg.Report.MouseURL = req.MouseURL

	if err := cfg.Save(path); err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]string{"message": "config written", "path": path})
}
