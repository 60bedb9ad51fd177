package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/mobile-next/inputmeter/config"
)

type CredentialInfo struct {
	Source     config.CredentialSource `json:"source"`
	Credential string                  `json:"credential,omitempty"`
}

func SetCredentialCommand(value string) *CommandResponse {
	value = strings.TrimSpace(value)
	if value == "" {
		return NewErrorResponse(errors.New("credential must not be empty"))
	}

	if err := keyring.Set(config.KeyringService, config.KeyringUser, value); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to store credential in keyring: %w", err))
	}

	return NewSuccessResponse(map[string]string{"message": "credential stored in keyring"})
}

// ShowCredentialCommand reports where the effective credential comes from.
// The value is masked unless reveal is set.
func ShowCredentialCommand(configPath string, reveal bool) *CommandResponse {
	cfg, err := config.Load(configPath)
	if err != nil {
		return NewErrorResponse(err)
	}

	info := CredentialInfo{Source: cfg.CredentialSource}
	if cfg.CredentialSource != config.CredentialNone {
		info.Credential = maskCredential(cfg.Report.Credential)
		if reveal {
			info.Credential = cfg.Report.Credential
		}
	}

	return NewSuccessResponse(info)
}

func DeleteCredentialCommand() *CommandResponse {
	if err := keyring.Delete(config.KeyringService, config.KeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return NewErrorResponse(errors.New("no credential stored in keyring"))
		}
		return NewErrorResponse(fmt.Errorf("failed to delete credential: %w", err))
	}

	return NewSuccessResponse(map[string]string{"message": "credential removed from keyring"})
}

func maskCredential(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
