// Package config loads the agent settings from an INI file, the environment
// and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/ini.v1"
)

const (
	AppName         = "inputmeter"
	KeyringService  = AppName
	KeyringUser     = "credential"
	DefaultInterval = 10 * time.Second
)

const (
	EnvURL         = "INPUTMETER_URL"
	EnvKeypressURL = "INPUTMETER_KEYPRESS_URL"
	EnvMouseURL    = "INPUTMETER_MOUSE_URL"
	EnvCredential  = "INPUTMETER_CREDENTIAL"
	EnvInterval    = "INPUTMETER_INTERVAL"
)

// ErrMissingEndpoint is returned by Validate when a report URL is not set.
var ErrMissingEndpoint = errors.New("report endpoint not configured")

type CredentialSource string

const (
	CredentialNone    CredentialSource = "none"
	CredentialEnv     CredentialSource = "env"
	CredentialKeyring CredentialSource = "keyring"
	CredentialFile    CredentialSource = "file"
)

type Report struct {
	URL         string        `ini:"url" json:"url,omitempty"`
	KeypressURL string        `ini:"keypress_url" json:"keypressUrl"`
	MouseURL    string        `ini:"mouse_url" json:"mouseUrl"`
	Interval    time.Duration `ini:"interval" json:"interval"`
	Timeout     time.Duration `ini:"timeout" json:"timeout"`
	Credential  string        `ini:"credential" json:"-"`
}

type Agent struct {
	StrictListeners bool   `ini:"strict_listeners" json:"strictListeners"`
	LogFile         string `ini:"log_file" json:"logFile,omitempty"`
	PidFile         string `ini:"pid_file" json:"pidFile"`
}

type Config struct {
	Report           Report           `json:"report"`
	Agent            Agent            `json:"agent"`
	Path             string           `json:"path,omitempty"`
	FileLoaded       bool             `json:"fileLoaded"`
	CredentialSource CredentialSource `json:"credentialSource"`
}

// DefaultPath is <user config dir>/inputmeter/config.ini.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.ini"), nil
}

func DefaultPidFile() string {
	return filepath.Join(os.TempDir(), AppName+".pid")
}

func Default() *Config {
	return &Config{
		Report: Report{
			Interval: DefaultInterval,
		},
		Agent: Agent{
			PidFile: DefaultPidFile(),
		},
		CredentialSource: CredentialNone,
	}
}

// Load reads path, or the default path when path is empty, then applies the
// environment and resolves the credential. A missing default file is not an
// error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}
	path = abs
	cfg.Path = path

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.FileLoaded = true
		cfg.Agent.resolvePaths(filepath.Dir(path))
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.resolveCredential()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := f.Section("report").MapTo(&c.Report); err != nil {
		return fmt.Errorf("invalid [report] section in %s: %w", path, err)
	}
	if err := f.Section("agent").MapTo(&c.Agent); err != nil {
		return fmt.Errorf("invalid [agent] section in %s: %w", path, err)
	}

	return nil
}

// resolvePaths anchors relative pid and log files to dir, so a daemon child
// running from / agrees with the parent that started it.
func (a *Agent) resolvePaths(dir string) {
	for _, p := range []*string{&a.PidFile, &a.LogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvURL); v != "" {
		c.Report.URL = v
	}
	if v := os.Getenv(EnvKeypressURL); v != "" {
		c.Report.KeypressURL = v
	}
	if v := os.Getenv(EnvMouseURL); v != "" {
		c.Report.MouseURL = v
	}
	if v := os.Getenv(EnvInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvInterval, v, err)
		}
		c.Report.Interval = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Report.KeypressURL == "" {
		c.Report.KeypressURL = c.Report.URL
	}
	if c.Report.MouseURL == "" {
		c.Report.MouseURL = c.Report.URL
	}
	if c.Agent.PidFile == "" {
		c.Agent.PidFile = DefaultPidFile()
	}
}

// resolveCredential picks the first of environment, keyring and file.
func (c *Config) resolveCredential() {
	if v := os.Getenv(EnvCredential); v != "" {
		c.Report.Credential = v
		c.CredentialSource = CredentialEnv
		return
	}

	if v, err := keyring.Get(KeyringService, KeyringUser); err == nil && v != "" {
		c.Report.Credential = v
		c.CredentialSource = CredentialKeyring
		return
	}

	if c.Report.Credential != "" {
		c.CredentialSource = CredentialFile
		return
	}

	c.CredentialSource = CredentialNone
}

func (c *Config) Validate() error {
	if c.Report.KeypressURL == "" {
		return fmt.Errorf("%w: keypress url (set [report] url or %s)", ErrMissingEndpoint, EnvKeypressURL)
	}
	if c.Report.MouseURL == "" {
		return fmt.Errorf("%w: mouse url (set [report] url or %s)", ErrMissingEndpoint, EnvMouseURL)
	}
	for _, raw := range []string{c.Report.KeypressURL, c.Report.MouseURL} {
		if err := validateURL(raw); err != nil {
			return err
		}
	}
	if c.Report.Interval <= 0 {
		return fmt.Errorf("report interval must be positive, got %s", c.Report.Interval)
	}
	if c.Report.Timeout < 0 {
		return fmt.Errorf("report timeout must not be negative, got %s", c.Report.Timeout)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid report url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid report url %q: expected http(s)://host/path", raw)
	}
	return nil
}

// Save writes the file-backed settings to path. The credential is only
// written when it came from the file itself.
func (c *Config) Save(path string) error {
	f := ini.Empty()

	report, err := f.NewSection("report")
	if err != nil {
		return err
	}
	type kv struct{ key, value string }
	values := []kv{
		{"url", c.Report.URL},
		{"keypress_url", c.Report.KeypressURL},
		{"mouse_url", c.Report.MouseURL},
		{"interval", c.Report.Interval.String()},
	}
	if c.Report.Timeout > 0 {
		values = append(values, kv{"timeout", c.Report.Timeout.String()})
	}
	if c.CredentialSource == CredentialFile {
		values = append(values, kv{"credential", c.Report.Credential})
	}
	for _, v := range values {
		if _, err := report.NewKey(v.key, v.value); err != nil {
			return fmt.Errorf("failed to write %s: %w", v.key, err)
		}
	}

	agent, err := f.NewSection("agent")
	if err != nil {
		return err
	}
	agent.Key("strict_listeners").SetValue(fmt.Sprintf("%t", c.Agent.StrictListeners))
	agent.Key("log_file").SetValue(c.Agent.LogFile)
	agent.Key("pid_file").SetValue(c.Agent.PidFile)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}
