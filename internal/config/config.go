package config

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr        = ":8112"
	DefaultGRPCAddr    = ":8113"
	DefaultDBPath      = "owltest.db"
	DefaultTabSize     = 4
	DefaultMode        = "python"
	DefaultLockDelayMS = 10000
)

type File struct {
	Version int    `yaml:"version" json:"version"`
	Server  Server `yaml:"server" json:"server"`
	Render  Render `yaml:"render" json:"render"`
	Submit  Submit `yaml:"submit" json:"submit"`
}

type Server struct {
	Addr     string `yaml:"addr" json:"addr"`
	GRPCAddr string `yaml:"grpc_addr,omitempty" json:"grpc_addr,omitempty"`
	DBPath   string `yaml:"db_path" json:"db_path"`
	MDNS     *bool  `yaml:"mdns,omitempty" json:"mdns,omitempty"`
}

type Render struct {
	TabSize  int      `yaml:"tab_size" json:"tab_size"`
	Mode     string   `yaml:"mode" json:"mode"`
	Priority []string `yaml:"priority,omitempty" json:"priority,omitempty"`
	FlatTabs []string `yaml:"flat_tabs,omitempty" json:"flat_tabs,omitempty"`
}

type Submit struct {
	LockDelayMS int    `yaml:"lock_delay_ms" json:"lock_delay_ms"`
	StudentURL  string `yaml:"student_url,omitempty" json:"student_url,omitempty"`
}

// Default is the configuration used when no file is given.
func Default() File {
	return File{
		Version: 1,
		Server:  Server{Addr: DefaultAddr, GRPCAddr: DefaultGRPCAddr, DBPath: DefaultDBPath},
		Render:  Render{TabSize: DefaultTabSize, Mode: DefaultMode},
		Submit:  Submit{LockDelayMS: DefaultLockDelayMS},
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes a config file over Default, so omitted keys keep their
// defaults.
func Parse(data []byte, source string) (File, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// ApplyEnv overrides file values from OWLTEST_* environment variables.
func (cfg File) ApplyEnv() File {
	cfg.Server.Addr = envOrDefault("OWLTEST_SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.GRPCAddr = envOrDefault("OWLTEST_GRPC_ADDR", cfg.Server.GRPCAddr)
	cfg.Server.DBPath = envOrDefault("OWLTEST_DB", cfg.Server.DBPath)
	if v := envOrDefault("OWLTEST_MDNS_ENABLE", ""); v != "" {
		enabled := isTruthy(v)
		cfg.Server.MDNS = &enabled
	}
	return cfg
}

func (cfg File) MDNSEnabled() bool {
	return cfg.Server.MDNS == nil || *cfg.Server.MDNS
}

func (cfg File) LockDelay() time.Duration {
	return time.Duration(cfg.Submit.LockDelayMS) * time.Millisecond
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	} else if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		errs = append(errs, fmt.Sprintf("server.addr %q is not host:port", cfg.Server.Addr))
	}
	if addr := strings.TrimSpace(cfg.Server.GRPCAddr); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, fmt.Sprintf("server.grpc_addr %q is not host:port", addr))
		}
	}
	if strings.TrimSpace(cfg.Server.DBPath) == "" {
		errs = append(errs, "server.db_path is required")
	}
	if cfg.Render.TabSize < 1 || cfg.Render.TabSize > 16 {
		errs = append(errs, fmt.Sprintf("render.tab_size must be between 1 and 16, got %d", cfg.Render.TabSize))
	}
	for i, term := range cfg.Render.Priority {
		if term == "" {
			errs = append(errs, fmt.Sprintf("render.priority[%d] must not be empty", i))
		}
	}
	seenFlat := map[string]struct{}{}
	for i, id := range cfg.Render.FlatTabs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Sprintf("render.flat_tabs[%d] must not be empty", i))
			continue
		}
		if _, ok := seenFlat[id]; ok {
			errs = append(errs, fmt.Sprintf("render.flat_tabs[%d] duplicate %q", i, id))
		}
		seenFlat[id] = struct{}{}
	}
	if cfg.Submit.LockDelayMS < 0 {
		errs = append(errs, "submit.lock_delay_ms must be >= 0")
	}
	if u := strings.TrimSpace(cfg.Submit.StudentURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		errs = append(errs, fmt.Sprintf("submit.student_url %q must be an http(s) URL", u))
	}

	return errs
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func isTruthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(v), "yes") || strings.EqualFold(strings.TrimSpace(v), "on")
	}
	return b
}
