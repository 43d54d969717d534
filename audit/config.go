// CLAUDE:SUMMARY Service configuration: YAML-loadable settings for storage, evaluator, fetcher, and run options.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/axaudit/evaluate"
	"github.com/hazyhaar/axaudit/fetch"
)

// Config is the full service configuration, loadable from YAML.
type Config struct {
	// DBPath is the SQLite database file. Default: "audit.db".
	DBPath string `json:"db_path" yaml:"db_path"`

	// OutputDir receives report CSVs and run manifests. Default: "output".
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ListenAddr for the HTTP surface. Default: ":8087".
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`

	// Workers bounds concurrent evaluation calls. Default: 4.
	Workers int `json:"workers" yaml:"workers"`

	// TaskTimeout boxes each evaluation call. Default: 120s.
	TaskTimeout time.Duration `json:"task_timeout" yaml:"task_timeout"`

	Evaluator evaluate.Config `json:"evaluator" yaml:"evaluator"`
	Fetch     fetch.Config    `json:"fetch" yaml:"fetch"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "audit.db"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8087"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// LoadConfig reads a YAML config file and applies defaults. A missing path
// yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("audit: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("audit: parse config %s: %w", path, err)
		}
	}
	cfg.defaults()
	return &cfg, nil
}
