package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/opdot/opdot/pkg/dot"
	"github.com/opdot/opdot/pkg/errors"
)

// Config holds the user's persistent defaults, loaded from
// ~/.config/opdot/config.toml. Command-line flags override file values.
type Config struct {
	CacheDir string       `toml:"cache_dir"`
	Export   ExportConfig `toml:"export"`
}

// ExportConfig mirrors dot.Options in the config file.
type ExportConfig struct {
	DataFlow          bool `toml:"data_flow"`
	ControlFlow       bool `toml:"control_flow"`
	RegionControlFlow bool `toml:"region_control_flow"`
	ResultTypes       bool `toml:"result_types"`
	Attrs             bool `toml:"attrs"`
	Condense          bool `toml:"condense"`
	MaxLabelLen       int  `toml:"max_label_len"`
	ElideElementsOver int  `toml:"elide_elements_over"`
}

// Options converts the config section to exporter options.
func (c ExportConfig) Options() dot.Options {
	return dot.Options{
		DataFlowEdges:          c.DataFlow,
		ControlFlowEdges:       c.ControlFlow,
		RegionControlFlowEdges: c.RegionControlFlow,
		ResultTypes:            c.ResultTypes,
		Attributes:             c.Attrs,
		CondenseBlocks:         c.Condense,
		MaxLabelLen:            c.MaxLabelLen,
		LargeElementLimit:      c.ElideElementsOver,
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	opts := dot.DefaultOptions()
	return Config{
		CacheDir: defaultCacheDir(),
		Export: ExportConfig{
			DataFlow:          opts.DataFlowEdges,
			ControlFlow:       opts.ControlFlowEdges,
			RegionControlFlow: opts.RegionControlFlowEdges,
			ResultTypes:       opts.ResultTypes,
			Attrs:             opts.Attributes,
			Condense:          opts.CondenseBlocks,
			MaxLabelLen:       opts.MaxLabelLen,
			ElideElementsOver: opts.LargeElementLimit,
		},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults; a malformed file is
// an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigPath()
	}
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, nil
}

// defaultConfigPath returns ~/.config/opdot/config.toml, or empty when the
// user config dir cannot be determined.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "opdot", "config.toml")
}

// defaultCacheDir returns ~/.cache/opdot, falling back to a temp dir.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "opdot-cache")
	}
	return filepath.Join(dir, "opdot")
}
