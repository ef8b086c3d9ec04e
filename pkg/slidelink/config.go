package slidelink

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink/connector"
)

// Config is the on-disk configuration read by the CLI.
//
//	mode = "rebuild"
//	slides = [1, 3]
//	min_markup_length = 200
//	parallel = 4
//	log_level = "debug"
type Config struct {
	Mode            string `toml:"mode"`
	Slides          []int  `toml:"slides"`
	MinMarkupLength int    `toml:"min_markup_length"`
	Parallel        int    `toml:"parallel"`
	LogLevel        string `toml:"log_level"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Options converts the configuration into post-processing options.
func (c Config) Options() (Options, error) {
	opts := DefaultOptions()
	mode, err := connector.ParseMode(c.Mode)
	if err != nil {
		return Options{}, err
	}
	opts.Mode = mode
	opts.Slides = SlidePaths(c.Slides)
	if c.MinMarkupLength > 0 {
		opts.MinMarkupLength = c.MinMarkupLength
	}
	return opts, nil
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(c.LogLevel)
}

// SlidePaths converts 1-based slide numbers to slide part paths.
func SlidePaths(numbers []int) []string {
	var out []string
	for _, n := range numbers {
		if n > 0 {
			out = append(out, fmt.Sprintf("ppt/slides/slide%d.xml", n))
		}
	}
	return out
}
