package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"regexp"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// Patterns is a list of regular expressions which could be written in
	// configuration either as a single string or as a list.
	Patterns []string

	WidthRule struct {
		Match string  `yaml:"match" validate:"required"`
		Width float64 `yaml:"width" validate:"gt=0"`
	}

	MediaOptionConfig struct {
		MediaParam       string  `yaml:"media_param" validate:"required"`
		ViewportWidth    float64     `yaml:"viewport_width,omitempty" validate:"gte=0"`
		ViewportWidths   []WidthRule `yaml:"viewport_widths,omitempty" validate:"dive"`
		UnitToConvert    string      `yaml:"unit_to_convert,omitempty"`
		ViewportUnit     string      `yaml:"viewport_unit,omitempty"`
		FontViewportUnit string      `yaml:"font_viewport_unit,omitempty"`
		Enable           *bool       `yaml:"enable,omitempty"`
	}

	TransformConfig struct {
		UnitToConvert     string              `yaml:"unit_to_convert" validate:"required"`
		ViewportUnit      string              `yaml:"viewport_unit" validate:"required"`
		FontViewportUnit  string              `yaml:"font_viewport_unit" validate:"required"`
		ViewportWidth     float64             `yaml:"viewport_width" validate:"gte=0"`
		ViewportWidths    []WidthRule         `yaml:"viewport_widths" validate:"dive"`
		ViewportHeight    float64             `yaml:"viewport_height" validate:"gte=0"`
		UnitPrecision     int                 `yaml:"unit_precision" validate:"min=0,max=20"`
		MinPixelValue     float64             `yaml:"min_pixel_value" validate:"gte=0"`
		Enable            bool                `yaml:"enable"`
		Include           Patterns            `yaml:"include,omitempty"`
		Exclude           Patterns            `yaml:"exclude,omitempty"`
		SelectorBlackList []string            `yaml:"selector_black_list" validate:"dive,required"`
		PropList          []string            `yaml:"prop_list" validate:"dive,required"`
		Replace           bool                `yaml:"replace"`
		MediaQuery        bool                `yaml:"media_query"`
		MediaOptions      []MediaOptionConfig `yaml:"media_options" validate:"dive"`
	}

	ProcessingConfig struct {
		Pattern string `yaml:"pattern" validate:"required"`
		Workers int    `yaml:"workers" validate:"gte=0"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Transform  TransformConfig  `yaml:"transform"`
		Processing ProcessingConfig `yaml:"processing"`
		Logging    LoggingConfig    `yaml:"logging"`
	}
)

// UnmarshalYAML accepts scalar or sequence of scalars, anything else is an
// error.
func (p *Patterns) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*p = nil
			return nil
		}
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*p = Patterns{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("line %d: patterns should be regular expressions: %w", value.Line, err)
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("line %d: should be regular expression or list of regular expressions", value.Line)
	}
}

// checkPatterns makes sure all regular expressions in configuration compile.
func checkPatterns(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	tc := &cfg.Transform

	check := func(list []string, field string) {
		for _, s := range list {
			if _, err := regexp.Compile(s); err != nil {
				sl.ReportError(list, field, field, "regexp", s)
				return
			}
		}
	}
	check(tc.Include, "Include")
	check(tc.Exclude, "Exclude")
	for _, r := range tc.ViewportWidths {
		check([]string{r.Match}, "ViewportWidths")
	}
	for _, m := range tc.MediaOptions {
		for _, r := range m.ViewportWidths {
			check([]string{r.Match}, "MediaOptions")
		}
	}
	for _, s := range tc.SelectorBlackList {
		if expr, ok := slashed(s); ok {
			check([]string{expr}, "SelectorBlackList")
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkPatterns)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
