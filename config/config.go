// Package config defines and loads voice2doc's configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../tools/schema-generator

// PipelineConfig tunes classification and structuring.
type PipelineConfig struct {
	// RequestedType pins the target document type (adr, prd, rfc, pr).
	// It wins exact classification ties and serves as the fallback when
	// auto-detection stays below the threshold.
	RequestedType string `yaml:"requested_type,omitempty"`

	// ClassifierThreshold is the minimum score a template must reach for
	// auto-detection. Default 0.2.
	ClassifierThreshold float64 `yaml:"classifier_threshold,omitempty"`

	// StructuringMinAffinity is the minimum utterance/section affinity for
	// assignment. Default 0.12.
	StructuringMinAffinity float64 `yaml:"structuring_min_affinity,omitempty"`

	// TieMargin is the maximum affinity gap treated as a near-tie during
	// structuring. Default 0.05.
	TieMargin float64 `yaml:"tie_margin,omitempty"`
}

// NormalizerConfig tunes transcript normalization.
type NormalizerConfig struct {
	// Fillers overrides the default filler-word stoplist.
	Fillers []string `yaml:"fillers,omitempty"`

	// PauseSplitSeconds is the silence gap that splits utterances when
	// word timing is available. Default 1.2.
	PauseSplitSeconds float64 `yaml:"pause_split_seconds,omitempty"`

	// DisableEnumerationRewrite keeps spoken list markers ("step one")
	// verbatim instead of rewriting them to "1." form.
	DisableEnumerationRewrite bool `yaml:"disable_enumeration_rewrite,omitempty"`
}

// TemplatesConfig points at user template files layered over the built-ins.
type TemplatesConfig struct {
	// Paths are YAML template files registered in addition to the
	// built-in adr, prd, rfc, and pr templates.
	Paths []string `yaml:"paths,omitempty"`
}

// NotionConfig holds publish settings. The integration token itself always
// comes from the NOTION_TOKEN environment variable, never from the file.
type NotionConfig struct {
	// ParentPageID is the page new documents are created under.
	ParentPageID string `yaml:"parent_page_id,omitempty"`

	// Icon is the emoji icon for created pages. Default 💡.
	Icon string `yaml:"icon,omitempty"`
}

// Config is the top-level configuration structure for voice2doc.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline,omitempty"`
	Normalizer NormalizerConfig `yaml:"normalizer,omitempty"`
	Templates  TemplatesConfig  `yaml:"templates,omitempty"`
	Notion     NotionConfig     `yaml:"notion,omitempty"`

	// Project is the project name stamped into rendered document headers.
	Project string `yaml:"project,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ClassifierThreshold:    0.2,
			StructuringMinAffinity: 0.12,
			TieMargin:              0.05,
		},
		Normalizer: NormalizerConfig{
			PauseSplitSeconds: 1.2,
		},
		Notion: NotionConfig{
			Icon: "💡",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "voice2doc", "config.yaml")
}

// Load reads the config file at path, falling back to DefaultPath when path
// is empty. A missing file yields the defaults; a malformed file is an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
