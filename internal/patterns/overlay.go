package patterns

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"jobparser/internal/errors"
)

// Overlay extends the built-in dictionaries from a YAML (or JSON/TOML) file:
//
//	skills:
//	  - name: Svelte
//	    category: frontend
//	benefits:
//	  - pattern: 'on-?site\s+gym'
//	    label: Wellness programs
//	action_verbs: [spearhead]
type Overlay struct {
	Skills      []OverlaySkill   `mapstructure:"skills"`
	Benefits    []OverlayBenefit `mapstructure:"benefits"`
	ActionVerbs []string         `mapstructure:"action_verbs"`

	// Digest is the sha256 of the source file, set by LoadOverlay.
	Digest string `mapstructure:"-"`
}

type OverlaySkill struct {
	Name     string `mapstructure:"name"`
	Category string `mapstructure:"category"`
}

type OverlayBenefit struct {
	Pattern string `mapstructure:"pattern"`
	Label   string `mapstructure:"label"`
}

// LoadOverlay reads an overlay file.
func LoadOverlay(path string) (Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read pattern overlay", err).
			WithContext("path", path)
	}

	v := viper.New()
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" || ext == "yml" {
		ext = "yaml"
	}
	v.SetConfigType(ext)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Overlay{}, errors.NewValidationError(errors.ErrCodeOverlayInvalid, "failed to decode pattern overlay", err).
			WithContext("path", path)
	}

	var o Overlay
	if err := v.Unmarshal(&o); err != nil {
		return Overlay{}, errors.NewValidationError(errors.ErrCodeOverlayInvalid, "failed to decode pattern overlay", err).
			WithContext("path", path)
	}

	sum := sha256.Sum256(data)
	o.Digest = hex.EncodeToString(sum[:])
	return o, nil
}

// With returns a new library extended by o. Overlay entries rank after the
// built-in ones; names already in the dictionary are skipped.
func (l *Library) With(o Overlay) (*Library, error) {
	c := l.clone()

	known := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		known[strings.ToLower(s.Name)] = true
	}
	for _, s := range o.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" || known[strings.ToLower(name)] {
			continue
		}
		known[strings.ToLower(name)] = true
		category := s.Category
		if category == "" {
			category = "custom"
		}
		c.Skills = append(c.Skills, NewSkill(name, category))
	}

	for i, b := range o.Benefits {
		if strings.TrimSpace(b.Label) == "" {
			return nil, errors.NewValidationError(errors.ErrCodeOverlayInvalid,
				fmt.Sprintf("benefit %d has no label", i), nil)
		}
		pattern, err := regexp.Compile(`(?i)` + b.Pattern)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeOverlayInvalid,
				fmt.Sprintf("benefit %q has an invalid pattern", b.Label), err)
		}
		c.Benefits = append(c.Benefits, Label{Pattern: pattern, Label: b.Label})
	}

	for _, verb := range o.ActionVerbs {
		if verb = strings.ToLower(strings.TrimSpace(verb)); verb != "" {
			c.ActionVerbs[verb] = true
		}
	}

	if o.Digest != "" {
		c.Version = l.Version + "+" + o.Digest[:min(12, len(o.Digest))]
	}
	return c, nil
}

// Load returns the built-in library extended by the overlay at path.
// An empty path yields the built-in library.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default(), nil
	}
	o, err := LoadOverlay(path)
	if err != nil {
		return nil, err
	}
	return Default().With(o)
}
