// Package endpoint resolves OpenSRS API environments to URLs.
//
// The catalogue is embedded as YAML so that a new environment (for example a
// regional live host) is a data change, not a code change.
package endpoint

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed environments/*.yaml
var catalogueFS embed.FS

const catalogueFile = "environments/opensrs.yaml"

// Environment names shipped in the catalogue.
const (
	Test = "test"
	Live = "live"
)

// ErrUnknownEnvironment is returned for a name not in the catalogue.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Catalogue lists the environments of an API.
type Catalogue struct {
	Name         string                 `yaml:"name"`
	Description  string                 `yaml:"description"`
	Environments map[string]Environment `yaml:"environments"`
}

// Environment is a single API host.
type Environment struct {
	Name        string `yaml:"-"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cached  *Catalogue
)

// Load returns the embedded catalogue, parsing it on first use.
func Load() (*Catalogue, error) {
	cacheMu.RLock()
	if cached != nil {
		c := cached
		cacheMu.RUnlock()
		return c, nil
	}
	cacheMu.RUnlock()

	data, err := catalogueFS.ReadFile(catalogueFile)
	if err != nil {
		return nil, fmt.Errorf("reading environment catalogue: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cached = c
	cacheMu.Unlock()

	return c, nil
}

// Parse decodes and validates a catalogue document.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing environment catalogue: %w", err)
	}
	for name, env := range c.Environments {
		if err := validateURL(env.URL); err != nil {
			return nil, fmt.Errorf("environment %q: %w", name, err)
		}
		env.Name = name
		c.Environments[name] = env
	}
	return &c, nil
}

// Lookup returns the named environment. Names are case-insensitive.
func (c *Catalogue) Lookup(name string) (Environment, error) {
	env, ok := c.Environments[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownEnvironment, name, strings.Join(c.Names(), ", "))
	}
	return env, nil
}

// Names returns the environment names, sorted.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves name against the embedded catalogue.
func Lookup(name string) (Environment, error) {
	c, err := Load()
	if err != nil {
		return Environment{}, err
	}
	return c.Lookup(name)
}

// URL resolves name to its URL against the embedded catalogue.
func URL(name string) (string, error) {
	env, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return env.URL, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", raw)
	}
	return nil
}
