package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-fields/engine/renderer"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidSettings is returned when a settings file parses but holds values the engine cannot use.
var ErrInvalidSettings = errors.New("invalid settings")

// RendererSettings selects and configures the renderer backend.
type RendererSettings struct {
	// Backend is "headless" or "wgpu".
	Backend string `toml:"backend"`

	// ForceSoftware requests the fallback adapter on the wgpu backend.
	ForceSoftware bool `toml:"force_software"`
}

// Settings holds the file-configurable defaults applied to new blocks.
type Settings struct {
	// DefaultColor is the hex color every rendering handle starts from.
	DefaultColor string `toml:"default_color"`

	// Scale is the per-axis scale applied to every rendering handle.
	Scale [3]float32 `toml:"scale"`

	// CompileWorkers is the number of workers used to compile materials. 0 or 1 compiles serially.
	CompileWorkers int `toml:"compile_workers"`

	// ValidateGeometry enables index and length checks at block construction.
	ValidateGeometry bool `toml:"validate_geometry"`

	Renderer RendererSettings `toml:"renderer"`
}

// Default returns the settings used when no file is provided.
//
// Returns:
//   - Settings: the default settings
func Default() Settings {
	return Settings{
		DefaultColor:     "#ffffff",
		Scale:            [3]float32{1, 1, 1},
		CompileWorkers:   0,
		ValidateGeometry: true,
		Renderer: RendererSettings{
			Backend: "headless",
		},
	}
}

// Load reads and parses the TOML settings file at path.
//
// Parameters:
//   - path: the settings file path
//
// Returns:
//   - Settings: the parsed settings, with unset keys taken from Default
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return Parse(b)
}

// Parse decodes TOML settings. Keys absent from the document keep their Default values;
// unknown keys are rejected.
//
// Parameters:
//   - b: the TOML document
//
// Returns:
//   - Settings: the parsed settings
//   - error: an error if decoding or validation fails
func Parse(b []byte) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every value is usable.
//
// Returns:
//   - error: an error wrapping ErrInvalidSettings describing every problem found
func (s Settings) Validate() error {
	var errs []error
	if _, err := colorful.Hex(s.DefaultColor); err != nil {
		errs = append(errs, fmt.Errorf("%w: default_color %q: %v", ErrInvalidSettings, s.DefaultColor, err))
	}
	if s.CompileWorkers < 0 {
		errs = append(errs, fmt.Errorf("%w: compile_workers must not be negative, got %d", ErrInvalidSettings, s.CompileWorkers))
	}
	if _, err := renderer.ParseBackendType(s.Renderer.Backend); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidSettings, err))
	}
	return errors.Join(errs...)
}

// Color returns DefaultColor parsed, or white if it does not parse. Validate reports the bad value.
//
// Returns:
//   - colorful.Color: the default color
func (s Settings) Color() colorful.Color {
	c, err := colorful.Hex(s.DefaultColor)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// BackendType returns the configured renderer backend, falling back to headless. Validate reports an unknown backend.
//
// Returns:
//   - renderer.RendererBackendType: the backend type
func (s Settings) BackendType() renderer.RendererBackendType {
	t, err := renderer.ParseBackendType(s.Renderer.Backend)
	if err != nil {
		return renderer.BackendTypeHeadless
	}
	return t
}

// Marshal encodes the settings as TOML.
//
// Returns:
//   - []byte: the TOML document
//   - error: an error if encoding fails
func (s Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}
