// Package config holds the settings of both renderers. Values start from
// Default and may be overridden by a TOML file.
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Window WindowConfig `toml:"window"`
	App    AppConfig    `toml:"app"`
	Vulkan VulkanConfig `toml:"vulkan"`
	GL     GLConfig     `toml:"gl"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type VulkanConfig struct {
	// APIVersion is the minimum Vulkan version requested, major.minor.patch
	APIVersion     string     `toml:"api_version"`
	Debug          bool       `toml:"debug"`
	VertexShader   string     `toml:"vertex_shader"`
	FragmentShader string     `toml:"fragment_shader"`
	ClearColor     [4]float32 `toml:"clear_color"`
	FrameTimeout   Duration   `toml:"frame_timeout"`
}

type GLConfig struct {
	FPS        int        `toml:"fps"`
	ClearColor [4]float32 `toml:"clear_color"`
}

// Duration is a time.Duration written as a string such as "1s" or "250ms"
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "window_test_name",
			Width:  640,
			Height: 480,
		},
		App: AppConfig{
			Name:    "test_name",
			Version: "1.0.0",
		},
		Vulkan: VulkanConfig{
			APIVersion:     "1.1.0",
			VertexShader:   "shaders/vert.spv",
			FragmentShader: "shaders/frag.spv",
			ClearColor:     [4]float32{1.0, 0.5, 0.25, 1.0},
			FrameTimeout:   Duration{time.Second},
		},
		GL: GLConfig{
			FPS:        60,
			ClearColor: [4]float32{1.0, 0.5, 0.25, 1.0},
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Parse decodes TOML data over the defaults
func Parse(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads TOML from r over the defaults, rejecting unknown keys, and
// validates the result
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, errors.Newf("unknown keys:\n%s", strict.String())
		}
		return nil, errors.Wrap(err, "decode")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes the configuration as TOML
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every value a renderer relies on
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if strings.TrimSpace(c.Window.Title) == "" {
		return errors.New("window title is empty")
	}
	if _, err := ParseVersion(c.App.Version); err != nil {
		return errors.Wrap(err, "app version")
	}
	if _, err := ParseVersion(c.Vulkan.APIVersion); err != nil {
		return errors.Wrap(err, "vulkan api version")
	}
	if c.Vulkan.VertexShader == "" || c.Vulkan.FragmentShader == "" {
		return errors.New("vulkan shader paths must be set")
	}
	if err := checkColor(c.Vulkan.ClearColor); err != nil {
		return errors.Wrap(err, "vulkan clear color")
	}
	if c.Vulkan.FrameTimeout.Duration <= 0 {
		return errors.Newf("frame timeout %s must be positive", c.Vulkan.FrameTimeout)
	}
	if c.GL.FPS <= 0 {
		return errors.Newf("fps %d must be positive", c.GL.FPS)
	}
	if err := checkColor(c.GL.ClearColor); err != nil {
		return errors.Wrap(err, "gl clear color")
	}
	return nil
}

func checkColor(color [4]float32) error {
	for i, v := range color {
		if v < 0 || v > 1 {
			return errors.Newf("component %d is %v, want [0,1]", i, v)
		}
	}
	return nil
}

// Version is a major.minor.patch triple
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses "major.minor.patch", the patch may be omitted
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, errors.Newf("version %q is not major.minor.patch", s)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, errors.Newf("version %q has a bad component %q", s, part)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
