// Package config handles viewer and render pipeline configuration.
package config

// Config holds all engine settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Shadows ShadowConfig  `yaml:"shadows"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds deferred pipeline settings.
type RenderConfig struct {
	// GBufferWidth and GBufferHeight size the engine-allocated G-buffer.
	// Zero means "use the window size".
	GBufferWidth  int        `yaml:"gbuffer_width"`
	GBufferHeight int        `yaml:"gbuffer_height"`
	ClearColor    [4]float32 `yaml:"clear_color"`
	// CaptureDir receives PNG captures of render targets (F12).
	CaptureDir    string     `yaml:"capture_dir"`
}

// ShadowConfig holds shadow map defaults and the directional view volume.
type ShadowConfig struct {
	DefaultResolution int     `yaml:"default_resolution"`
	NearPlane         float32 `yaml:"near_plane"`
	FarPlane          float32 `yaml:"far_plane"`
	Bias              float32 `yaml:"bias"`
	LookAhead         float32 `yaml:"look_ahead"`
	EyeDistance       float32 `yaml:"eye_distance"`
	OrthoHalfExtent   float32 `yaml:"ortho_half_extent"`
}

// SceneConfig selects the content loaded by the viewer.
type SceneConfig struct {
	// GLTFPath optionally names a glTF file whose KHR_lights_punctual lights
	// are imported into the scene.
	GLTFPath string `yaml:"gltf_path"`
	Demo     bool   `yaml:"demo"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogFile     string `yaml:"log_file"`
	Development bool   `yaml:"development"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Lumen Viewer",
			Width:  1366,
			Height: 768,
			VSync:  true,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0, 0, 0, 1},
			CaptureDir: "captures",
		},
		Shadows: ShadowConfig{
			DefaultResolution: 2048,
			NearPlane:         1.0,
			FarPlane:          200.0,
			Bias:              0.005,
			LookAhead:         50.0,
			EyeDistance:       100.0,
			OrthoHalfExtent:   100.0,
		},
		Scene: SceneConfig{
			Demo: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GBufferSize returns the G-buffer dimensions, falling back to the window size.
func (c *Config) GBufferSize() (width, height int32) {
	width, height = int32(c.Render.GBufferWidth), int32(c.Render.GBufferHeight)
	if width <= 0 {
		width = int32(c.Window.Width)
	}
	if height <= 0 {
		height = int32(c.Window.Height)
	}
	return width, height
}
