package config

const (
	defaultConfigPath         = "~/.config/jumpcut/config.toml"
	defaultThreshold          = 0.7
	defaultPaddingSeconds     = 0.02
	defaultFrameLengthSeconds = 0.01
	defaultOutOfDataPolicy    = PolicyKeep
	defaultSoundedSpeed       = 1.0
	defaultSilentSpeed        = 0.0
	// ffmpeg rejects filter arguments longer than this.
	defaultMaxLength          = 32767
	defaultMaxDepth           = 100
	defaultPrecision          = 3
	defaultSeamOverlapSeconds = 5.0
	defaultFFmpeg             = "ffmpeg"
	defaultFFprobe            = "ffprobe"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Out-of-data policies for frames the activity mask does not cover.
const (
	PolicyKeep  = "keep"
	PolicyDrop  = "drop"
	PolicyError = "error"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Activity: Activity{
			Threshold:          defaultThreshold,
			PaddingSeconds:     defaultPaddingSeconds,
			FrameLengthSeconds: defaultFrameLengthSeconds,
			OutOfDataPolicy:    defaultOutOfDataPolicy,
		},
		Speed: Speed{
			Sounded: defaultSoundedSpeed,
			Silent:  defaultSilentSpeed,
		},
		Expression: Expression{
			MaxLength:          defaultMaxLength,
			MaxDepth:           defaultMaxDepth,
			Precision:          defaultPrecision,
			SeamOverlapSeconds: defaultSeamOverlapSeconds,
		},
		Paths: Paths{
			WorkDir:   defaultDataDir("work"),
			LogDir:    defaultDataDir("logs"),
			CachePath: defaultCacheDir("analysis.db"),
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Cache: Cache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
