package config

const (
	defaultBackendBaseURL     = "http://127.0.0.1:5000"
	defaultRequestTimeout     = 30
	defaultUploadTimeout      = 600
	defaultHealthTimeout      = 5
	defaultPollInterval       = 1
	defaultErrorRetryInterval = 2
	defaultMaxPollAttempts    = 300
	defaultLanguage           = "auto"
	defaultModel              = "base"
	defaultRenderVideo        = true
	defaultFontFamily         = "Arial"
	defaultFontSize           = 24
	defaultFontColor          = "white"
	defaultBackgroundColor    = "black"
	defaultFontShadow         = true
	defaultWorkspaceDir       = "~/.local/share/capstan"
	defaultLogDir             = "~/.local/share/capstan/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:        defaultBackendBaseURL,
			RequestTimeout: defaultRequestTimeout,
			UploadTimeout:  defaultUploadTimeout,
			HealthTimeout:  defaultHealthTimeout,
		},
		Workflow: Workflow{
			PollInterval:       defaultPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			MaxPollAttempts:    defaultMaxPollAttempts,
		},
		Defaults: Defaults{
			Language:    defaultLanguage,
			Model:       defaultModel,
			RenderVideo: defaultRenderVideo,
		},
		Style: Style{
			FontFamily:      defaultFontFamily,
			FontSize:        defaultFontSize,
			FontColor:       defaultFontColor,
			BackgroundColor: defaultBackgroundColor,
			Shadow:          defaultFontShadow,
		},
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
