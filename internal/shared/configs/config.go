package configs

// Config holds all configuration for the application.
type Config struct {
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Collector   CollectorConfig   `mapstructure:"collector" validate:"required"`
	Report      ReportConfig      `mapstructure:"report" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=trace debug info warn error"`
	File  string `mapstructure:"file"` // optional diagnostics file, written in addition to stdout
}

// FileStorageConfig holds the location of the access logs.
type FileStorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
}

// CollectorConfig holds parallel collection configuration.
type CollectorConfig struct {
	Workers       int    `mapstructure:"workers" validate:"min=0,max=256"` // 0 = number of CPUs
	SourceTimeout int    `mapstructure:"source_timeout" validate:"min=0"`  // seconds, 0 = no timeout
	Pattern       string `mapstructure:"pattern" validate:"required"`      // glob used when no sources are given
}

// ReportConfig holds report output configuration.
type ReportConfig struct {
	OutputDir    string `mapstructure:"output_dir" validate:"required"`
	OutputName   string `mapstructure:"output_name"` // defaults to report-<date>.html
	Template     string `mapstructure:"template"`    // optional, embedded template otherwise
	ConsoleTop   int    `mapstructure:"console_top" validate:"min=0"`
	KeepPartials bool   `mapstructure:"keep_partials"`
}

// MetricsConfig holds the optional prometheus endpoint configuration.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}
