package config

// Config is the top-level smartcalc configuration, corresponding to
// .smartcalc.yml.
type Config struct {
	APIURL            string        `yaml:"api_url" koanf:"api_url"`
	DataDir           string        `yaml:"data_dir" koanf:"data_dir"`
	LogLevel          string        `yaml:"log_level" koanf:"log_level"`
	Theme             string        `yaml:"theme" koanf:"theme"`
	AngleMode         string        `yaml:"angle_mode" koanf:"angle_mode"`
	DebounceMS        int           `yaml:"debounce_ms" koanf:"debounce_ms"`
	NotifyDurationMS  int           `yaml:"notify_duration_ms" koanf:"notify_duration_ms"`
	StorageQuotaBytes int64         `yaml:"storage_quota_bytes" koanf:"storage_quota_bytes"`
	WebhookURL        string        `yaml:"webhook_url" koanf:"webhook_url"`
	History           HistoryConfig `yaml:"history" koanf:"history"`
	Server            ServerConfig  `yaml:"server" koanf:"server"`
}

// HistoryConfig bounds each feature's history list.
type HistoryConfig struct {
	CalculatorMax int `yaml:"calculator_max" koanf:"calculator_max"`
	ConverterMax  int `yaml:"converter_max" koanf:"converter_max"`
	ScientificMax int `yaml:"scientific_max" koanf:"scientific_max"`
}

// ServerConfig holds settings for the local bridge started by serve.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}
