package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/pkg/validator"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Log       LogConfig       `mapstructure:"log"`
	Triage    TriageConfig    `mapstructure:"triage"`
	Health    HealthConfig    `mapstructure:"health"`
	Backends  model.Backends  `mapstructure:"backends"`
	// BackendsFile is where saved backend settings are written and read back from.
	BackendsFile string `mapstructure:"backends_file"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxUploadMB bounds audio and image uploads.
	MaxUploadMB int64 `mapstructure:"max_upload_mb" validate:"min=1"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

type JWTConfig struct {
	// Secret enables bearer-token auth on the API when set.
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	// URL enables publishing of triage.saved events when set.
	URL     string `mapstructure:"url" validate:"omitempty,url"`
	Channel string `mapstructure:"channel"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type TriageConfig struct {
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	// RepairJSON retries malformed summaries through jsonrepair.
	RepairJSON bool `mapstructure:"repair_json"`
}

type HealthConfig struct {
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// env lists the environment variables the deployment sets directly. Non-empty
// values override the config file.
type env struct {
	MedReasonURL   string `envconfig:"MEDREASON_URL"`
	MedReasonToken string `envconfig:"MEDREASON_TOKEN"`
	WhisperURL     string `envconfig:"WHISPER_URL"`
	WhisperToken   string `envconfig:"WHISPER_TOKEN"`
	NLLBURL        string `envconfig:"NLLB_URL"`
	NLLBToken      string `envconfig:"NLLB_TOKEN"`
	MedGemmaURL    string `envconfig:"MEDGEMMA_URL"`
	MedGemmaToken  string `envconfig:"MEDGEMMA_TOKEN"`

	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBSSLMode  string `envconfig:"DB_SSLMODE"`

	Port      int    `envconfig:"PORT"`
	RedisURL  string `envconfig:"REDIS_URL"`
	JWTSecret string `envconfig:"JWT_SECRET"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	// Whisper and NLLB calls may take up to five minutes.
	v.SetDefault("server.write_timeout", "330s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_mb", 25)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.channel", "triage.saved")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("security.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")

	v.SetDefault("triage.temperature", 0.7)
	v.SetDefault("health.probe_timeout", "10s")

	v.SetDefault("backends.medreason.timeout", "60s")
	v.SetDefault("backends.whisper.timeout", "300s")
	v.SetDefault("backends.nllb.timeout", "300s")
	v.SetDefault("backends.medgemma.timeout", "120s")

	v.SetDefault("backends_file", "backends.yaml")
}

// LoadConfig reads config.yaml from the usual search path (or CONFIG_FILE),
// overlays environment variables and finally any saved backend settings.
// A missing config file is not an error.
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load is LoadConfig with an explicit config file; an empty path searches.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")           // current directory
		v.AddConfigPath("./config")    // config subdirectory
		v.AddConfigPath("/app")        // container root directory
		v.AddConfigPath("/app/config") // container config directory
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	e.apply(&cfg)

	saved, err := readBackends(cfg.BackendsFile)
	if err != nil {
		return nil, err
	}
	cfg.Backends = saved.over(cfg.Backends)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks the struct tags of cfg.
func Validate(cfg *Config) error {
	if err := validate.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (e env) apply(cfg *Config) {
	setEndpoint(&cfg.Backends.MedReason, e.MedReasonURL, e.MedReasonToken)
	setEndpoint(&cfg.Backends.Whisper, e.WhisperURL, e.WhisperToken)
	setEndpoint(&cfg.Backends.NLLB, e.NLLBURL, e.NLLBToken)
	setEndpoint(&cfg.Backends.MedGemma, e.MedGemmaURL, e.MedGemmaToken)

	setString(&cfg.Database.Host, e.DBHost)
	setString(&cfg.Database.User, e.DBUser)
	setString(&cfg.Database.Password, e.DBPassword)
	setString(&cfg.Database.Name, e.DBName)
	setString(&cfg.Database.SSLMode, e.DBSSLMode)
	if e.DBPort != 0 {
		cfg.Database.Port = e.DBPort
	}

	if e.Port != 0 {
		cfg.Server.Port = e.Port
	}
	setString(&cfg.Redis.URL, e.RedisURL)
	setString(&cfg.JWT.Secret, e.JWTSecret)
	setString(&cfg.Log.Level, e.LogLevel)
}

func setEndpoint(ep *model.Endpoint, url, token string) {
	setString(&ep.URL, url)
	setString(&ep.Token, token)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
