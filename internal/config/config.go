package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/locseed/internal/source"
)

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Fetch    FetchConfig         `yaml:"fetch" mapstructure:"fetch"`
	Sources  []source.Descriptor `yaml:"sources" mapstructure:"sources"`
	Log      LogConfig           `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig locates the destination database. URL wins over the parts.
type DatabaseConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	Host     string `yaml:"host" mapstructure:"host"`
	Name     string `yaml:"name" mapstructure:"name"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Port     int    `yaml:"port" mapstructure:"port"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
}

// DSN returns the connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Name == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	switch {
	case d.User != "" && d.Password != "":
		u.User = url.UserPassword(d.User, d.Password)
	case d.User != "":
		u.User = url.User(d.User)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// FetchConfig configures source downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// Timeout returns the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence over it.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOCSEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional Postgres variables
	bindings := map[string]string{
		"database.host":     "POSTGRES_HOST",
		"database.name":     "POSTGRES_DATABASE",
		"database.user":     "POSTGRES_USER",
		"database.password": "POSTGRES_PASSWORD",
		"database.port":     "POSTGRES_PORT",
	}
	for key, env := range bindings {
		prefixed := "LOCSEED_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	// Defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.user_agent", "locseed/1.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = source.DefaultSources()
	}
	for i, d := range cfg.Sources {
		if f, err := source.ParseFormat(string(d.Format)); err == nil {
			cfg.Sources[i].Format = f
		}
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it runs.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "seed":
		if c.Database.DSN() == "" {
			errs = append(errs, "database.url or database.name (POSTGRES_DATABASE) is required")
		}
		errs = append(errs, c.validateSources()...)
	case "dry-run", "sources":
		errs = append(errs, c.validateSources()...)
	case "fallback":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Fetch.TimeoutSecs <= 0 {
		errs = append(errs, "fetch.timeout_secs must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateSources() []string {
	var errs []string
	for i, d := range c.Sources {
		if err := d.Validate(); err != nil {
			errs = append(errs, "sources["+strconv.Itoa(i)+"]: "+err.Error())
		}
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
