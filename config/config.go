package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Search   SearchConfig   `mapstructure:"search"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type DataConfig struct {
	// Root is the directory scanned for "<n>. <name>" dataset folders.
	Root string `mapstructure:"root"`
	// Dataset optionally pins one dataset folder; when empty the first
	// discovered dataset is opened at startup.
	Dataset string `mapstructure:"dataset"`
	// IconsDir is the icon asset root, relative to the dataset folder
	// unless absolute.
	IconsDir string `mapstructure:"icons_dir"`
}

type SearchConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTL         time.Duration `mapstructure:"jwt_ttl"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("data.root", ".")
	v.SetDefault("data.icons_dir", "icons")
	v.SetDefault("search.batch_size", 100)
	v.SetDefault("search.cache_ttl", "60s")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("security.jwt_ttl", "12h")
	v.SetDefault("security.rate_limit_rps", 50)
	v.SetDefault("security.rate_limit_burst", 100)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
