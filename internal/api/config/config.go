package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs 或当前目录加载 config.yaml 并填充到 Cfg
func LoadConfig() error {
	return LoadConfigFrom("./configs", ".")
}

// LoadConfigFrom 从指定目录加载配置，环境变量 BLOGSTONE_* 优先
func LoadConfigFrom(paths ...string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("BLOGSTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.JWT.Secret == "" || cfg.JWT.RefreshSecret == "" {
		return errors.New("jwt.secret and jwt.refresh_secret are required")
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.default_image", "public/images/default.png")
	v.SetDefault("server.static_dir", "./public")
	v.SetDefault("server.max_upload_mb", 8)
	v.SetDefault("server.image_max_width", 1600)

	v.SetDefault("mongo.url", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "blogstone")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("minio.bucket", "blogstone")

	v.SetDefault("jwt.expire", 60*24)
	v.SetDefault("jwt.refresh_expire", 60*24*7)

	v.SetDefault("kafka.topic", "blog.engagement")

	v.SetDefault("jobs.media_cleanup_spec", "0 */10 * * * *")
	v.SetDefault("jobs.orphan_sweep_spec", "0 30 3 * * *")

	v.SetDefault("log.level", "info")
}
