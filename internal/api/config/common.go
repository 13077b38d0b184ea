package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	BaseURL       string `mapstructure:"base_url"`
	DefaultImage  string `mapstructure:"default_image"`
	StaticDir     string `mapstructure:"static_dir"`
	MaxUploadMB   int    `mapstructure:"max_upload_mb"`
	ImageMaxWidth int    `mapstructure:"image_max_width"`

	CORSOrigins    []string `mapstructure:"cors_origins"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type MongoConfig struct {
	URL         string `mapstructure:"url"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	// 毫秒，为 0 时使用默认值
	DialTimeout int `mapstructure:"dial_timeout"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// JWTConfig 令牌配置，过期时间单位为分钟
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	RefreshSecret string `mapstructure:"refresh_secret"`
	Expire        int    `mapstructure:"expire"`
	RefreshExpire int    `mapstructure:"refresh_expire"`
}

type KafkaConfig struct {
	Enable  bool       `mapstructure:"enable"`
	Brokers []string   `mapstructure:"brokers"`
	Topic   string     `mapstructure:"topic"`
	Sasl    SaslConfig `mapstructure:"sasl"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// JobsConfig 定时任务配置 (cron 表达式，含秒)
type JobsConfig struct {
	MediaCleanupSpec  string `mapstructure:"media_cleanup_spec"`
	OrphanSweepEnable bool   `mapstructure:"orphan_sweep_enable"`
	OrphanSweepSpec   string `mapstructure:"orphan_sweep_spec"`
}

// LogConfig 本地日志级别：debug、info、warn、error
type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
