package config

import (
	"log"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

// ModerationConfig 全局内容审核配置。
// Enabled 只是初始兜底值，运行期开关存储在数据库 moderation_setting 表
type ModerationConfig struct {
	APIKey  string `toml:"apiKey"`
	Model   string `toml:"model"`
	Enabled bool   `toml:"enabled"`
}

// AIProviderConfig 单个模型供应商的接入凭证
type AIProviderConfig struct {
	APIKey          string `toml:"apiKey"`
	AccessKey       string `toml:"accessKey"`
	SecretKey       string `toml:"secretKey"`
	BaseURL         string `toml:"baseURL"`
	Region          string `toml:"region"`
	TimeoutSeconds  int    `toml:"timeoutSeconds"`
	RetryTimes      int    `toml:"retryTimes"`
	ByAzure         bool   `toml:"byAzure"`
	AzureAPIVersion string `toml:"azureApiVersion"`
}

type AIConfig struct {
	OpenAI   AIProviderConfig `toml:"openai"`
	Ark      AIProviderConfig `toml:"ark"`
	DeepSeek AIProviderConfig `toml:"deepseek"`
	Ollama   AIProviderConfig `toml:"ollama"`
}

type KafkaConfig struct {
	Brokers   []string `toml:"brokers"`
	ClientID  string   `toml:"clientID"`
	TurnTopic string   `toml:"turnTopic"`
}

// AdminConfig 管理端登录凭证
type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// SweeperConfig 空闲跟进后台轮询配置（可选，HTTP 触发仍是主路径）
type SweeperConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"intervalSeconds"`
	LookbackHours   int  `toml:"lookbackHours"`
}

type Config struct {
	MainConfig       `toml:"mainConfig"`
	MysqlConfig      `toml:"mysqlConfig"`
	RedisConfig      `toml:"redisConfig"`
	JwtConfig        `toml:"jwtConfig"`
	LogConfig        `toml:"logConfig"`
	ModerationConfig `toml:"moderationConfig"`
	AIConfig         `toml:"aiConfig"`
	KafkaConfig      `toml:"kafkaConfig"`
	AdminConfig      `toml:"adminConfig"`
	SweeperConfig    `toml:"sweeperConfig"`
}

var config *Config

func LoadConfig() error {
	configPath := "configs/config_local.toml"
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("加载配置文件失败: %v, 尝试使用默认设置", err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	if config == nil {
		// .env 只补充环境变量（模型密钥等），缺失时忽略
		_ = godotenv.Load()
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}
