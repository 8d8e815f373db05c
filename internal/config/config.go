package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

const DefaultFeishuWebhookBaseURL = "https://open.feishu.cn/open-apis/bot/v2/hook/"

type Config struct {
	DatabaseDSN          string `env:"DATABASE_DSN,required=true"`
	RedisURL             string `env:"REDIS_URL,required=true"`
	RabbitMQURL          string `env:"RABBITMQ_URL"`
	FeishuWebhookBaseURL string `env:"FEISHU_WEBHOOK_BASE_URL,default=https://open.feishu.cn/open-apis/bot/v2/hook/"`
	WebhookTimeoutSec    int    `env:"WEBHOOK_TIMEOUT_SEC,default=15"`
	ActivityLogLimit     int    `env:"ACTIVITY_LOG_LIMIT,default=15"`
	ActivityLogTTLHours  int    `env:"ACTIVITY_LOG_TTL_HOURS,default=72"`
	Timezone             string `env:"TIMEZONE,default=Local"`
	APIPort              int    `env:"API_PORT,default=8080"`
	LogLevel             string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
