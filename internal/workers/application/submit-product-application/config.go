// internal/workers/application/submit-product-application/config.go
package submitproductapplication

import (
	"time"

	"product-application-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:  config.GetDuration(wc.Timeout),
		CacheTTL: time.Duration(cfg.Database.Redis.CacheTTL) * time.Second,
	}
}
