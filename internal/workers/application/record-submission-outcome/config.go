// internal/workers/application/record-submission-outcome/config.go
package recordsubmissionoutcome

import (
	"time"

	"product-application-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
