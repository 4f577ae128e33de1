package config

import (
	"time"

	"github.com/avido/experiments-data-api/log"
)

type Config interface {
	Naming() NamingConvention
	Resources() Resources
	RefreshInterval() time.Duration
	Logger() log.Logger
}
