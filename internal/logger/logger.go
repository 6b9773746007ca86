package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Production gets JSON output at
// info level; everything else gets the console encoder for readable local
// development. Request-scoped logging stays on echo's logger; zap is used
// for startup, migrations and the export consumer.
func New(env string) (*zap.Logger, error) {
	if env == "prod" || env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		return cfg.Build()
	}
	return zap.NewDevelopment()
}
