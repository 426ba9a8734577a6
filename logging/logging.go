package logging

import (
	"os"

	"go.uber.org/zap"
)

// New creates the production logger. Set LOG_LEVEL=debug to surface the
// checkout coordinator and session sweeper debug output.
func New() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if os.Getenv("LOG_LEVEL") == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	return logger.Sugar()
}
