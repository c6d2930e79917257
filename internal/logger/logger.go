package logger

import (
	"os"

	"go.uber.org/zap"
)

// Init builds the process-wide zap logger and installs it as the global,
// so the rest of the code can log through zap.L().
// STOREFRONT_DEBUG=1 switches to the development encoder.
func Init() error {
	var cfg zap.Config
	if os.Getenv("STOREFRONT_DEBUG") != "" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	return nil
}
