package logging

import "go.uber.org/zap"

// New builds the process logger and returns it with a flush function.
// Verbose switches to the human-oriented development encoder for operator
// sessions.
func New(verbose bool) (*zap.Logger, func()) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), func() {}
	}
	return logger, func() { _ = logger.Sync() }
}
