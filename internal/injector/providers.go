package injector

import (
	"fmt"

	"github.com/zeusync/tabletop/internal/config"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// ProvideLogger builds the process logger at the configured level. The
// cleanup flushes buffered entries.
func ProvideLogger(cfg config.Config) (log.Log, func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger := log.New(level)
	return logger, func() { _ = logger.Sync() }, nil
}
