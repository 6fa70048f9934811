//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/tabletop/internal/config"
	"github.com/zeusync/tabletop/internal/server"
)

// InitializeServer loads the configuration at path and builds the server.
func InitializeServer(path string) (*server.Server, func(), error) {
	wire.Build(config.Load, ProvideLogger, server.NewServer)
	return nil, nil, nil
}
