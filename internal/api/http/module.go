package http

import (
	"context"

	"go.uber.org/fx"

	"github.com/suiticket/v1/internal/api/http/handlers"
	apiconfig "github.com/suiticket/v1/internal/config/api"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// ModuleInput 读接口模块的依赖
type ModuleInput struct {
	fx.In

	Config   apiconfig.HTTPConfig
	Backends handlers.Backends
	Version  string     `name:"api_version"`
	Logger   log.Logger `optional:"true"`
}

// Module 提供 *Server 并把启停挂到应用生命周期上
func Module() fx.Option {
	return fx.Module("http_api",
		fx.Provide(func(in ModuleInput) *Server {
			return NewServer(in.Config, in.Backends, in.Version, in.Logger)
		}),
		fx.Invoke(func(lc fx.Lifecycle, server *Server) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error { return server.Start() },
				OnStop:  server.Stop,
			})
		}),
	)
}
