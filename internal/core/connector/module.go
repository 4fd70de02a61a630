package connector

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-connector/config"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ConnectorParams Connector 依赖参数
type ConnectorParams struct {
	fx.In

	Config   *config.TransportConfig
	Resolver pkgif.Resolver `optional:"true"`
}

// ConnectorOutput Connector 模块输出
type ConnectorOutput struct {
	fx.Out

	Connector *Connector
}

// Module Connector Fx 模块
var Module = fx.Module("connector",
	fx.Provide(provideConnector),
)

// provideConnector 提供 Connector
func provideConnector(params ConnectorParams) (ConnectorOutput, error) {
	c, err := NewConnector(params.Config, params.Resolver)
	if err != nil {
		return ConnectorOutput{}, err
	}
	return ConnectorOutput{Connector: c}, nil
}
