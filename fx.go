package goconnector

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-connector/internal/core/connector"
	"github.com/dep2p/go-connector/internal/core/eventloop"
	"github.com/dep2p/go-connector/internal/core/resolver"
)

// Module 聚合 go-connector 全部子模块
//
// 提供：
//   - pkgif.EventLoopGroup（带生命周期关闭钩子）
//   - pkgif.Resolver（系统 DNS 解析器）
//   - *connector.Connector
//
// 使用方只需额外提供 *config.TransportConfig。
var Module = fx.Module("goconnector",
	eventloop.Module,
	resolver.Module,
	connector.Module,
)
