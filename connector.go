package goconnector

import (
	"context"
	"net"

	"github.com/dep2p/go-connector/config"
	"github.com/dep2p/go-connector/internal/core/connector"
	"github.com/dep2p/go-connector/internal/core/resolver"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// Connector 连接器
//
// 对 internal 实现的薄封装，持有传输配置与解析器。
// 并发安全，可从任意 goroutine 调用。
type Connector = connector.Connector

// Option 连接器创建选项
type Option func(*options)

type options struct {
	resolver pkgif.Resolver
}

// WithResolver 指定地址解析器
//
// 未指定时使用系统 DNS 解析器。
func WithResolver(r pkgif.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// New 创建连接器
func New(cfg *config.TransportConfig, opts ...Option) (*Connector, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolver == nil {
		r, err := resolver.NewDNSResolver()
		if err != nil {
			return nil, err
		}
		o.resolver = r
	}
	return connector.NewConnector(cfg, o.resolver)
}

// Connect 连接到远端地址
//
// 等价于 conn.Connect，作为包级便捷入口保留。
func Connect(
	ctx context.Context,
	cfg *config.TransportConfig,
	remoteAddress net.Addr,
	r pkgif.Resolver,
	init pkgif.ChannelInitializer,
) pkgif.ChannelFuture {
	return connector.Connect(ctx, cfg, remoteAddress, r, init)
}

// Bind 绑定通道到本地地址
func Bind(
	cfg *config.TransportConfig,
	init pkgif.ChannelInitializer,
	bindAddress net.Addr,
	isDomainSocket bool,
	role pkgif.Role,
) pkgif.ChannelFuture {
	return connector.Bind(cfg, init, bindAddress, isDomainSocket, role)
}
