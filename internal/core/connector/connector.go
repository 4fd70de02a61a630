package connector

import (
	"context"
	"net"

	"github.com/dep2p/go-connector/config"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// Connector 连接器门面
//
// 捆绑传输配置与解析器，暴露 Bind/Connect 两个入口。
// Connector 本身无状态（配置只读），可从任意 goroutine 调用。
type Connector struct {
	cfg      *config.TransportConfig
	resolver pkgif.Resolver
}

// NewConnector 创建连接器
func NewConnector(cfg *config.TransportConfig, resolver pkgif.Resolver) (*Connector, error) {
	if cfg == nil {
		return nil, ErrInvalidArgument
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Connector{cfg: cfg, resolver: resolver}, nil
}

// Config 返回传输配置
func (c *Connector) Config() *config.TransportConfig {
	return c.cfg
}

// Connect 连接到远端地址
func (c *Connector) Connect(ctx context.Context, remoteAddress net.Addr, init pkgif.ChannelInitializer) pkgif.ChannelFuture {
	return Connect(ctx, c.cfg, remoteAddress, c.resolver, init)
}

// ConnectOn 在指定 EventLoop 上连接到远端地址
func (c *Connector) ConnectOn(ctx context.Context, remoteAddress net.Addr, init pkgif.ChannelInitializer, loop pkgif.EventLoop) pkgif.ChannelFuture {
	return ConnectOn(ctx, c.cfg, remoteAddress, c.resolver, init, loop)
}

// Bind 绑定通道到本地地址
func (c *Connector) Bind(init pkgif.ChannelInitializer, bindAddress net.Addr, isDomainSocket bool, role pkgif.Role) pkgif.ChannelFuture {
	return Bind(c.cfg, init, bindAddress, isDomainSocket, role)
}
