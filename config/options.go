package config

import (
	"net"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// Option 配置选项函数
type Option func(*TransportConfig)

// WithOption 添加通道选项
func WithOption(key pkgif.ChannelOption, value any) Option {
	return func(c *TransportConfig) {
		c.Options[key] = value
	}
}

// WithAttribute 添加通道属性
func WithAttribute(key pkgif.AttributeKey, value any) Option {
	return func(c *TransportConfig) {
		c.Attributes[key] = value
	}
}

// WithBindAddress 设置本地绑定地址提供者
func WithBindAddress(supplier func() net.Addr) Option {
	return func(c *TransportConfig) {
		c.BindAddress = supplier
	}
}

// WithClientFactory 设置客户端常规通道工厂
func WithClientFactory(f pkgif.ChannelFactory) Option {
	return func(c *TransportConfig) {
		c.ClientFactory = f
	}
}

// WithClientDomainFactory 设置客户端域套接字通道工厂
func WithClientDomainFactory(f pkgif.ChannelFactory) Option {
	return func(c *TransportConfig) {
		c.ClientDomainFactory = f
	}
}

// WithServerFactory 设置服务端常规通道工厂
func WithServerFactory(f pkgif.ServerChannelFactory) Option {
	return func(c *TransportConfig) {
		c.ServerFactory = f
	}
}

// WithServerDomainFactory 设置服务端域套接字通道工厂
func WithServerDomainFactory(f pkgif.ServerChannelFactory) Option {
	return func(c *TransportConfig) {
		c.ServerDomainFactory = f
	}
}

// WithGroup 设置 EventLoop 池
func WithGroup(g pkgif.EventLoopGroup) Option {
	return func(c *TransportConfig) {
		c.Group = g
	}
}

// WithChildGroup 设置服务端子连接 EventLoop 池
func WithChildGroup(g pkgif.EventLoopGroup) Option {
	return func(c *TransportConfig) {
		c.ChildGroup = g
	}
}

// WithResolveObservers 设置解析生命周期观察者
//
// 任一观察者可为 nil。
func WithResolveObservers(
	onResolve func(pkgif.Channel),
	onAfterResolve func(pkgif.Channel, net.Addr),
	onResolveError func(pkgif.Channel, error),
) Option {
	return func(c *TransportConfig) {
		c.OnResolve = onResolve
		c.OnAfterResolve = onAfterResolve
		c.OnResolveError = onResolveError
	}
}
