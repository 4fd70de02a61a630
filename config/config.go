// Package config 提供传输配置
//
// TransportConfig 聚合连接建立所需的全部静态配置：
//   - 通道选项与属性（创建后应用）
//   - 可选的本地绑定地址提供者
//   - 客户端/服务端 × 常规/域套接字四种通道工厂
//   - EventLoop 池与服务端子连接池
//   - 解析生命周期观察者
//
// 对连接编排核心而言配置是只读的。
//
// 使用示例：
//
//	cfg := config.New(
//	    config.WithGroup(group),
//	    config.WithClientFactory(tcp.NewClientFactory()),
//	    config.WithOption(interfaces.OptionNoDelay, true),
//	)
package config

import (
	"net"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// TransportConfig 传输配置
type TransportConfig struct {
	// Options 通道选项，创建后逐个应用
	Options map[pkgif.ChannelOption]any

	// Attributes 通道属性，总是全部附加
	Attributes map[pkgif.AttributeKey]any

	// BindAddress 本地绑定地址提供者（可选）
	//
	// 配置后每次连接尝试都会先解析本地地址，再以
	// local+remote 双地址连接。
	BindAddress func() net.Addr

	// ClientFactory 客户端常规通道工厂
	ClientFactory pkgif.ChannelFactory

	// ClientDomainFactory 客户端域套接字通道工厂
	ClientDomainFactory pkgif.ChannelFactory

	// ServerFactory 服务端常规通道工厂
	ServerFactory pkgif.ServerChannelFactory

	// ServerDomainFactory 服务端域套接字通道工厂
	ServerDomainFactory pkgif.ServerChannelFactory

	// Group EventLoop 池，Connect/Bind 默认从这里取下一个 EventLoop
	Group pkgif.EventLoopGroup

	// ChildGroup 服务端已接受连接的 EventLoop 池
	ChildGroup pkgif.EventLoopGroup

	// OnResolve 解析开始前观察者（可选）
	OnResolve func(ch pkgif.Channel)

	// OnAfterResolve 解析成功观察者，携带首个解析结果（可选）
	OnAfterResolve func(ch pkgif.Channel, first net.Addr)

	// OnResolveError 解析失败观察者（可选）
	OnResolveError func(ch pkgif.Channel, err error)
}

// New 创建传输配置
func New(opts ...Option) *TransportConfig {
	cfg := &TransportConfig{
		Options:    make(map[pkgif.ChannelOption]any),
		Attributes: make(map[pkgif.AttributeKey]any),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ConnectionFactory 返回客户端通道工厂
//
// isDomainSocket 为 true 时返回域套接字工厂。未配置时返回 nil，
// 由调用方作为通道创建失败处理。
func (c *TransportConfig) ConnectionFactory(isDomainSocket bool) pkgif.ChannelFactory {
	if isDomainSocket {
		return c.ClientDomainFactory
	}
	return c.ClientFactory
}

// ServerConnectionFactory 返回服务端通道工厂
func (c *TransportConfig) ServerConnectionFactory(isDomainSocket bool) pkgif.ServerChannelFactory {
	if isDomainSocket {
		return c.ServerDomainFactory
	}
	return c.ServerFactory
}

// Validate 验证配置
func (c *TransportConfig) Validate() error {
	if c.Group == nil {
		return ErrNoGroup
	}
	if c.ClientFactory == nil && c.ClientDomainFactory == nil &&
		c.ServerFactory == nil && c.ServerDomainFactory == nil {
		return ErrNoFactory
	}
	return nil
}
