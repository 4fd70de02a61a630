package tcp

import (
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// 确保实现接口
var (
	_ pkgif.ChannelFactory       = (*clientFactory)(nil)
	_ pkgif.ServerChannelFactory = (*serverFactory)(nil)
)

// clientFactory 客户端通道工厂
type clientFactory struct {
	network string
}

// NewClientFactory 创建 TCP 客户端通道工厂
func NewClientFactory() pkgif.ChannelFactory {
	return &clientFactory{network: "tcp"}
}

// NewDomainClientFactory 创建 Unix 域套接字客户端通道工厂
func NewDomainClientFactory() pkgif.ChannelFactory {
	return &clientFactory{network: "unix"}
}

// NewChannel 创建绑定到指定 EventLoop 的客户端通道
func (f *clientFactory) NewChannel(loop pkgif.EventLoop) (pkgif.Channel, error) {
	return newChannel(f.network, loop), nil
}

// serverFactory 服务端通道工厂
type serverFactory struct {
	network string
}

// NewServerFactory 创建 TCP 服务端通道工厂
func NewServerFactory() pkgif.ServerChannelFactory {
	return &serverFactory{network: "tcp"}
}

// NewDomainServerFactory 创建 Unix 域套接字服务端通道工厂
func NewDomainServerFactory() pkgif.ServerChannelFactory {
	return &serverFactory{network: "unix"}
}

// NewChannel 创建服务端通道，入站连接分派到子 EventLoop 组
func (f *serverFactory) NewChannel(loop pkgif.EventLoop, childGroup pkgif.EventLoopGroup) (pkgif.Channel, error) {
	return newServerChannel(f.network, loop, childGroup), nil
}
