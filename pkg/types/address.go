// Package types 定义 go-connector 公共基础类型
package types

import (
	"net"
	"strconv"
)

// UnresolvedTCPAddr 未解析的 TCP 逻辑地址
//
// 持有主机名和端口，拨号前需要经过解析器解析为一个或多个
// 具体地址（*net.TCPAddr）。实现 net.Addr 接口。
type UnresolvedTCPAddr struct {
	// Host 主机名（域名，未解析）
	Host string

	// Port 端口
	Port int
}

var _ net.Addr = (*UnresolvedTCPAddr)(nil)

// NewUnresolvedTCPAddr 创建未解析地址
func NewUnresolvedTCPAddr(host string, port int) *UnresolvedTCPAddr {
	return &UnresolvedTCPAddr{Host: host, Port: port}
}

// Network 返回网络类型
func (a *UnresolvedTCPAddr) Network() string {
	return "tcp"
}

// String 返回 host:port 形式
func (a *UnresolvedTCPAddr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}
