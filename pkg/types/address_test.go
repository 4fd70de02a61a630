package types

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestUnresolvedTCPAddr 验证未解析地址的 net.Addr 表示
func TestUnresolvedTCPAddr(t *testing.T) {
	addr := NewUnresolvedTCPAddr("example.com", 443)

	assert.Equal(t, "tcp", addr.Network())
	assert.Equal(t, "example.com:443", addr.String())

	// 满足 net.Addr 接口
	var _ net.Addr = addr
}

// TestUnresolvedTCPAddrIPv6Host 验证 IPv6 字面量主机的格式化
func TestUnresolvedTCPAddrIPv6Host(t *testing.T) {
	addr := NewUnresolvedTCPAddr("2606:2800:220:1::1", 443)
	assert.Equal(t, "[2606:2800:220:1::1]:443", addr.String())
}
