package resolver

import (
	"context"
	"fmt"
	"net"
	"sync"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
	"github.com/dep2p/go-connector/pkg/types"
)

// 确保实现接口
var _ pkgif.Resolver = (*StaticResolver)(nil)

// StaticResolver 固定映射表解析器
//
// 主机名到 IP 列表的静态映射，用于测试与无 DNS 的部署。
// 返回顺序与注册顺序一致。
type StaticResolver struct {
	mu    sync.RWMutex
	table map[string][]net.IP
}

// NewStaticResolver 创建静态解析器
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{table: make(map[string][]net.IP)}
}

// Add 注册主机名映射，追加到已有条目之后
func (r *StaticResolver) Add(host string, ips ...net.IP) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[host] = append(r.table[host], ips...)
}

// IsSupported 返回地址类型是否可被解析
func (r *StaticResolver) IsSupported(addr net.Addr) bool {
	return isSupportedAddr(addr)
}

// IsResolved 返回地址是否已是具体形式
func (r *StaticResolver) IsResolved(addr net.Addr) bool {
	return isResolvedAddr(addr)
}

// ResolveAll 按映射表解析，同步完成
func (r *StaticResolver) ResolveAll(_ context.Context, addr net.Addr) pkgif.ResolveFuture {
	ua, ok := addr.(*types.UnresolvedTCPAddr)
	if !ok {
		return resolvedFuture(nil, fmt.Errorf("%w: %T", ErrUnsupportedAddress, addr))
	}

	if ip := net.ParseIP(ua.Host); ip != nil {
		return resolvedFuture([]net.Addr{&net.TCPAddr{IP: ip, Port: ua.Port}}, nil)
	}

	r.mu.RLock()
	ips, found := r.table[ua.Host]
	r.mu.RUnlock()
	if !found || len(ips) == 0 {
		return resolvedFuture(nil, fmt.Errorf("%w: %s", ErrHostNotFound, ua.Host))
	}
	return resolvedFuture(withPort(ips, ua.Port), nil)
}

// Close 释放解析器资源
func (r *StaticResolver) Close() error {
	return nil
}
