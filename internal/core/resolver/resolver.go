// Package resolver 实现地址解析引擎
//
// 解析器把逻辑远端地址（主机名 + 端口）展开为有序的具体地址
// 列表，列表顺序即连接尝试顺序。提供两个实现：
//
//   - DNSResolver：基于 miekg/dns 的 A/AAAA 查询，带 LRU 缓存
//     与 singleflight 去重
//   - StaticResolver：固定映射表，用于测试与无 DNS 的部署
//
// 解析成功但没有任何地址按失败处理，永远不会出现空列表成功。
package resolver

import (
	"net"
	"sync"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
	"github.com/dep2p/go-connector/pkg/lib/log"
	"github.com/dep2p/go-connector/pkg/types"
)

var logger = log.Logger("core/resolver")

// ============================================================================
//                              ResolveFuture 实现
// ============================================================================

// 确保实现接口
var _ pkgif.ResolveFuture = (*resolvePromise)(nil)

// resolvePromise 可完成的解析结果
//
// 允许多个回调，按注册顺序通知；已完成时注册立即回调。
type resolvePromise struct {
	mu        sync.Mutex
	done      bool
	addrs     []net.Addr
	err       error
	callbacks []func([]net.Addr, error)
}

func newResolvePromise() *resolvePromise {
	return &resolvePromise{}
}

// resolvedFuture 创建已完成的解析结果
func resolvedFuture(addrs []net.Addr, err error) *resolvePromise {
	return &resolvePromise{done: true, addrs: addrs, err: err}
}

// complete 完成解析，首次调用生效
func (p *resolvePromise) complete(addrs []net.Addr, err error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	p.addrs = addrs
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(addrs, err)
	}
}

// OnComplete 注册完成回调
func (p *resolvePromise) OnComplete(fn func([]net.Addr, error)) {
	p.mu.Lock()
	if p.done {
		addrs, err := p.addrs, p.err
		p.mu.Unlock()
		fn(addrs, err)
		return
	}
	p.callbacks = append(p.callbacks, fn)
	p.mu.Unlock()
}

// ============================================================================
//                              地址形态判定
// ============================================================================

// isSupportedAddr TCP 地址族（已解析或未解析）可被解析器处理
//
// Unix 域套接字等其它地址族不支持，编排器会跳过解析直连。
func isSupportedAddr(addr net.Addr) bool {
	switch addr.(type) {
	case *net.TCPAddr, *types.UnresolvedTCPAddr:
		return true
	default:
		return false
	}
}

// isResolvedAddr 地址是否已是具体形式
func isResolvedAddr(addr net.Addr) bool {
	_, unresolved := addr.(*types.UnresolvedTCPAddr)
	return !unresolved
}
