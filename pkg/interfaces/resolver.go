// Package interfaces 定义 go-connector 公共接口
//
// 本文件定义 Resolver 接口，抽象地址解析引擎。
package interfaces

import (
	"context"
	"net"
)

// ResolveFuture 异步解析结果
//
// 允许注册多个回调，按注册顺序通知；已完成时立即调用。
type ResolveFuture interface {
	// OnComplete 注册完成回调
	//
	// 成功时 addrs 为非空有序地址列表（顺序即尝试顺序），失败时
	// err 非 nil。解析成功但没有地址视为失败，不会出现空列表成功。
	OnComplete(fn func(addrs []net.Addr, err error))
}

// Resolver 地址解析器
type Resolver interface {
	// IsSupported 返回地址类型是否可被本解析器解析
	IsSupported(addr net.Addr) bool

	// IsResolved 返回地址是否已是具体（已解析）形式
	IsResolved(addr net.Addr) bool

	// ResolveAll 解析逻辑地址为有序具体地址列表
	//
	// 可能同步完成（结果已缓存）或稍后完成。ctx 携带取消与
	// 跨边界传播的值。
	ResolveAll(ctx context.Context, addr net.Addr) ResolveFuture

	// Close 释放解析器资源
	Close() error
}
