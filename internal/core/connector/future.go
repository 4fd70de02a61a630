package connector

import (
	"context"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ============================================================================
//                              ChannelFuture
// ============================================================================

// outcome 解析结果，err 为 nil 表示成功
type outcome struct {
	err error
}

// 确保实现接口
var _ pkgif.ChannelFuture = (*ChannelFuture)(nil)

// ChannelFuture 单值异步通道结果
//
// 恰好解析一次（CAS 保证，成功与失败竞争时先到者生效），
// 恰好允许一个订阅者。订阅与解析可能来自不同 goroutine：
// 两者都被编组到通道的 EventLoop 上串行化，消费者回调
// 始终在 EventLoop 上执行。
type ChannelFuture struct {
	loop pkgif.EventLoop

	// result 原子单赋值结果槽
	result atomic.Pointer[outcome]

	subscribed atomic.Bool
	cancelled  atomic.Bool

	// 以下字段仅在 loop 上访问
	ch        pkgif.Channel
	consumer  func(pkgif.Channel, error)
	delivered bool
}

// newChannelFuture 创建绑定到通道的 future
func newChannelFuture(ch pkgif.Channel) *ChannelFuture {
	return &ChannelFuture{loop: ch.Executor(), ch: ch}
}

// newPendingFuture 创建尚未绑定通道的 future
//
// 用于跨越多次重试的最终结果：在途通道随重试推进被替换。
func newPendingFuture(loop pkgif.EventLoop) *ChannelFuture {
	return &ChannelFuture{loop: loop}
}

// newFailedFuture 创建已失败的 future
//
// loop 可为 nil（参数校验失败等通道尚不存在的场景），此时
// 订阅在调用方 goroutine 上同步收到通知。
func newFailedFuture(loop pkgif.EventLoop, err error) *ChannelFuture {
	f := &ChannelFuture{loop: loop}
	f.result.Store(&outcome{err: err})
	return f
}

// execute 编组到 EventLoop，已在 EventLoop 内或无 loop 时内联执行
func (f *ChannelFuture) execute(fn func()) {
	if f.loop == nil || f.loop.InLoop() {
		fn()
		return
	}
	f.loop.Execute(fn)
}

// setChannel 替换在途通道（仅在 loop 上调用）
func (f *ChannelFuture) setChannel(ch pkgif.Channel) {
	f.ch = ch
}

// channel 返回当前在途通道（仅在 loop 上调用）
func (f *ChannelFuture) channel() pkgif.Channel {
	return f.ch
}

// trySuccess 解析为成功，首次调用生效
func (f *ChannelFuture) trySuccess() bool {
	return f.tryResolve(&outcome{})
}

// tryFailure 解析为失败，首次调用生效
func (f *ChannelFuture) tryFailure(err error) bool {
	return f.tryResolve(&outcome{err: err})
}

func (f *ChannelFuture) tryResolve(o *outcome) bool {
	if !f.result.CompareAndSwap(nil, o) {
		return false
	}
	f.execute(f.deliver)
	return true
}

// deliver 向消费者交付已存储的结果（仅在 loop 上调用）
func (f *ChannelFuture) deliver() {
	if f.delivered || f.consumer == nil {
		return
	}
	res := f.result.Load()
	if res == nil {
		return
	}
	f.delivered = true
	if res.err != nil {
		f.consumer(nil, res.err)
		return
	}
	f.consumer(f.ch, nil)
}

// Subscribe 注册唯一消费者
//
// 已解析时消费者在 EventLoop 上同步收到已存储的结果；否则在
// 解析时收到通知。重复订阅被忽略并记录错误。
func (f *ChannelFuture) Subscribe(fn func(ch pkgif.Channel, err error)) {
	if !f.subscribed.CompareAndSwap(false, true) {
		logger.Error("ChannelFuture 被重复订阅，忽略")
		return
	}
	f.execute(func() {
		f.consumer = fn
		f.deliver()
	})
}

// Cancel 取消操作
//
// 关闭当前在途通道，不直接解析结果：在途操作会因通道关闭
// 自然失败。取消后不再调度新的重试尝试。
func (f *ChannelFuture) Cancel() {
	f.cancelled.Store(true)
	f.execute(func() {
		if f.ch != nil {
			_ = f.ch.Close()
		}
	})
}

// IsCancelled 返回是否已取消
func (f *ChannelFuture) IsCancelled() bool {
	return f.cancelled.Load()
}

// Wait 阻塞等待结果
//
// 内部使用 Subscribe，计入唯一订阅。ctx 超时返回 ctx 错误，
// 但不取消底层操作。
func (f *ChannelFuture) Wait(ctx context.Context) (pkgif.Channel, error) {
	type waitResult struct {
		ch  pkgif.Channel
		err error
	}
	done := make(chan waitResult, 1)
	f.Subscribe(func(ch pkgif.Channel, err error) {
		done <- waitResult{ch: ch, err: err}
	})
	select {
	case res := <-done:
		return res.ch, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ============================================================================
//                              Signal
// ============================================================================

// 确保实现接口
var (
	_ pkgif.InitSignal = (*Signal)(nil)
	_ pkgif.Future     = (*Signal)(nil)
)

// Signal 一次性完成信号
//
// 服务端 pipeline 初始化完成由 acceptor 通过 Complete 通知；
// 同时实现 Future，供初始化流程挂接续延。
type Signal struct {
	mu        sync.Mutex
	done      bool
	err       error
	callbacks []func(error)
}

// newSignal 创建未完成的信号
func newSignal() *Signal {
	return &Signal{}
}

// Complete 解析信号，首次调用生效
func (s *Signal) Complete(err error) bool {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return false
	}
	s.done = true
	s.err = err
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
	return true
}

// OnComplete 注册完成回调，已完成时立即调用
func (s *Signal) OnComplete(fn func(err error)) {
	s.mu.Lock()
	if s.done {
		err := s.err
		s.mu.Unlock()
		fn(err)
		return
	}
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()
}
