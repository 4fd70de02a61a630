// Package interfaces 定义 go-connector 公共接口
//
// 本文件定义 EventLoop 接口，抽象单线程执行上下文。
package interfaces

import (
	"context"
	"time"
)

// EventLoop 单线程调度域
//
// 受限资源（Channel）的所有状态变更必须在其绑定的 EventLoop
// 上执行。任务按提交顺序串行执行。
type EventLoop interface {
	// Execute 提交任务到 EventLoop
	//
	// 从 EventLoop 内部提交的任务排队执行，不会死锁。
	Execute(fn func())

	// InLoop 返回当前 goroutine 是否就是 EventLoop 的执行 goroutine
	InLoop() bool

	// ScheduleAfter 延迟执行任务，返回取消函数
	ScheduleAfter(d time.Duration, fn func()) (cancel func())

	// Stop 停止 EventLoop，等待已排队任务执行完毕或 ctx 超时
	Stop(ctx context.Context) error
}

// EventLoopGroup EventLoop 池
type EventLoopGroup interface {
	// Next 返回池中下一个 EventLoop（轮询）
	Next() EventLoop

	// Shutdown 停止池中所有 EventLoop
	Shutdown(ctx context.Context) error
}
