// Package eventloop 实现单 goroutine 执行上下文
//
// Loop 是一个永久绑定单 goroutine 的任务执行器，Channel 的所有
// 状态变更都必须提交到其绑定的 Loop 上串行执行。任务队列无界，
// 从 Loop 内部提交任务不会死锁。
package eventloop

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
	"github.com/dep2p/go-connector/pkg/lib/log"
)

var logger = log.Logger("core/eventloop")

// 确保实现接口
var _ pkgif.EventLoop = (*Loop)(nil)

// Loop 单 goroutine 事件循环
type Loop struct {
	mu    sync.Mutex
	cond  *sync.Cond
	tasks []func()

	// 执行 goroutine 的 ID，启动后只读
	gid uint64

	// 时钟，测试中可注入 mock
	clock clock.Clock

	stopping bool
	done     chan struct{}
	started  chan struct{}
}

// NewLoop 创建并启动事件循环
func NewLoop() *Loop {
	return NewLoopWithClock(clock.New())
}

// NewLoopWithClock 使用指定时钟创建事件循环
func NewLoopWithClock(c clock.Clock) *Loop {
	l := &Loop{
		clock:   c,
		done:    make(chan struct{}),
		started: make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	<-l.started
	return l
}

// run 事件循环主体
func (l *Loop) run() {
	l.gid = goroutineID()
	close(l.started)

	for {
		l.mu.Lock()
		for len(l.tasks) == 0 && !l.stopping {
			l.cond.Wait()
		}
		if len(l.tasks) == 0 && l.stopping {
			l.mu.Unlock()
			break
		}
		task := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.safeRun(task)
	}
	close(l.done)
}

// safeRun 执行单个任务，panic 不终止循环
func (l *Loop) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("事件循环任务 panic", "panic", r)
		}
	}()
	task()
}

// Execute 提交任务
//
// 停止后的提交被丢弃并记录警告。
func (l *Loop) Execute(fn func()) {
	l.mu.Lock()
	if l.stopping {
		l.mu.Unlock()
		logger.Warn("事件循环已停止，任务被丢弃")
		return
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.cond.Signal()
}

// InLoop 返回当前 goroutine 是否为循环的执行 goroutine
func (l *Loop) InLoop() bool {
	return goroutineID() == l.gid
}

// ScheduleAfter 延迟执行任务
//
// 返回的取消函数在任务尚未提交时阻止其执行。
func (l *Loop) ScheduleAfter(d time.Duration, fn func()) func() {
	timer := l.clock.AfterFunc(d, func() {
		l.Execute(fn)
	})
	return func() { timer.Stop() }
}

// Stop 停止事件循环
//
// 已排队的任务会执行完毕；ctx 超时则提前返回错误，循环
// 仍会在后台排空队列。
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	l.stopping = true
	l.mu.Unlock()
	l.cond.Signal()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// goroutineID 返回当前 goroutine ID
//
// 解析 runtime.Stack 首行 "goroutine N [...]"。仅用于
// InLoop 判定，不在热路径上反复分配大缓冲。
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
