package eventloop

import (
	"context"
	"runtime"
	"sync/atomic"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// 确保实现接口
var _ pkgif.EventLoopGroup = (*Group)(nil)

// Group EventLoop 池
//
// Next 以轮询方式分配循环。池大小在创建后固定。
type Group struct {
	loops []*Loop
	next  atomic.Uint32
}

// NewGroup 创建 EventLoop 池
//
// size <= 0 时使用 GOMAXPROCS。
func NewGroup(size int) *Group {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	loops := make([]*Loop, size)
	for i := range loops {
		loops[i] = NewLoop()
	}
	logger.Debug("EventLoop 池已创建", "size", size)
	return &Group{loops: loops}
}

// Next 返回下一个 EventLoop（轮询）
func (g *Group) Next() pkgif.EventLoop {
	n := g.next.Add(1) - 1
	return g.loops[int(n)%len(g.loops)]
}

// Size 返回池大小
func (g *Group) Size() int {
	return len(g.loops)
}

// Shutdown 停止池中所有 EventLoop
func (g *Group) Shutdown(ctx context.Context) error {
	var err error
	for _, l := range g.loops {
		err = multierr.Append(err, l.Stop(ctx))
	}
	if err != nil {
		logger.Warn("EventLoop 池关闭出错", "error", err)
	}
	return err
}
