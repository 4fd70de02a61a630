package tcp

import (
	"sync"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// 确保实现接口
var _ pkgif.Future = (*opFuture)(nil)

// opFuture 通道操作的可完成异步结果
type opFuture struct {
	mu        sync.Mutex
	done      bool
	err       error
	callbacks []func(error)
}

func newOpFuture() *opFuture {
	return &opFuture{}
}

// completedFuture 创建已完成的结果
func completedFuture(err error) *opFuture {
	return &opFuture{done: true, err: err}
}

// complete 完成操作，首次调用生效
func (f *opFuture) complete(err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(err)
	}
}

// OnComplete 注册完成回调，已完成时立即调用
func (f *opFuture) OnComplete(fn func(error)) {
	f.mu.Lock()
	if f.done {
		err := f.err
		f.mu.Unlock()
		fn(err)
		return
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}
