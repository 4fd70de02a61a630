package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ============================================================================
//                              解析语义
// ============================================================================

// TestChannelFutureResolveOnce 验证结果恰好解析一次
func TestChannelFutureResolveOnce(t *testing.T) {
	loop := newTestLoop(t)
	ch := newMockChannel("ch", loop)
	f := newChannelFuture(ch)

	// 首次解析生效
	assert.True(t, f.trySuccess())

	// 后续解析（包括失败）全部被忽略
	assert.False(t, f.tryFailure(errors.New("too late")))
	assert.False(t, f.trySuccess())

	got, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, ch, got)
}

// TestChannelFutureFailureWinsRace 验证失败先到时成功被忽略
func TestChannelFutureFailureWinsRace(t *testing.T) {
	loop := newTestLoop(t)
	f := newChannelFuture(newMockChannel("ch", loop))

	wantErr := errors.New("connect refused")
	assert.True(t, f.tryFailure(wantErr))
	assert.False(t, f.trySuccess())

	got, err := f.Wait(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, wantErr)
}

// ============================================================================
//                              订阅语义
// ============================================================================

// TestChannelFutureSubscribeBeforeResolve 验证先订阅后解析
func TestChannelFutureSubscribeBeforeResolve(t *testing.T) {
	loop := newTestLoop(t)
	ch := newMockChannel("ch", loop)
	f := newChannelFuture(ch)

	done := make(chan pkgif.Channel, 1)
	f.Subscribe(func(got pkgif.Channel, err error) {
		require.NoError(t, err)
		done <- got
	})

	f.trySuccess()

	select {
	case got := <-done:
		assert.Same(t, ch, got)
	case <-time.After(time.Second):
		t.Fatal("消费者未收到通知")
	}
}

// TestChannelFutureSubscribeAfterResolve 验证后订阅也能收到已存储的结果
func TestChannelFutureSubscribeAfterResolve(t *testing.T) {
	loop := newTestLoop(t)
	ch := newMockChannel("ch", loop)
	f := newChannelFuture(ch)
	f.trySuccess()

	done := make(chan pkgif.Channel, 1)
	f.Subscribe(func(got pkgif.Channel, err error) {
		require.NoError(t, err)
		done <- got
	})

	select {
	case got := <-done:
		assert.Same(t, ch, got)
	case <-time.After(time.Second):
		t.Fatal("消费者未收到通知")
	}
}

// TestChannelFutureDuplicateSubscribe 验证重复订阅被忽略
func TestChannelFutureDuplicateSubscribe(t *testing.T) {
	loop := newTestLoop(t)
	f := newChannelFuture(newMockChannel("ch", loop))

	first := make(chan struct{}, 1)
	f.Subscribe(func(pkgif.Channel, error) {
		first <- struct{}{}
	})

	// 第二个订阅者被忽略，永远不会收到通知
	second := make(chan struct{}, 1)
	f.Subscribe(func(pkgif.Channel, error) {
		second <- struct{}{}
	})

	f.trySuccess()

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("首个订阅者未收到通知")
	}
	select {
	case <-second:
		t.Fatal("重复订阅者不应收到通知")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestChannelFutureConsumerRunsInLoop 验证消费者回调在 EventLoop 上执行
func TestChannelFutureConsumerRunsInLoop(t *testing.T) {
	loop := newTestLoop(t)
	f := newChannelFuture(newMockChannel("ch", loop))

	inLoop := make(chan bool, 1)
	f.Subscribe(func(pkgif.Channel, error) {
		inLoop <- loop.InLoop()
	})
	f.trySuccess()

	select {
	case got := <-inLoop:
		assert.True(t, got, "消费者应在 EventLoop 上执行")
	case <-time.After(time.Second):
		t.Fatal("消费者未收到通知")
	}
}

// TestFailedFutureWithoutLoop 验证无 loop 的失败 future 同步通知
func TestFailedFutureWithoutLoop(t *testing.T) {
	wantErr := errors.New("invalid config")
	f := newFailedFuture(nil, wantErr)

	var got error
	f.Subscribe(func(_ pkgif.Channel, err error) {
		got = err
	})
	assert.ErrorIs(t, got, wantErr)
}

// ============================================================================
//                              取消语义
// ============================================================================

// TestChannelFutureCancelClosesChannel 验证取消关闭在途通道且不解析结果
func TestChannelFutureCancelClosesChannel(t *testing.T) {
	loop := newTestLoop(t)
	ch := newMockChannel("ch", loop)
	f := newChannelFuture(ch)

	f.Cancel()
	assert.True(t, f.IsCancelled())

	// 等待 loop 上的关闭任务执行完
	flush(loop)
	assert.True(t, ch.isClosed())

	// 取消不解析结果
	assert.Nil(t, f.result.Load())
}

// TestSignalCompleteOnce 验证信号首次解析生效
func TestSignalCompleteOnce(t *testing.T) {
	s := newSignal()
	wantErr := errors.New("init failed")

	assert.True(t, s.Complete(wantErr))
	assert.False(t, s.Complete(nil))

	var got error
	s.OnComplete(func(err error) { got = err })
	assert.ErrorIs(t, got, wantErr)
}

// flush 等待 loop 排空此前提交的全部任务
func flush(loop pkgif.EventLoop) {
	done := make(chan struct{})
	loop.Execute(func() { close(done) })
	<-done
}
