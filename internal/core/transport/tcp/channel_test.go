package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-connector/internal/core/eventloop"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ============================================================================
//                              测试辅助
// ============================================================================

func newLoop(t *testing.T) *eventloop.Loop {
	loop := eventloop.NewLoop()
	t.Cleanup(func() {
		_ = loop.Stop(context.Background())
	})
	return loop
}

// await 同步等待操作完成
func await(t *testing.T, f pkgif.Future) error {
	t.Helper()
	done := make(chan error, 1)
	f.OnComplete(func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("操作未完成")
		return nil
	}
}

// startEchoListener 启动临时监听器
func startEchoListener(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				buf := make([]byte, 256)
				for {
					n, err := conn.Read(buf)
					if err != nil {
						return
					}
					if _, err := conn.Write(buf[:n]); err != nil {
						return
					}
				}
			}()
		}
	}()
	return listener
}

// ============================================================================
//                              客户端通道
// ============================================================================

// TestChannelConnect 验证客户端通道拨号
func TestChannelConnect(t *testing.T) {
	listener := startEchoListener(t)
	loop := newLoop(t)

	factory := NewClientFactory()
	ch, err := factory.NewChannel(loop)
	require.NoError(t, err)
	defer ch.Close()

	assert.NotEmpty(t, ch.ID())
	assert.Same(t, pkgif.EventLoop(loop), ch.Executor())

	require.NoError(t, await(t, ch.Register()))
	assert.True(t, ch.IsRegistered())

	require.NoError(t, await(t, ch.Connect(listener.Addr(), nil)))
	assert.NotNil(t, ch.LocalAddr())
	assert.Equal(t, listener.Addr().String(), ch.RemoteAddr().String())
}

// TestChannelConnectRefused 验证拨号失败返回错误
func TestChannelConnectRefused(t *testing.T) {
	loop := newLoop(t)

	// 先监听再关闭，拿到一个必然拒绝连接的端口
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr()
	require.NoError(t, listener.Close())

	ch, err := NewClientFactory().NewChannel(loop)
	require.NoError(t, err)
	defer ch.Close()

	err = await(t, ch.Connect(addr, nil))
	assert.Error(t, err)
}

// TestChannelConnectAfterClose 验证关闭后的拨号直接失败
func TestChannelConnectAfterClose(t *testing.T) {
	listener := startEchoListener(t)
	loop := newLoop(t)

	ch, err := NewClientFactory().NewChannel(loop)
	require.NoError(t, err)
	require.NoError(t, ch.Close())

	err = await(t, ch.Connect(listener.Addr(), nil))
	assert.ErrorIs(t, err, ErrChannelClosed)
}

// TestChannelOptions 验证选项记录与未知选项处理
func TestChannelOptions(t *testing.T) {
	loop := newLoop(t)
	ch, err := NewClientFactory().NewChannel(loop)
	require.NoError(t, err)
	defer ch.Close()

	handled, err := ch.SetOption(pkgif.OptionNoDelay, true)
	assert.True(t, handled)
	assert.NoError(t, err)

	// 值类型错误
	handled, err = ch.SetOption(pkgif.OptionNoDelay, "yes")
	assert.True(t, handled)
	assert.ErrorIs(t, err, ErrInvalidOptionValue)

	// 未知选项
	handled, err = ch.SetOption("BOGUS_OPTION", 1)
	assert.False(t, handled)
	assert.NoError(t, err)
}

// TestChannelAttributes 验证属性读写
func TestChannelAttributes(t *testing.T) {
	loop := newLoop(t)
	ch, err := NewClientFactory().NewChannel(loop)
	require.NoError(t, err)
	defer ch.Close()

	_, ok := ch.Attribute("tenant")
	assert.False(t, ok)

	ch.SetAttribute("tenant", "acme")
	v, ok := ch.Attribute("tenant")
	require.True(t, ok)
	assert.Equal(t, "acme", v)
}

// TestChannelCloseIdempotent 验证重复关闭无副作用
func TestChannelCloseIdempotent(t *testing.T) {
	loop := newLoop(t)
	ch, err := NewClientFactory().NewChannel(loop)
	require.NoError(t, err)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
	ch.CloseForcibly()
}

// ============================================================================
//                              服务端通道
// ============================================================================

// TestServerChannelAccept 验证监听与入站分派
func TestServerChannelAccept(t *testing.T) {
	loop := newLoop(t)
	childLoop := newLoop(t)

	factory := NewServerFactory()
	raw, err := factory.NewChannel(loop, &fixedGroup{loop: childLoop})
	require.NoError(t, err)
	server := raw.(*ServerChannel)
	defer server.Close()

	accepted := make(chan pkgif.Channel, 1)
	server.SetAcceptHandler(func(child pkgif.Channel) {
		accepted <- child
	})

	bindAddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	require.NoError(t, await(t, server.Bind(bindAddr)))
	require.NotNil(t, server.LocalAddr())

	// 发起一条入站连接
	conn, err := net.Dial("tcp", server.LocalAddr().String())
	require.NoError(t, err)
	defer conn.Close()

	select {
	case child := <-accepted:
		// 子通道绑定到子 EventLoop 组
		assert.Same(t, pkgif.EventLoop(childLoop), child.Executor())
		assert.True(t, child.IsRegistered())
		assert.NotNil(t, child.RemoteAddr())
		_ = child.Close()
	case <-time.After(3 * time.Second):
		t.Fatal("入站连接未被分派")
	}
}

// TestServerChannelReuseAddr 验证 SO_REUSEADDR 下端口可立即重绑
func TestServerChannelReuseAddr(t *testing.T) {
	loop := newLoop(t)

	raw, err := NewServerFactory().NewChannel(loop, nil)
	require.NoError(t, err)
	server := raw.(*ServerChannel)
	server.SetAcceptHandler(func(child pkgif.Channel) { _ = child.Close() })

	handled, err := server.SetOption(pkgif.OptionReuseAddr, true)
	require.True(t, handled)
	require.NoError(t, err)

	bindAddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	require.NoError(t, await(t, server.Bind(bindAddr)))
	port := server.LocalAddr().(*net.TCPAddr).Port
	require.NoError(t, server.Close())

	// 同端口立即重绑
	raw2, err := NewServerFactory().NewChannel(loop, nil)
	require.NoError(t, err)
	server2 := raw2.(*ServerChannel)
	server2.SetAcceptHandler(func(child pkgif.Channel) { _ = child.Close() })
	_, err = server2.SetOption(pkgif.OptionReuseAddr, true)
	require.NoError(t, err)

	rebind := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
	require.NoError(t, await(t, server2.Bind(rebind)))
	require.NoError(t, server2.Close())
}

// TestServerChannelConnectUnsupported 验证服务端通道不支持出站连接
func TestServerChannelConnectUnsupported(t *testing.T) {
	loop := newLoop(t)
	raw, err := NewServerFactory().NewChannel(loop, nil)
	require.NoError(t, err)
	defer raw.Close()

	err = await(t, raw.Connect(&net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 80}, nil))
	assert.ErrorIs(t, err, ErrNotSupported)
}

// TestServerChannelDoubleBind 验证重复绑定失败
func TestServerChannelDoubleBind(t *testing.T) {
	loop := newLoop(t)
	raw, err := NewServerFactory().NewChannel(loop, nil)
	require.NoError(t, err)
	server := raw.(*ServerChannel)
	defer server.Close()
	server.SetAcceptHandler(func(child pkgif.Channel) { _ = child.Close() })

	bindAddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	require.NoError(t, await(t, server.Bind(bindAddr)))

	err = await(t, server.Bind(bindAddr))
	assert.ErrorIs(t, err, ErrAlreadyBound)
}

// TestServerChannelCloseStopsAccept 验证关闭停止接受循环
func TestServerChannelCloseStopsAccept(t *testing.T) {
	loop := newLoop(t)
	raw, err := NewServerFactory().NewChannel(loop, nil)
	require.NoError(t, err)
	server := raw.(*ServerChannel)
	server.SetAcceptHandler(func(child pkgif.Channel) { _ = child.Close() })

	bindAddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	require.NoError(t, await(t, server.Bind(bindAddr)))
	addr := server.LocalAddr()

	require.NoError(t, server.Close())

	// 关闭后无法再建立连接
	_, err = net.DialTimeout("tcp", addr.String(), 200*time.Millisecond)
	assert.Error(t, err)
}

// fixedGroup 固定返回同一个 EventLoop 的组
type fixedGroup struct {
	loop pkgif.EventLoop
}

func (g *fixedGroup) Next() pkgif.EventLoop          { return g.loop }
func (g *fixedGroup) Shutdown(context.Context) error { return nil }
