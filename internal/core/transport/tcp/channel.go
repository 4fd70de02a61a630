package tcp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
	"github.com/dep2p/go-connector/pkg/lib/log"
)

var logger = log.Logger("transport/tcp")

// 默认连接超时
const defaultConnectTimeout = 10 * time.Second

// channelOptions 套接字选项，注册前记录，拨号时落盘
type channelOptions struct {
	noDelay        bool
	keepAlive      bool
	reuseAddr      bool
	connectTimeout time.Duration
	rcvBuf         int
	sndBuf         int
}

// setOption 记录单个选项
//
// 返回值语义与 pkgif.Channel.SetOption 一致。
func (o *channelOptions) setOption(opt pkgif.ChannelOption, value any) (bool, error) {
	switch opt {
	case pkgif.OptionNoDelay:
		v, ok := value.(bool)
		if !ok {
			return true, fmt.Errorf("%w: %s wants bool, got %T", ErrInvalidOptionValue, opt, value)
		}
		o.noDelay = v
	case pkgif.OptionKeepAlive:
		v, ok := value.(bool)
		if !ok {
			return true, fmt.Errorf("%w: %s wants bool, got %T", ErrInvalidOptionValue, opt, value)
		}
		o.keepAlive = v
	case pkgif.OptionReuseAddr:
		v, ok := value.(bool)
		if !ok {
			return true, fmt.Errorf("%w: %s wants bool, got %T", ErrInvalidOptionValue, opt, value)
		}
		o.reuseAddr = v
	case pkgif.OptionConnectTimeout:
		v, ok := value.(time.Duration)
		if !ok {
			return true, fmt.Errorf("%w: %s wants time.Duration, got %T", ErrInvalidOptionValue, opt, value)
		}
		o.connectTimeout = v
	case pkgif.OptionRcvBuf:
		v, ok := value.(int)
		if !ok {
			return true, fmt.Errorf("%w: %s wants int, got %T", ErrInvalidOptionValue, opt, value)
		}
		o.rcvBuf = v
	case pkgif.OptionSndBuf:
		v, ok := value.(int)
		if !ok {
			return true, fmt.Errorf("%w: %s wants int, got %T", ErrInvalidOptionValue, opt, value)
		}
		o.sndBuf = v
	default:
		return false, nil
	}
	return true, nil
}

// 确保实现接口
var _ pkgif.Channel = (*Channel)(nil)

// Channel 客户端通道
type Channel struct {
	id      string
	network string
	loop    pkgif.EventLoop

	mu         sync.Mutex
	conn       net.Conn
	localBind  net.Addr
	registered bool
	closed     bool
	opts       channelOptions
	attrs      map[pkgif.AttributeKey]any
}

// newChannel 创建客户端通道
func newChannel(network string, loop pkgif.EventLoop) *Channel {
	return &Channel{
		id:      uuid.NewString(),
		network: network,
		loop:    loop,
		opts:    channelOptions{connectTimeout: defaultConnectTimeout},
		attrs:   make(map[pkgif.AttributeKey]any),
	}
}

// ID 返回通道唯一标识
func (c *Channel) ID() string {
	return c.id
}

// Executor 返回通道绑定的 EventLoop
func (c *Channel) Executor() pkgif.EventLoop {
	return c.loop
}

// Connect 拨号连接到远端地址
//
// 拨号在独立 goroutine 中执行，不阻塞 EventLoop；完成回调
// 在拨号 goroutine 上触发，由编排层负责编组。
func (c *Channel) Connect(remote net.Addr, local net.Addr) pkgif.Future {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return completedFuture(ErrChannelClosed)
	}
	if local == nil {
		local = c.localBind
	}
	opts := c.opts
	c.mu.Unlock()

	future := newOpFuture()
	go func() {
		dialer := &net.Dialer{
			Timeout:   opts.connectTimeout,
			LocalAddr: local,
		}
		conn, err := dialer.Dial(c.network, remote.String())
		if err != nil {
			future.complete(fmt.Errorf("dial %s %s: %w", c.network, remote, err))
			return
		}
		applyConnOptions(conn, opts)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			future.complete(ErrChannelClosed)
			return
		}
		c.conn = conn
		c.mu.Unlock()

		logger.Debug("出站连接已建立",
			"channel", c.id,
			"remote", conn.RemoteAddr(),
			"local", conn.LocalAddr())
		future.complete(nil)
	}()
	return future
}

// Bind 记录本地绑定地址，拨号时使用
func (c *Channel) Bind(local net.Addr) pkgif.Future {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return completedFuture(ErrChannelClosed)
	}
	c.localBind = local
	return completedFuture(nil)
}

// Register 向 EventLoop 注册通道
func (c *Channel) Register() pkgif.Future {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return completedFuture(ErrChannelClosed)
	}
	c.registered = true
	return completedFuture(nil)
}

// IsRegistered 返回通道是否已注册
func (c *Channel) IsRegistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

// Close 优雅关闭通道
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// CloseForcibly 强制关闭通道
//
// TCP 连接设置 SO_LINGER=0，关闭时发 RST 而非四次挥手。
func (c *Channel) CloseForcibly() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetLinger(0)
		}
		_ = conn.Close()
	}
}

// SetOption 设置通道选项
func (c *Channel) SetOption(opt pkgif.ChannelOption, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.setOption(opt, value)
}

// SetAttribute 附加属性
func (c *Channel) SetAttribute(key pkgif.AttributeKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[key] = value
}

// Attribute 读取属性
func (c *Channel) Attribute(key pkgif.AttributeKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.attrs[key]
	return v, ok
}

// LocalAddr 返回本地地址
func (c *Channel) LocalAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn.LocalAddr()
	}
	return c.localBind
}

// RemoteAddr 返回远端地址
func (c *Channel) RemoteAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn.RemoteAddr()
	}
	return nil
}

// Conn 返回底层连接，未连接时为 nil
//
// 供 pipeline 初始化器安装处理器使用。
func (c *Channel) Conn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// applyConnOptions 把记录的选项落到已建立的连接上
func applyConnOptions(conn net.Conn, opts channelOptions) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tcpConn.SetNoDelay(opts.noDelay)
	if opts.keepAlive {
		_ = tcpConn.SetKeepAlive(true)
	}
	if opts.rcvBuf > 0 {
		_ = tcpConn.SetReadBuffer(opts.rcvBuf)
	}
	if opts.sndBuf > 0 {
		_ = tcpConn.SetWriteBuffer(opts.sndBuf)
	}
}
