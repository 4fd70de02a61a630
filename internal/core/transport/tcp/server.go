package tcp

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	tec "github.com/jbenet/go-temp-err-catcher"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// AcceptHandler 入站连接回调
//
// 每个被接受的连接包装为子通道并分派到子 EventLoop 组，
// 回调在子通道的 EventLoop 上触发。
type AcceptHandler func(child pkgif.Channel)

// 确保实现接口
var _ pkgif.Channel = (*ServerChannel)(nil)

// ServerChannel 服务端通道
type ServerChannel struct {
	id         string
	network    string
	loop       pkgif.EventLoop
	childGroup pkgif.EventLoopGroup

	mu         sync.Mutex
	listener   net.Listener
	registered bool
	closed     bool
	opts       channelOptions
	childOpts  channelOptions
	attrs      map[pkgif.AttributeKey]any
	onAccept   AcceptHandler

	acceptDone chan struct{}
}

// newServerChannel 创建服务端通道
func newServerChannel(network string, loop pkgif.EventLoop, childGroup pkgif.EventLoopGroup) *ServerChannel {
	return &ServerChannel{
		id:         uuid.NewString(),
		network:    network,
		loop:       loop,
		childGroup: childGroup,
		opts:       channelOptions{connectTimeout: defaultConnectTimeout},
		attrs:      make(map[pkgif.AttributeKey]any),
	}
}

// ID 返回通道唯一标识
func (s *ServerChannel) ID() string {
	return s.id
}

// Executor 返回通道绑定的 EventLoop
func (s *ServerChannel) Executor() pkgif.EventLoop {
	return s.loop
}

// SetAcceptHandler 设置入站连接回调
//
// 须在 Bind 之前调用，通常由 pipeline 初始化器完成。
func (s *ServerChannel) SetAcceptHandler(fn AcceptHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAccept = fn
}

// Connect 服务端通道不支持出站连接
func (s *ServerChannel) Connect(remote net.Addr, local net.Addr) pkgif.Future {
	return completedFuture(ErrNotSupported)
}

// Bind 监听本地地址并启动接受循环
//
// 监听在独立 goroutine 中建立，不阻塞 EventLoop。
func (s *ServerChannel) Bind(local net.Addr) pkgif.Future {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return completedFuture(ErrChannelClosed)
	}
	if s.listener != nil {
		s.mu.Unlock()
		return completedFuture(ErrAlreadyBound)
	}
	opts := s.opts
	s.mu.Unlock()

	future := newOpFuture()
	go func() {
		listener, err := listen(s.network, local.String(), opts)
		if err != nil {
			future.complete(fmt.Errorf("listen %s %s: %w", s.network, local, err))
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = listener.Close()
			future.complete(ErrChannelClosed)
			return
		}
		s.listener = listener
		s.acceptDone = make(chan struct{})
		s.mu.Unlock()

		logger.Info("服务端通道开始监听",
			"channel", s.id,
			"addr", listener.Addr())

		go s.acceptLoop(listener)
		future.complete(nil)
	}()
	return future
}

// acceptLoop 接受循环
//
// 临时性错误（EMFILE 等）记录后继续，永久性错误退出循环。
func (s *ServerChannel) acceptLoop(listener net.Listener) {
	defer close(s.acceptDone)

	var catcher tec.TempErrCatcher
	for {
		conn, err := listener.Accept()
		if err != nil {
			if catcher.IsTemporary(err) {
				logger.Warn("接受连接遇到临时错误", "channel", s.id, "err", err)
				continue
			}
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				logger.Error("接受循环异常退出", "channel", s.id, "err", err)
			}
			return
		}
		s.dispatch(conn)
	}
}

// dispatch 将入站连接包装为子通道并分派
func (s *ServerChannel) dispatch(conn net.Conn) {
	s.mu.Lock()
	handler := s.onAccept
	childOpts := s.childOpts
	s.mu.Unlock()

	if handler == nil {
		logger.Warn("未设置接受回调，丢弃入站连接",
			"channel", s.id,
			"remote", conn.RemoteAddr())
		_ = conn.Close()
		return
	}

	childLoop := s.loop
	if s.childGroup != nil {
		childLoop = s.childGroup.Next()
	}

	child := newChannel(s.network, childLoop)
	child.mu.Lock()
	child.conn = conn
	child.registered = true
	child.opts = childOpts
	child.mu.Unlock()
	applyConnOptions(conn, childOpts)

	logger.Debug("接受入站连接",
		"channel", s.id,
		"child", child.id,
		"remote", conn.RemoteAddr())

	childLoop.Execute(func() {
		handler(child)
	})
}

// Register 向 EventLoop 注册通道
func (s *ServerChannel) Register() pkgif.Future {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return completedFuture(ErrChannelClosed)
	}
	s.registered = true
	return completedFuture(nil)
}

// IsRegistered 返回通道是否已注册
func (s *ServerChannel) IsRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered
}

// Close 关闭监听器并等待接受循环退出
func (s *ServerChannel) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	acceptDone := s.acceptDone
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	if acceptDone != nil {
		<-acceptDone
	}
	return err
}

// CloseForcibly 强制关闭通道
func (s *ServerChannel) CloseForcibly() {
	_ = s.Close()
}

// SetOption 设置通道选项
//
// 选项同时记录到子通道模板，入站连接继承。
func (s *ServerChannel) SetOption(opt pkgif.ChannelOption, value any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handled, err := s.opts.setOption(opt, value); !handled || err != nil {
		return handled, err
	}
	return s.childOpts.setOption(opt, value)
}

// SetAttribute 附加属性
func (s *ServerChannel) SetAttribute(key pkgif.AttributeKey, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[key] = value
}

// Attribute 读取属性
func (s *ServerChannel) Attribute(key pkgif.AttributeKey) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[key]
	return v, ok
}

// LocalAddr 返回监听地址
func (s *ServerChannel) LocalAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// RemoteAddr 服务端通道无远端地址
func (s *ServerChannel) RemoteAddr() net.Addr {
	return nil
}
