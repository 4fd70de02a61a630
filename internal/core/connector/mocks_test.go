package connector

import (
	"context"
	"net"
	"sync"

	"github.com/dep2p/go-connector/internal/core/eventloop"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ============================================================================
//                              测试辅助实现
// ============================================================================

// completedOp 已完成的操作结果
type completedOp struct {
	err error
}

func (f *completedOp) OnComplete(fn func(error)) {
	fn(f.err)
}

// mockChannel 可编排行为的通道
type mockChannel struct {
	id   string
	loop pkgif.EventLoop

	mu             sync.Mutex
	registered     bool
	registerInLoop bool
	closed         bool
	forciblyClosed bool
	opts           map[pkgif.ChannelOption]any
	attrs          map[pkgif.AttributeKey]any
	localAddr      net.Addr
	connectCalls   []net.Addr

	// 行为脚本
	connectFn   func(remote net.Addr) error
	registerErr error
	// registerErr 生效时通道是否仍被标记为已注册
	registeredOnFailure bool
	unknownOpts         map[pkgif.ChannelOption]bool
	optErrs             map[pkgif.ChannelOption]error
}

func newMockChannel(id string, loop pkgif.EventLoop) *mockChannel {
	return &mockChannel{
		id:    id,
		loop:  loop,
		opts:  make(map[pkgif.ChannelOption]any),
		attrs: make(map[pkgif.AttributeKey]any),
	}
}

func (c *mockChannel) ID() string                { return c.id }
func (c *mockChannel) Executor() pkgif.EventLoop { return c.loop }

func (c *mockChannel) Connect(remote net.Addr, local net.Addr) pkgif.Future {
	c.mu.Lock()
	c.connectCalls = append(c.connectCalls, remote)
	fn := c.connectFn
	c.mu.Unlock()
	if fn == nil {
		return &completedOp{}
	}
	return &completedOp{err: fn(remote)}
}

func (c *mockChannel) Bind(local net.Addr) pkgif.Future {
	c.mu.Lock()
	c.localAddr = local
	c.mu.Unlock()
	return &completedOp{}
}

func (c *mockChannel) Register() pkgif.Future {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerInLoop = c.loop.InLoop()
	if c.registerErr != nil {
		c.registered = c.registeredOnFailure
		return &completedOp{err: c.registerErr}
	}
	c.registered = true
	return &completedOp{}
}

func (c *mockChannel) IsRegistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

func (c *mockChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *mockChannel) CloseForcibly() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.forciblyClosed = true
}

func (c *mockChannel) SetOption(opt pkgif.ChannelOption, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unknownOpts[opt] {
		return false, nil
	}
	if err, ok := c.optErrs[opt]; ok {
		return true, err
	}
	c.opts[opt] = value
	return true, nil
}

func (c *mockChannel) SetAttribute(key pkgif.AttributeKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[key] = value
}

func (c *mockChannel) Attribute(key pkgif.AttributeKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.attrs[key]
	return v, ok
}

func (c *mockChannel) LocalAddr() net.Addr  { return c.localAddr }
func (c *mockChannel) RemoteAddr() net.Addr { return nil }

func (c *mockChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// mockFactory 记录创建历史的通道工厂
type mockFactory struct {
	mu        sync.Mutex
	created   []*mockChannel
	err       error
	configure func(ch *mockChannel)
}

func (f *mockFactory) NewChannel(loop pkgif.EventLoop) (pkgif.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ch := newMockChannel("mock-"+string(rune('a'+len(f.created))), loop)
	if f.configure != nil {
		f.configure(ch)
	}
	f.created = append(f.created, ch)
	return ch, nil
}

func (f *mockFactory) channels() []*mockChannel {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*mockChannel, len(f.created))
	copy(out, f.created)
	return out
}

// mockServerFactory 服务端通道工厂
type mockServerFactory struct {
	mockFactory
}

func (f *mockServerFactory) NewChannel(loop pkgif.EventLoop, _ pkgif.EventLoopGroup) (pkgif.Channel, error) {
	return f.mockFactory.NewChannel(loop)
}

// mockResolveFuture 同步完成的解析结果
type mockResolveFuture struct {
	addrs []net.Addr
	err   error
}

func (f *mockResolveFuture) OnComplete(fn func([]net.Addr, error)) {
	fn(f.addrs, f.err)
}

// mockResolver 可编排的解析器
type mockResolver struct {
	supported bool
	resolved  bool
	addrs     []net.Addr
	err       error

	mu           sync.Mutex
	resolveCalls int
}

func (r *mockResolver) IsSupported(net.Addr) bool { return r.supported }
func (r *mockResolver) IsResolved(net.Addr) bool  { return r.resolved }

func (r *mockResolver) ResolveAll(_ context.Context, _ net.Addr) pkgif.ResolveFuture {
	r.mu.Lock()
	r.resolveCalls++
	r.mu.Unlock()
	return &mockResolveFuture{addrs: r.addrs, err: r.err}
}

func (r *mockResolver) Close() error { return nil }

// passthroughResolver 视所有地址为已解析
func passthroughResolver() *mockResolver {
	return &mockResolver{supported: true, resolved: true}
}

// clientInit 客户端初始化器
type clientInit struct {
	mu     sync.Mutex
	err    error
	called int
}

func (i *clientInit) InitChannel(ch pkgif.Channel) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.called++
	return i.err
}

func (i *clientInit) calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.called
}

// acceptorInit 服务端初始化器
//
// completeWith 非 nil 时在 InitChannel 内解析信号，模拟 acceptor
// 同步完成配置；否则保留信号供测试稍后解析。
type acceptorInit struct {
	mu           sync.Mutex
	sig          pkgif.InitSignal
	completeWith *error
}

func (i *acceptorInit) SetInitSignal(sig pkgif.InitSignal) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sig = sig
}

func (i *acceptorInit) InitChannel(ch pkgif.Channel) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.completeWith != nil {
		i.sig.Complete(*i.completeWith)
	}
	return nil
}

func (i *acceptorInit) signal() pkgif.InitSignal {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sig
}

// newTestLoop 创建测试用事件循环，测试结束自动停止
type stopper interface {
	Cleanup(fn func())
}

func newTestLoop(t stopper) *eventloop.Loop {
	loop := eventloop.NewLoop()
	t.Cleanup(func() {
		_ = loop.Stop(context.Background())
	})
	return loop
}

// singleLoopGroup 固定返回同一个 EventLoop 的组
type singleLoopGroup struct {
	loop pkgif.EventLoop
}

func (g *singleLoopGroup) Next() pkgif.EventLoop          { return g.loop }
func (g *singleLoopGroup) Shutdown(context.Context) error { return nil }
