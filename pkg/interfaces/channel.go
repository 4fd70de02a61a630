// Package interfaces 定义 go-connector 公共接口
//
// 本文件定义 Channel 接口，抽象传输引擎提供的 I/O 端点句柄。
package interfaces

import (
	"context"
	"net"
)

// ChannelOption 通道配置选项键
//
// 选项在通道创建后、注册前应用。未知选项不是致命错误。
type ChannelOption string

// 标准选项键
const (
	// OptionReuseAddr SO_REUSEADDR
	OptionReuseAddr ChannelOption = "SO_REUSEADDR"

	// OptionNoDelay TCP_NODELAY
	OptionNoDelay ChannelOption = "TCP_NODELAY"

	// OptionKeepAlive SO_KEEPALIVE
	OptionKeepAlive ChannelOption = "SO_KEEPALIVE"

	// OptionConnectTimeout 连接超时（time.Duration）
	OptionConnectTimeout ChannelOption = "CONNECT_TIMEOUT"

	// OptionRcvBuf SO_RCVBUF（int，字节）
	OptionRcvBuf ChannelOption = "SO_RCVBUF"

	// OptionSndBuf SO_SNDBUF（int，字节）
	OptionSndBuf ChannelOption = "SO_SNDBUF"
)

// AttributeKey 通道属性键
//
// 属性是附加在通道上的任意元数据，设置总是成功。
type AttributeKey string

// Future 异步操作结果
//
// OnComplete 注册完成回调；若操作已完成，回调被立即调用。
// 允许注册多个回调，按注册顺序通知。
type Future interface {
	// OnComplete 注册完成回调，err 为 nil 表示成功
	OnComplete(fn func(err error))
}

// Channel 传输引擎的 I/O 端点句柄
//
// 每个 Channel 永久绑定到一个 EventLoop，所有状态变更必须在
// 该 EventLoop 上执行。生命周期：
// 创建 → 配置 → pipeline 初始化 → 注册 → 可用，
// 任一阶段失败时由调用方负责关闭。
type Channel interface {
	// ID 返回通道唯一标识
	ID() string

	// Executor 返回通道绑定的 EventLoop
	Executor() EventLoop

	// Connect 连接到远端地址，local 可为 nil
	Connect(remote net.Addr, local net.Addr) Future

	// Bind 绑定本地地址
	Bind(local net.Addr) Future

	// Register 向 EventLoop 注册通道
	Register() Future

	// IsRegistered 返回通道是否已注册
	IsRegistered() bool

	// Close 优雅关闭通道
	Close() error

	// CloseForcibly 强制关闭通道（未注册成功的通道）
	CloseForcibly()

	// SetOption 设置通道选项
	//
	// 返回值 (handled, err)：
	//   - handled=false 表示选项不被识别
	//   - err 非 nil 表示选项被识别但应用失败
	SetOption(opt ChannelOption, value any) (bool, error)

	// SetAttribute 附加属性，总是成功
	SetAttribute(key AttributeKey, value any)

	// Attribute 读取属性
	Attribute(key AttributeKey) (any, bool)

	// LocalAddr 返回本地地址，未绑定时为 nil
	LocalAddr() net.Addr

	// RemoteAddr 返回远端地址，未连接时为 nil
	RemoteAddr() net.Addr
}

// ChannelFactory 客户端通道工厂
type ChannelFactory interface {
	// NewChannel 创建绑定到指定 EventLoop 的通道
	//
	// 资源耗尽时返回错误，此时没有通道需要清理。
	NewChannel(loop EventLoop) (Channel, error)
}

// ServerChannelFactory 服务端通道工厂
type ServerChannelFactory interface {
	// NewChannel 创建服务端通道
	//
	// childGroup 为已接受连接提供 EventLoop。
	NewChannel(loop EventLoop, childGroup EventLoopGroup) (Channel, error)
}

// ChannelFuture 单值异步通道结果
//
// 恰好解析一次为就绪的 Channel 或失败原因，恰好允许一个订阅者。
type ChannelFuture interface {
	// Subscribe 注册唯一消费者
	//
	// 若结果已解析，消费者在通道的 EventLoop 上收到已存储的结果；
	// 否则在解析时收到通知。重复订阅是使用错误，会被忽略并记录。
	Subscribe(fn func(ch Channel, err error))

	// Cancel 取消操作
	//
	// 关闭当前在途的通道，不直接解析结果；在途操作会因通道
	// 关闭而自然失败。
	Cancel()

	// Wait 阻塞等待结果（内部使用 Subscribe，计入唯一订阅）
	Wait(ctx context.Context) (Channel, error)
}
