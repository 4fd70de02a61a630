// Package interfaces 定义 go-connector 公共接口
//
// 本文件定义 pipeline 初始化接口与角色标记。
package interfaces

// Role 通道角色
//
// 客户端与服务端的 pipeline 初始化流程不同：客户端初始化是
// 同步等价的，服务端初始化完成由 acceptor 异步通知。
type Role int

const (
	// RoleClient 客户端（发起连接方）
	RoleClient Role = iota

	// RoleServer 服务端（acceptor）
	RoleServer
)

// String 返回角色名称
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "unknown"
	}
}

// ChannelInitializer 通道 pipeline 初始化器
type ChannelInitializer interface {
	// InitChannel 初始化通道 pipeline
	//
	// 在通道的 EventLoop 上调用。返回错误时通道被强制关闭。
	InitChannel(ch Channel) error
}

// InitSignal 服务端初始化完成信号
//
// acceptor 完成子连接处理配置后必须调用 Complete。
type InitSignal interface {
	// Complete 解析信号，首次调用生效，返回是否生效
	Complete(err error) bool
}

// AcceptorInitializer 服务端 pipeline 初始化器
//
// 初始化完成不随 InitChannel 返回而到来，由 acceptor 通过
// 注入的 InitSignal 异步通知。
type AcceptorInitializer interface {
	ChannelInitializer

	// SetInitSignal 注入完成信号
	//
	// 在 InitChannel 之前调用。
	SetInitSignal(sig InitSignal)
}
