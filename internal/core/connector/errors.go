package connector

import (
	"errors"
	"net"
)

var (
	// ErrNoAddresses 解析未产生任何地址
	ErrNoAddresses = errors.New("resolver returned no addresses")

	// ErrNoFactory 没有匹配地址族的通道工厂
	ErrNoFactory = errors.New("no channel factory for address family")

	// ErrAcceptorRequired 服务端角色要求 AcceptorInitializer
	ErrAcceptorRequired = errors.New("server role requires an acceptor initializer")

	// ErrInvalidArgument 参数无效
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConnectError 终结性连接失败
//
// 候选耗尽后包装最后一次尝试的错误，携带失败的候选地址。
// Unwrap 暴露底层错误，errors.Is/As 可穿透。
type ConnectError struct {
	// Addr 最后一次尝试的候选地址
	Addr net.Addr

	// Err 最后一次尝试的底层错误
	Err error
}

func (e *ConnectError) Error() string {
	return "connect " + e.Addr.String() + ": " + e.Err.Error()
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// retryConnectError 内部重试信号
//
// 一次连接尝试失败但候选地址还有剩余时抛出，携带完整候选
// 列表（不是剩余切片），由重试循环捕获并在下一个索引上用
// 全新通道重启。永远不会暴露给外部调用方。
type retryConnectError struct {
	addresses []net.Addr
}

func (e *retryConnectError) Error() string {
	return "connect failed, remaining addresses to retry"
}
