package tcp

import "errors"

var (
	// ErrChannelClosed 通道已关闭
	ErrChannelClosed = errors.New("channel closed")

	// ErrNotConnected 通道未连接
	ErrNotConnected = errors.New("channel not connected")

	// ErrNotSupported 操作不被该通道类型支持
	ErrNotSupported = errors.New("operation not supported by channel type")

	// ErrAlreadyBound 通道已绑定
	ErrAlreadyBound = errors.New("channel already bound")

	// ErrInvalidOptionValue 选项值类型错误
	ErrInvalidOptionValue = errors.New("invalid option value type")
)
