package config

import "errors"

var (
	// ErrNoGroup 未配置 EventLoop 池
	ErrNoGroup = errors.New("no event loop group configured")

	// ErrNoFactory 未配置任何通道工厂
	ErrNoFactory = errors.New("no channel factory configured")
)
