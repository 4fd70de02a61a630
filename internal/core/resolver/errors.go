package resolver

import "errors"

var (
	// ErrUnsupportedAddress 地址类型不支持解析
	ErrUnsupportedAddress = errors.New("address type not supported by resolver")

	// ErrHostNotFound 主机名不存在
	ErrHostNotFound = errors.New("host not found")

	// ErrNoRecords 查询成功但没有地址记录
	ErrNoRecords = errors.New("no address records for host")

	// ErrNoServers 没有可用的 DNS 服务器
	ErrNoServers = errors.New("no dns servers configured")
)
