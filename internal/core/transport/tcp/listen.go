package tcp

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listen 创建监听器
//
// 记录了 SO_REUSEADDR 的通道在绑定前通过 Control 钩子把选项
// 落到监听套接字上。
func listen(network, address string, opts channelOptions) (net.Listener, error) {
	var lc net.ListenConfig
	if opts.reuseAddr {
		lc.Control = func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		}
	}
	return lc.Listen(context.Background(), network, address)
}
