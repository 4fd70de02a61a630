package connector

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dep2p/go-connector/config"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ============================================================================
//                              公共入口
// ============================================================================

// Connect 连接到远端地址
//
// 使用配置池中的下一个 EventLoop。ctx 携带传播值与取消，
// 传递给解析器。
func Connect(
	ctx context.Context,
	cfg *config.TransportConfig,
	remoteAddress net.Addr,
	resolver pkgif.Resolver,
	init pkgif.ChannelInitializer,
) *ChannelFuture {
	if cfg == nil || cfg.Group == nil {
		return newFailedFuture(nil, fmt.Errorf("%w: config", ErrInvalidArgument))
	}
	return ConnectOn(ctx, cfg, remoteAddress, resolver, init, cfg.Group.Next())
}

// ConnectOn 在指定 EventLoop 上连接到远端地址
//
// 流程：创建并注册首个通道 → 解析远端地址 → 按候选顺序连接，
// 每次失败后用全新通道推进地址游标，直到成功或候选耗尽。
// 重试对调用方不可见，只有最后一次尝试的错误会浮出。
func ConnectOn(
	ctx context.Context,
	cfg *config.TransportConfig,
	remoteAddress net.Addr,
	resolver pkgif.Resolver,
	init pkgif.ChannelInitializer,
	loop pkgif.EventLoop,
) *ChannelFuture {
	if err := checkConnectArgs(cfg, remoteAddress, resolver, init, loop); err != nil {
		return newFailedFuture(loop, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	isDomainSocket := isDomainAddr(remoteAddress)
	outer := newPendingFuture(loop)

	initAndRegister(cfg, init, pkgif.RoleClient, isDomainSocket, loop).Subscribe(
		func(ch pkgif.Channel, err error) {
			if err != nil {
				outer.tryFailure(err)
				return
			}
			outer.setChannel(ch)
			if outer.IsCancelled() {
				_ = ch.Close()
				return
			}
			resolveAndConnect(ctx, ch, cfg, remoteAddress, resolver).Subscribe(
				func(_ pkgif.Channel, connErr error) {
					if connErr == nil {
						outer.trySuccess()
						return
					}
					var retry *retryConnectError
					if errors.As(connErr, &retry) {
						retryConnect(cfg, init, isDomainSocket, loop, retry.addresses, 1, outer)
						return
					}
					connectFailures.Inc()
					outer.tryFailure(connErr)
				})
		})
	return outer
}

// Bind 绑定通道到本地地址
//
// 创建并注册通道后在其 EventLoop 上执行绑定。不涉及解析与
// 重试。role 指定初始化流程：服务端要求 AcceptorInitializer。
func Bind(
	cfg *config.TransportConfig,
	init pkgif.ChannelInitializer,
	bindAddress net.Addr,
	isDomainSocket bool,
	role pkgif.Role,
) *ChannelFuture {
	if cfg == nil || cfg.Group == nil {
		return newFailedFuture(nil, fmt.Errorf("%w: config", ErrInvalidArgument))
	}
	if bindAddress == nil {
		return newFailedFuture(nil, fmt.Errorf("%w: bindAddress", ErrInvalidArgument))
	}
	if init == nil {
		return newFailedFuture(nil, fmt.Errorf("%w: init", ErrInvalidArgument))
	}

	loop := cfg.Group.Next()
	outer := newPendingFuture(loop)

	initAndRegister(cfg, init, role, isDomainSocket, loop).Subscribe(
		func(ch pkgif.Channel, err error) {
			if err != nil {
				outer.tryFailure(err)
				return
			}
			outer.setChannel(ch)
			if outer.IsCancelled() {
				_ = ch.Close()
				return
			}
			ch.Executor().Execute(func() {
				ch.Bind(bindAddress).OnComplete(func(bindErr error) {
					if bindErr != nil {
						_ = ch.Close()
						outer.tryFailure(bindErr)
						return
					}
					outer.trySuccess()
				})
			})
		})
	return outer
}

// ============================================================================
//                              多地址连接状态机
// ============================================================================

// doConnect 对候选列表中指定索引的地址发起一次连接尝试
//
// 配置了本地绑定地址提供者时以 local+remote 双地址连接。
// 失败时关闭当前通道：若候选还有剩余，以携带完整候选列表的
// 重试信号终结本次尝试；否则以真实连接错误终结。
func doConnect(
	addresses []net.Addr,
	bindAddress func() net.Addr,
	connectFuture *ChannelFuture,
	index int,
) {
	ch := connectFuture.channel()
	ch.Executor().Execute(func() {
		remoteAddress := addresses[index]
		logger.Debug("开始连接",
			"channel", ch.ID(),
			"addr", remoteAddress,
			"attempt", index+1,
			"candidates", len(addresses))
		connectAttempts.Inc()

		var local net.Addr
		if bindAddress != nil {
			local = bindAddress()
		}

		ch.Connect(remoteAddress, local).OnComplete(func(err error) {
			if err == nil {
				connectFuture.trySuccess()
				return
			}
			_ = ch.Close()
			logger.Debug("连接尝试失败",
				"channel", ch.ID(),
				"addr", remoteAddress,
				"error", err)

			if index+1 < len(addresses) {
				connectFuture.tryFailure(&retryConnectError{addresses: addresses})
			} else {
				connectFuture.tryFailure(&ConnectError{Addr: remoteAddress, Err: err})
			}
		})
	})
}

// retryConnect 在下一个地址索引上用全新通道重试
//
// 地址游标外置于候选列表：重试携带完整列表并推进索引，
// 不收缩列表本身，候选存在重复地址时尝试顺序保持不变。
// 已失败的通道不会被复用。
func retryConnect(
	cfg *config.TransportConfig,
	init pkgif.ChannelInitializer,
	isDomainSocket bool,
	loop pkgif.EventLoop,
	addresses []net.Addr,
	index int,
	outer *ChannelFuture,
) {
	if outer.IsCancelled() {
		logger.Debug("连接已取消，停止重试", "nextAttempt", index+1)
		return
	}
	connectRetries.Inc()

	initAndRegister(cfg, init, pkgif.RoleClient, isDomainSocket, loop).Subscribe(
		func(ch pkgif.Channel, err error) {
			if err != nil {
				outer.tryFailure(err)
				return
			}
			outer.setChannel(ch)
			if outer.IsCancelled() {
				_ = ch.Close()
				return
			}
			attempt := newChannelFuture(ch)
			doConnect(addresses, cfg.BindAddress, attempt, index)
			attempt.Subscribe(func(_ pkgif.Channel, connErr error) {
				if connErr == nil {
					outer.trySuccess()
					return
				}
				var retry *retryConnectError
				if errors.As(connErr, &retry) && index+1 < len(addresses) {
					retryConnect(cfg, init, isDomainSocket, loop, retry.addresses, index+1, outer)
					return
				}
				connectFailures.Inc()
				outer.tryFailure(connErr)
			})
		})
}

// checkConnectArgs 校验连接参数
func checkConnectArgs(
	cfg *config.TransportConfig,
	remoteAddress net.Addr,
	resolver pkgif.Resolver,
	init pkgif.ChannelInitializer,
	loop pkgif.EventLoop,
) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: config", ErrInvalidArgument)
	case remoteAddress == nil:
		return fmt.Errorf("%w: remoteAddress", ErrInvalidArgument)
	case resolver == nil:
		return fmt.Errorf("%w: resolver", ErrInvalidArgument)
	case init == nil:
		return fmt.Errorf("%w: init", ErrInvalidArgument)
	case loop == nil:
		return fmt.Errorf("%w: loop", ErrInvalidArgument)
	}
	return nil
}

// isDomainAddr 返回地址是否为 Unix 域套接字地址
func isDomainAddr(addr net.Addr) bool {
	_, ok := addr.(*net.UnixAddr)
	return ok
}
