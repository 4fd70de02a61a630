package connector

import (
	"context"
	"net"

	"github.com/dep2p/go-connector/config"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// resolveAndConnect 解析远端地址并发起首次连接
//
// 解析策略：
//   - 解析器不支持该地址类型，或地址已是具体形式：跳过解析，
//     对单地址候选列表直接发起连接
//   - 否则异步解析；解析失败关闭通道并以解析错误终结，不做
//     地址回退；解析成功从索引 0 开始多地址连接
//
// 解析成功但地址列表为空按解析失败处理（ErrNoAddresses）。
func resolveAndConnect(
	ctx context.Context,
	ch pkgif.Channel,
	cfg *config.TransportConfig,
	remoteAddress net.Addr,
	resolver pkgif.Resolver,
) *ChannelFuture {
	bindAddress := cfg.BindAddress

	if !resolver.IsSupported(remoteAddress) || resolver.IsResolved(remoteAddress) {
		future := newChannelFuture(ch)
		doConnect([]net.Addr{remoteAddress}, bindAddress, future, 0)
		return future
	}

	if cfg.OnResolve != nil {
		cfg.OnResolve(ch)
	}

	resolveFuture := resolver.ResolveAll(ctx, remoteAddress)

	// 观察者先于最终处理挂接，保证观察者先收到通知
	if cfg.OnResolveError != nil {
		resolveFuture.OnComplete(func(_ []net.Addr, err error) {
			if err != nil {
				cfg.OnResolveError(ch, err)
			}
		})
	}
	if cfg.OnAfterResolve != nil {
		resolveFuture.OnComplete(func(addrs []net.Addr, err error) {
			if err == nil && len(addrs) > 0 {
				cfg.OnAfterResolve(ch, addrs[0])
			}
		})
	}

	future := newChannelFuture(ch)
	resolveFuture.OnComplete(func(addrs []net.Addr, err error) {
		if err == nil && len(addrs) == 0 {
			err = ErrNoAddresses
		}
		if err != nil {
			logger.Debug("地址解析失败", "channel", ch.ID(), "addr", remoteAddress, "error", err)
			_ = ch.Close()
			future.tryFailure(err)
			return
		}
		doConnect(addrs, bindAddress, future, 0)
	})
	return future
}
