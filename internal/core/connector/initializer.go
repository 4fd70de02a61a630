package connector

import (
	"github.com/dep2p/go-connector/config"
	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
	"github.com/dep2p/go-connector/pkg/lib/log"
)

var logger = log.Logger("core/connector")

// initAndRegister 创建、初始化并注册通道
//
// 步骤（任一失败短路其余）：
//  1. 按角色与地址族选择工厂并创建通道；工厂失败直接以失败
//     解析，没有通道需要清理
//  2. 其余步骤编组到通道的 EventLoop 上执行
//  3. 应用选项与属性（选项失败非致命）
//  4. pipeline 初始化：客户端同步完成；服务端等待 acceptor
//     通过 InitSignal 通知
//  5. 注册：成功以通道解析；失败按注册状态优雅或强制关闭
func initAndRegister(
	cfg *config.TransportConfig,
	init pkgif.ChannelInitializer,
	role pkgif.Role,
	isDomainSocket bool,
	loop pkgif.EventLoop,
) *ChannelFuture {
	var ch pkgif.Channel
	var err error
	if role == pkgif.RoleServer {
		factory := cfg.ServerConnectionFactory(isDomainSocket)
		if factory == nil {
			return newFailedFuture(loop, ErrNoFactory)
		}
		ch, err = factory.NewChannel(loop, cfg.ChildGroup)
	} else {
		factory := cfg.ConnectionFactory(isDomainSocket)
		if factory == nil {
			return newFailedFuture(loop, ErrNoFactory)
		}
		ch, err = factory.NewChannel(loop)
	}
	if err != nil {
		// 工厂失败，没有通道被创建
		logger.Warn("通道创建失败", "role", role, "error", err)
		return newFailedFuture(loop, err)
	}
	channelsCreated.Inc()

	future := newChannelFuture(ch)
	loop.Execute(func() {
		setChannelOptions(ch, cfg.Options, isDomainSocket)
		setAttributes(ch, cfg.Attributes)

		initDone := newSignal()
		if role == pkgif.RoleServer {
			acceptor, ok := init.(pkgif.AcceptorInitializer)
			if !ok {
				ch.CloseForcibly()
				future.tryFailure(ErrAcceptorRequired)
				return
			}
			// 先注入信号再初始化，acceptor 配置完成后解析信号
			acceptor.SetInitSignal(initDone)
			if initErr := init.InitChannel(ch); initErr != nil {
				ch.CloseForcibly()
				future.tryFailure(initErr)
				return
			}
		} else {
			if initErr := init.InitChannel(ch); initErr != nil {
				ch.CloseForcibly()
				future.tryFailure(initErr)
				return
			}
			// 客户端初始化同步等价，立即完成
			initDone.Complete(nil)
		}

		initDone.OnComplete(func(initErr error) {
			// 信号可能在 EventLoop 之外被解析（acceptor 异步通知），
			// 注册续延必须编组回通道的 EventLoop
			register := func() {
				if initErr != nil {
					// 通道从未到达注册状态，强制关闭
					ch.CloseForcibly()
					future.tryFailure(initErr)
					return
				}
				ch.Register().OnComplete(func(regErr error) {
					if regErr != nil {
						if ch.IsRegistered() {
							_ = ch.Close()
						} else {
							ch.CloseForcibly()
						}
						future.tryFailure(regErr)
						return
					}
					future.trySuccess()
				})
			}
			if loop.InLoop() {
				register()
				return
			}
			loop.Execute(register)
		})
	})
	return future
}

// setChannelOptions 应用通道选项
//
// 域套接字跳过地址族相关选项（SO_REUSEADDR/TCP_NODELAY），
// 不产生告警。未知选项与应用失败的选项记录告警后跳过，
// 配置永远不会中止初始化。
func setChannelOptions(ch pkgif.Channel, options map[pkgif.ChannelOption]any, isDomainSocket bool) {
	for key, value := range options {
		if isDomainSocket && (key == pkgif.OptionReuseAddr || key == pkgif.OptionNoDelay) {
			continue
		}
		handled, err := ch.SetOption(key, value)
		if err != nil {
			logger.Warn("通道选项应用失败",
				"channel", ch.ID(),
				"option", key,
				"value", value,
				"error", err)
			continue
		}
		if !handled {
			logger.Warn("未知通道选项", "channel", ch.ID(), "option", key)
		}
	}
}

// setAttributes 附加通道属性，总是全部成功
func setAttributes(ch pkgif.Channel, attrs map[pkgif.AttributeKey]any) {
	for key, value := range attrs {
		ch.SetAttribute(key, value)
	}
}
