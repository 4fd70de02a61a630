// Package goconnector 提供连接建立编排库的根门面
//
// go-connector 把一次出站连接（或服务端绑定）所需的全部步骤编排为
// 单个异步操作：
//
//	通道创建 → 选项/属性配置 → pipeline 初始化 → EventLoop 注册
//	  → 远端地址解析 → 多候选地址逐个连接（失败自动换新通道重试）
//
// 调用方通过 ChannelFuture 订阅最终结果：要么得到一个已就绪的
// Channel，要么得到最后一次尝试的失败原因；中间重试不可见。
//
// # 快速开始
//
//	group := eventloop.NewGroup(4)
//	cfg := config.New(
//	    config.WithGroup(group),
//	    config.WithClientFactory(tcp.NewClientFactory()),
//	    config.WithOption(interfaces.OptionNoDelay, true),
//	)
//	conn, err := goconnector.New(cfg, goconnector.WithResolver(resolver))
//	if err != nil {
//	    ...
//	}
//	future := conn.Connect(ctx, addr, initializer)
//	ch, err := future.Wait(ctx)
//
// # Fx 集成
//
// 嵌入 Fx 应用时使用 goconnector.Module，它聚合 EventLoop 池、
// DNS 解析器与连接器三个子模块。
package goconnector
