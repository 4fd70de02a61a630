// Package connector 实现连接建立编排核心
//
// connector 负责创建、初始化并注册通道，然后执行到远端的实际
// 连接操作或本地绑定操作。它把多个异步、线程受限的步骤（通道
// 创建、选项应用、pipeline 初始化、EventLoop 注册、地址解析、
// 连接尝试）编排为一个一致的成功/失败结果。
//
// # 核心职责
//
//   - 通道生命周期：工厂创建 → 选项/属性应用 → pipeline 初始化 → 注册
//   - 地址解析桥接：逻辑地址经解析器展开为有序候选地址列表
//   - 多地址回退：按解析顺序逐个尝试，每次重试使用全新通道
//   - 单值异步结果：ChannelFuture 恰好解析一次，支持取消
//
// # 控制流
//
//	Connect → initAndRegister（首个通道）
//	        → resolveAndConnect（解析 + 首次尝试）
//	        → retryConnect（失败后换新通道推进地址游标）
//	        → ChannelFuture
//
//	Bind → initAndRegister → 通道 Bind → ChannelFuture
//
// # 错误分类
//
//   - 通道创建失败：致命，无需清理（没有通道被创建）
//   - 选项应用失败：每选项非致命，记录后跳过
//   - pipeline 初始化失败：该通道致命，强制关闭
//   - 注册失败：致命，按注册状态优雅或强制关闭
//   - 解析失败：致命，关闭通道，不做地址回退
//   - 连接失败：地址回退重试，候选耗尽后致命
//
// 所有致命失败都在错误浮出前关闭牵涉的通道，不泄漏半开通道。
// 可重试的连接失败永远不会暴露给外部调用方。
//
// # 并发模型
//
// 编排器本身无状态，可从任意 goroutine 调用；所有触碰通道的
// 操作都会被编组到通道绑定的 EventLoop 上执行。解析、连接、
// 绑定、注册均为异步挂起点，通过 ChannelFuture 注册续延，
// 不阻塞调用线程。
//
// # Fx 模块集成
//
//	app := fx.New(
//	    eventloop.Module,
//	    resolver.Module,
//	    connector.Module,
//	    fx.Invoke(func(c *connector.Connector) {
//	        // 使用连接器
//	    }),
//	)
package connector
