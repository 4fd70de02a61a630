// Package tcp 提供基于 TCP 与 Unix 域套接字的通道实现
//
// 通道是连接编排核心驱动的 I/O 端点句柄，本包提供其 net 包
// 实现：
//
//   - Channel：客户端通道，Connect 拨号建立出站连接
//   - ServerChannel：服务端通道，Bind 监听并接受入站连接
//
// 两者通过工厂创建并永久绑定到一个 EventLoop。选项在注册前
// 记录，拨号/监听时落到套接字上。
//
// # 支持的地址族
//
//   - TCP: *net.TCPAddr
//   - Unix 域套接字: *net.UnixAddr
//
// # 并发安全
//
// 状态变更应在通道绑定的 EventLoop 上执行；内部仍以
// sync.Mutex 保护，容忍 Close 等操作来自任意 goroutine。
package tcp
