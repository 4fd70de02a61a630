package eventloop

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// GroupParams EventLoop 池依赖参数
type GroupParams struct {
	fx.In

	// Size 池大小，0 表示 GOMAXPROCS
	Size int `name:"eventloop_size" optional:"true"`
}

// GroupOutput EventLoop 池输出
type GroupOutput struct {
	fx.Out

	Group pkgif.EventLoopGroup
}

// Module EventLoop Fx 模块
var Module = fx.Module("eventloop",
	fx.Provide(provideGroup),
)

// provideGroup 提供 EventLoop 池并挂接生命周期
func provideGroup(params GroupParams, lc fx.Lifecycle) GroupOutput {
	g := NewGroup(params.Size)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return g.Shutdown(ctx)
		},
	})
	return GroupOutput{Group: g}
}
