package resolver

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
)

// ResolverOutput 解析器模块输出
type ResolverOutput struct {
	fx.Out

	Resolver pkgif.Resolver
}

// Module 解析器 Fx 模块
var Module = fx.Module("resolver",
	fx.Provide(provideResolver),
)

// provideResolver 提供默认 DNS 解析器
func provideResolver() (ResolverOutput, error) {
	r, err := NewDNSResolver()
	if err != nil {
		return ResolverOutput{}, err
	}
	return ResolverOutput{Resolver: r}, nil
}
