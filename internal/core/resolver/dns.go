package resolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/miekg/dns"
	"golang.org/x/sync/singleflight"

	pkgif "github.com/dep2p/go-connector/pkg/interfaces"
	"github.com/dep2p/go-connector/pkg/types"
)

// DNS 解析参数
const (
	// 缓存容量（主机数）
	dnsCacheSize = 256

	// 缓存 TTL 上限，记录自带 TTL 超过该值时被截断
	dnsMaxTTL = 10 * time.Minute

	// 缓存 TTL 下限，防止 TTL=0 的记录被反复查询
	dnsMinTTL = 5 * time.Second

	// 单次查询超时
	dnsQueryTimeout = 5 * time.Second
)

// cacheEntry DNS 缓存条目
type cacheEntry struct {
	ips     []net.IP
	expires time.Time
}

// lookupResult 单次查询结果（singleflight 共享）
type lookupResult struct {
	ips []net.IP
	ttl time.Duration
}

// exchangeFunc DNS 报文交换函数，测试中可注入
type exchangeFunc func(ctx context.Context, m *dns.Msg, server string) (*dns.Msg, error)

// 确保实现接口
var _ pkgif.Resolver = (*DNSResolver)(nil)

// DNSResolver 基于 miekg/dns 的地址解析器
//
// 对未解析的 TCP 地址执行 A + AAAA 查询，返回顺序为 IPv4 在前、
// IPv6 在后，同族记录保持服务器返回顺序。并发的同主机查询经
// singleflight 合并，结果按记录 TTL 缓存。
type DNSResolver struct {
	servers  []string
	client   *dns.Client
	clock    clock.Clock
	cache    *lru.Cache[string, *cacheEntry]
	inflight singleflight.Group
	exchange exchangeFunc
}

// DNSOption DNS 解析器选项
type DNSOption func(*DNSResolver)

// WithServers 指定 DNS 服务器（host:port）
func WithServers(servers ...string) DNSOption {
	return func(r *DNSResolver) {
		r.servers = servers
	}
}

// WithClock 注入时钟（测试用）
func WithClock(c clock.Clock) DNSOption {
	return func(r *DNSResolver) {
		r.clock = c
	}
}

// WithExchange 注入报文交换函数（测试用）
func WithExchange(fn exchangeFunc) DNSOption {
	return func(r *DNSResolver) {
		r.exchange = fn
	}
}

// NewDNSResolver 创建 DNS 解析器
//
// 未指定服务器时读取 /etc/resolv.conf。
func NewDNSResolver(opts ...DNSOption) (*DNSResolver, error) {
	cache, err := lru.New[string, *cacheEntry](dnsCacheSize)
	if err != nil {
		return nil, err
	}
	r := &DNSResolver{
		client: &dns.Client{Timeout: dnsQueryTimeout},
		clock:  clock.New(),
		cache:  cache,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exchange == nil {
		r.exchange = r.defaultExchange
	}
	if len(r.servers) == 0 {
		cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("load resolv.conf: %w", err)
		}
		for _, s := range cfg.Servers {
			r.servers = append(r.servers, net.JoinHostPort(s, cfg.Port))
		}
	}
	if len(r.servers) == 0 {
		return nil, ErrNoServers
	}
	return r, nil
}

// IsSupported 返回地址类型是否可被解析
func (r *DNSResolver) IsSupported(addr net.Addr) bool {
	return isSupportedAddr(addr)
}

// IsResolved 返回地址是否已是具体形式
func (r *DNSResolver) IsResolved(addr net.Addr) bool {
	return isResolvedAddr(addr)
}

// ResolveAll 解析逻辑地址为有序具体地址列表
func (r *DNSResolver) ResolveAll(ctx context.Context, addr net.Addr) pkgif.ResolveFuture {
	ua, ok := addr.(*types.UnresolvedTCPAddr)
	if !ok {
		return resolvedFuture(nil, fmt.Errorf("%w: %T", ErrUnsupportedAddress, addr))
	}

	// 字面量 IP 不需要查询
	if ip := net.ParseIP(ua.Host); ip != nil {
		return resolvedFuture([]net.Addr{&net.TCPAddr{IP: ip, Port: ua.Port}}, nil)
	}

	// 缓存命中同步完成
	if entry, ok := r.cache.Get(ua.Host); ok && r.clock.Now().Before(entry.expires) {
		return resolvedFuture(withPort(entry.ips, ua.Port), nil)
	}

	promise := newResolvePromise()
	go func() {
		v, err, _ := r.inflight.Do(ua.Host, func() (interface{}, error) {
			return r.lookup(ctx, ua.Host)
		})
		if err != nil {
			promise.complete(nil, err)
			return
		}
		res := v.(*lookupResult)
		r.cache.Add(ua.Host, &cacheEntry{
			ips:     res.ips,
			expires: r.clock.Now().Add(res.ttl),
		})
		promise.complete(withPort(res.ips, ua.Port), nil)
	}()
	return promise
}

// Close 释放解析器资源
func (r *DNSResolver) Close() error {
	r.cache.Purge()
	return nil
}

// lookup 执行 A + AAAA 查询
//
// 返回顺序：A 记录在前、AAAA 在后，同族保持服务器返回顺序。
// 没有任何记录返回 ErrNoRecords，绝不返回空成功。
func (r *DNSResolver) lookup(ctx context.Context, host string) (*lookupResult, error) {
	var ips []net.IP
	ttl := dnsMaxTTL

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(host), qtype)
		m.RecursionDesired = true

		resp, err := r.exchangeAny(ctx, m)
		if err != nil {
			// 单个族查询失败不致命，另一族可能有结果
			logger.Debug("DNS 查询失败", "host", host, "qtype", dns.TypeToString[qtype], "error", err)
			continue
		}
		if resp.Rcode == dns.RcodeNameError {
			return nil, fmt.Errorf("%w: %s", ErrHostNotFound, host)
		}
		for _, rr := range resp.Answer {
			switch record := rr.(type) {
			case *dns.A:
				ips = append(ips, record.A)
			case *dns.AAAA:
				ips = append(ips, record.AAAA)
			default:
				continue
			}
			if d := time.Duration(rr.Header().Ttl) * time.Second; d < ttl {
				ttl = d
			}
		}
	}

	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, host)
	}
	if ttl < dnsMinTTL {
		ttl = dnsMinTTL
	}
	logger.Debug("DNS 解析成功", "host", host, "count", len(ips), "ttl", ttl)
	return &lookupResult{ips: ips, ttl: ttl}, nil
}

// exchangeAny 依次尝试各服务器，返回首个成功响应
func (r *DNSResolver) exchangeAny(ctx context.Context, m *dns.Msg) (*dns.Msg, error) {
	var lastErr error
	for _, server := range r.servers {
		resp, err := r.exchange(ctx, m, server)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// defaultExchange 默认报文交换
func (r *DNSResolver) defaultExchange(ctx context.Context, m *dns.Msg, server string) (*dns.Msg, error) {
	resp, _, err := r.client.ExchangeContext(ctx, m, server)
	return resp, err
}

// withPort 把 IP 列表展开为带端口的 TCP 地址
func withPort(ips []net.IP, port int) []net.Addr {
	addrs := make([]net.Addr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, &net.TCPAddr{IP: ip, Port: port})
	}
	return addrs
}
