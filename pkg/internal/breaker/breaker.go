// Package breaker 根据配置构建 gobreaker 熔断器.
package breaker

import (
	"errors"

	"github.com/sony/gobreaker"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// New 按失败比例熔断；isSuccessful 为 nil 时所有非 nil 错误计为失败.
func New(name string, cfg configs.CircuitBreakerConfig, isSuccessful func(error) bool) *gobreaker.CircuitBreaker {
	l := nlog.Component("breaker")

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.HalfOpenMax,
		Interval:     cfg.Window,
		Timeout:      cfg.OpenFor,
		IsSuccessful: isSuccessful,
		ReadyToTrip:  Tripper(cfg),
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// Tripper 返回按失败比例判断是否打开的函数.
func Tripper(cfg configs.CircuitBreakerConfig) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 || counts.Requests < cfg.MinRequests {
			return false
		}

		return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
	}
}

// Rejected 判断错误是否来自熔断器拒绝.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
