/*
 * @module api/middleware/rate_limit
 * @description 限流中间件,对验证API按客户端与全局两层限流
 * @architecture 中间件模式 - HTTP请求拦截
 * @documentReference dev_docs/requirements.md
 * @stateFlow 提取客户端标识 -> Redis限流检查 -> 放行或429
 * @rules Redis不可用或限流器未初始化时放行,不阻断业务
 * @dependencies netdesign-service/service/rate_limiter
 * @refs service/rate_limiter/redis_rate_limiter.go
 */

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"netdesign-service/service/rate_limiter"

	"github.com/go-chi/render"
)

// RateLimitMiddleware 限流中间件
type RateLimitMiddleware struct {
	limiter *rate_limiter.RedisRateLimiter
}

// NewRateLimitMiddleware 创建限流中间件实例,limiter 为 nil 时全部放行
func NewRateLimitMiddleware(limiter *rate_limiter.RedisRateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit 限流处理函数
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		clientID := clientIdentifier(r)
		result, err := m.limiter.CheckRateLimit(r.Context(), rate_limiter.DefaultRules(clientID))
		if err != nil {
			// 限流检查失败时放行,记录告警
			slog.Warn("限流检查失败,请求放行", "error", err, "client", clientID)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt))

		if !result.Allowed {
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusTooManyRequests,
				"msg":    result.Message,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIdentifier 优先使用API密钥标识客户端,其次使用来源IP
func clientIdentifier(r *http.Request) string {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		if len(key) > apiKeyPrefixLen {
			return "key:" + key[:apiKeyPrefixLen]
		}
		return "key:" + key
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return "ip:" + forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
