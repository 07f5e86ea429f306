/*
 * @module api/middleware/api_key_auth
 * @description API密钥鉴权中间件,校验管理接口的 X-API-Key 请求头
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference dev_docs/requirements.md
 * @stateFlow 密钥提取 -> 前缀查库 -> bcrypt比对 -> 下一个处理器
 * @rules 密钥原文不落库,仅比对bcrypt哈希;验证通过的密钥短时缓存避免重复开销
 * @dependencies golang.org/x/crypto/bcrypt, gorm.io/gorm
 * @refs service/models/records.go, api/routes.go
 */

package middleware

import (
	"net/http"
	"sync"
	"time"

	"netdesign-service/service/models"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const apiKeyHeader = "X-API-Key"

// 密钥前缀长度,查库时用前缀缩小候选范围
const apiKeyPrefixLen = 8

// ApiKeyAuthMiddleware API密钥鉴权中间件
type ApiKeyAuthMiddleware struct {
	db         *gorm.DB
	cache      map[string]time.Time
	cacheMutex sync.RWMutex
	cacheTTL   time.Duration
}

// NewApiKeyAuthMiddleware 创建API密钥鉴权中间件实例
func NewApiKeyAuthMiddleware(db *gorm.DB) *ApiKeyAuthMiddleware {
	return &ApiKeyAuthMiddleware{
		db:       db,
		cache:    make(map[string]time.Time),
		cacheTTL: 5 * time.Minute,
	}
}

// Authenticate 鉴权处理函数
func (m *ApiKeyAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusUnauthorized,
				"msg":    "缺少API密钥",
			})
			return
		}

		if m.isCached(key) {
			next.ServeHTTP(w, r)
			return
		}

		if !m.verify(key) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusUnauthorized,
				"msg":    "API密钥无效或已过期",
			})
			return
		}

		m.cacheKey(key)
		next.ServeHTTP(w, r)
	})
}

// verify 按前缀查库并逐一比对bcrypt哈希
func (m *ApiKeyAuthMiddleware) verify(key string) bool {
	if m.db == nil || len(key) < apiKeyPrefixLen {
		return false
	}

	prefix := key[:apiKeyPrefixLen]

	var candidates []models.ApiKey
	if err := m.db.Where("prefix = ? AND is_enabled = ?", prefix, true).Find(&candidates).Error; err != nil {
		return false
	}

	now := time.Now()
	for _, candidate := range candidates {
		if candidate.ExpiresAt != nil && candidate.ExpiresAt.Before(now) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(candidate.KeyHash), []byte(key)) == nil {
			return true
		}
	}
	return false
}

func (m *ApiKeyAuthMiddleware) isCached(key string) bool {
	m.cacheMutex.RLock()
	defer m.cacheMutex.RUnlock()
	expiry, ok := m.cache[key]
	return ok && time.Now().Before(expiry)
}

func (m *ApiKeyAuthMiddleware) cacheKey(key string) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()
	m.cache[key] = time.Now().Add(m.cacheTTL)
}

// HashApiKey 生成密钥哈希,用于密钥签发
func HashApiKey(key string) (string, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	prefix := key
	if len(prefix) > apiKeyPrefixLen {
		prefix = prefix[:apiKeyPrefixLen]
	}
	return string(hash), prefix, nil
}
