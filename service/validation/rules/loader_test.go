/*
 * @module service/validation/rules/loader_test
 * @description 内置规则装载器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 装载全部内置规则 -> 断言数量与类别分布
 * @rules 规则ID全局唯一,类别分布与装载器声明一致
 * @dependencies testing, stretchr/testify
 */

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdesign-service/service/models"
	"netdesign-service/service/validation"
)

// TestRegisterBuiltins 测试内置规则全量注册与类别分布
func TestRegisterBuiltins(t *testing.T) {
	registry := validation.NewRegistry()
	RegisterBuiltins(registry)

	require.Equal(t, 53, registry.Count())
	assert.Len(t, registry.ByCategory(models.CategoryCapacity), 10)
	assert.Len(t, registry.ByCategory(models.CategoryTopology), 11)
	assert.Len(t, registry.ByCategory(models.CategoryProtocol), 10)
	assert.Len(t, registry.ByCategory(models.CategorySecurity), 11)
	assert.Len(t, registry.ByCategory(models.CategoryCompliance), 11)

	// 全部规则默认启用
	assert.Len(t, registry.Enabled(), 53)
}

// TestRegisterCategory 测试按类别注册
func TestRegisterCategory(t *testing.T) {
	registry := validation.NewRegistry()
	n := RegisterCategory(registry, models.CategorySecurity)
	assert.Equal(t, 11, n)
	assert.Equal(t, 11, registry.Count())

	// 未知类别不注册任何规则
	assert.Equal(t, 0, RegisterCategory(registry, models.RuleCategory("unknown")))
}

// TestBuiltinRuleIDsUnique 测试规则ID唯一且元数据完整
func TestBuiltinRuleIDsUnique(t *testing.T) {
	registry := validation.NewRegistry()
	RegisterBuiltins(registry)

	seen := make(map[string]bool)
	for _, rule := range registry.All() {
		meta := rule.Metadata()
		assert.False(t, seen[meta.ID], "规则ID重复: %s", meta.ID)
		seen[meta.ID] = true
		assert.NotEmpty(t, meta.Name, meta.ID)
		assert.NotEmpty(t, meta.Category, meta.ID)
		assert.NotEmpty(t, meta.Severity, meta.ID)
	}
}
