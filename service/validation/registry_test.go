/*
 * @module service/validation/registry_test
 * @description 规则注册表单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 测试准备 -> 规则注册 -> 检索与启停验证
 * @rules 确保注册表检索顺序与启停计数的正确性
 * @dependencies testing, stretchr/testify
 */

package validation

import (
	"context"
	"fmt"
	"testing"

	"netdesign-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(id string, category models.RuleCategory, tags ...string) Rule {
	return NewRuleFunc(Metadata{
		ID:       id,
		Name:     id,
		Category: category,
		Severity: models.SeverityWarning,
		Tags:     tags,
	}, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		return nil
	})
}

// TestRegistryRegisterAndGet 测试规则注册与检索
func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newTestRule("RuleA", models.CategoryCapacity))
	registry.Register(newTestRule("RuleB", models.CategoryTopology))

	rule, ok := registry.Get("RuleA")
	require.True(t, ok)
	assert.Equal(t, "RuleA", rule.ID())

	_, ok = registry.Get("Missing")
	assert.False(t, ok)
	assert.Equal(t, 2, registry.Count())
}

// TestRegistryOrderPreserved 测试检索顺序与注册顺序一致
func TestRegistryOrderPreserved(t *testing.T) {
	registry := NewRegistry()
	for i := 0; i < 10; i++ {
		registry.Register(newTestRule(fmt.Sprintf("Rule%02d", i), models.CategoryProtocol))
	}

	all := registry.All()
	require.Len(t, all, 10)
	for i, rule := range all {
		assert.Equal(t, fmt.Sprintf("Rule%02d", i), rule.ID())
	}
}

// TestRegistryOverwrite 测试同ID重复注册覆盖旧规则
func TestRegistryOverwrite(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newTestRule("RuleA", models.CategoryCapacity))
	registry.Register(newTestRule("RuleA", models.CategorySecurity))

	assert.Equal(t, 1, registry.Count())
	rule, ok := registry.Get("RuleA")
	require.True(t, ok)
	assert.Equal(t, models.CategorySecurity, rule.Metadata().Category)
}

// TestRegistryByCategoryAndTag 测试按类别与标签检索
func TestRegistryByCategoryAndTag(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newTestRule("Cap1", models.CategoryCapacity, "scale"))
	registry.Register(newTestRule("Sec1", models.CategorySecurity, "zero-trust"))
	registry.Register(newTestRule("Sec2", models.CategorySecurity))

	assert.Len(t, registry.ByCategory(models.CategorySecurity), 2)
	assert.Len(t, registry.ByCategory(models.CategoryCapacity), 1)
	assert.Len(t, registry.ByTag("zero-trust"), 1)
	assert.Empty(t, registry.ByTag("missing"))
}

// TestRegistryIndexConsistency 测试类别/标签索引在注册、覆盖与注销后保持一致
func TestRegistryIndexConsistency(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newTestRule("Cap1", models.CategoryCapacity, "redundancy"))
	registry.Register(newTestRule("Cap2", models.CategoryCapacity, "redundancy", "scale"))
	registry.Register(newTestRule("Top1", models.CategoryTopology, "redundancy"))

	byTag := registry.ByTag("redundancy")
	require.Len(t, byTag, 3)
	assert.Equal(t, "Cap1", byTag[0].ID())
	assert.Equal(t, "Top1", byTag[2].ID())

	// 注销后索引同步收缩
	require.True(t, registry.Unregister("Cap2"))
	assert.Len(t, registry.ByTag("redundancy"), 2)
	assert.Empty(t, registry.ByTag("scale"))
	assert.Len(t, registry.ByCategory(models.CategoryCapacity), 1)

	// 覆盖注册更换类别与标签,旧索引项被清除
	registry.Register(newTestRule("Top1", models.CategorySecurity, "zero-trust"))
	assert.Empty(t, registry.ByCategory(models.CategoryTopology))
	assert.Len(t, registry.ByCategory(models.CategorySecurity), 1)
	assert.Len(t, registry.ByTag("redundancy"), 1)
	assert.Len(t, registry.ByTag("zero-trust"), 1)

	registry.Clear()
	assert.Empty(t, registry.ByTag("redundancy"))
	assert.Empty(t, registry.ByCategory(models.CategorySecurity))
}

// TestEnableCategoryCountsChanges 测试按类别启用只统计实际状态变更
func TestEnableCategoryCountsChanges(t *testing.T) {
	registry := NewRegistry()
	for i := 0; i < 11; i++ {
		registry.Register(newTestRule(fmt.Sprintf("Sec%02d", i), models.CategorySecurity))
	}

	// 禁用其中5条
	for i := 0; i < 5; i++ {
		require.True(t, registry.DisableRule(fmt.Sprintf("Sec%02d", i)))
	}
	assert.Len(t, registry.Enabled(), 6)

	// 启用整个类别,只有5条发生状态变更
	changed := registry.EnableCategory(models.CategorySecurity)
	assert.Equal(t, 5, changed)
	assert.Len(t, registry.Enabled(), 11)

	// 再次启用不产生变更
	assert.Equal(t, 0, registry.EnableCategory(models.CategorySecurity))

	// 全部禁用
	assert.Equal(t, 11, registry.DisableCategory(models.CategorySecurity))
	assert.Empty(t, registry.Enabled())
}

// TestRegistryUnregister 测试规则注销
func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newTestRule("RuleA", models.CategoryCapacity))

	assert.True(t, registry.Unregister("RuleA"))
	assert.False(t, registry.Unregister("RuleA"))
	assert.Equal(t, 0, registry.Count())
	assert.Empty(t, registry.All())
}

// TestRegistryStatistics 测试注册表统计信息
func TestRegistryStatistics(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newTestRule("Cap1", models.CategoryCapacity))
	registry.Register(newTestRule("Sec1", models.CategorySecurity))
	registry.Register(newTestRule("Sec2", models.CategorySecurity))
	registry.DisableRule("Sec2")

	stats := registry.Statistics()
	assert.Equal(t, 3, stats.TotalRules)
	assert.Equal(t, 2, stats.EnabledRules)
	assert.Equal(t, 1, stats.DisabledRules)
	assert.Equal(t, 2, stats.Categories[models.CategorySecurity])
	assert.Equal(t, 1, stats.Categories[models.CategoryCapacity])
}
