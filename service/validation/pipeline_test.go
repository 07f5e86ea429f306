/*
 * @module service/validation/pipeline_test
 * @description 规则执行流水线单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 测试准备 -> 流水线执行 -> 结果验证
 * @rules 确保筛选逻辑、故障隔离与取消行为的正确性
 * @dependencies testing, stretchr/testify
 */

package validation

import (
	"context"
	"testing"

	"netdesign-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingRule(id string, category models.RuleCategory, score float64) Rule {
	return NewRuleFunc(Metadata{ID: id, Name: id, Category: category}, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		res := NewResult(Metadata{ID: id, Name: id, Category: category, Severity: models.SeverityWarning})
		res.Score = score
		return res
	})
}

func panickingRule(id string) Rule {
	return NewRuleFunc(Metadata{ID: id, Name: id, Category: models.CategoryCapacity}, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		panic("故意失败")
	})
}

// TestPipelineExecutesAllRules 测试流水线执行全部注册规则并保持顺序
func TestPipelineExecutesAllRules(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R2", models.CategoryTopology, 0.8))
	registry.Register(passingRule("R3", models.CategorySecurity, 0.9))

	pipeline := NewPipeline(registry, 2)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{}, nil)

	require.Len(t, results, 3)
	assert.Equal(t, "R1", results[0].RuleID)
	assert.Equal(t, "R2", results[1].RuleID)
	assert.Equal(t, "R3", results[2].RuleID)
}

// TestPipelinePanicIsolation 测试单条规则panic不影响其他规则
func TestPipelinePanicIsolation(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(panickingRule("Boom"))
	registry.Register(passingRule("R3", models.CategorySecurity, 0.9))

	pipeline := NewPipeline(registry, 0)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{}, nil)

	require.Len(t, results, 3)

	assert.True(t, results[0].Passed)
	assert.True(t, results[2].Passed)

	boom := results[1]
	assert.Equal(t, "Boom", boom.RuleID)
	assert.False(t, boom.Passed)
	assert.Equal(t, 0.0, boom.Score)
	assert.Equal(t, models.SeverityError, boom.Severity)
}

// TestPipelineSkipAndDisable 测试跳过列表与禁用规则的筛选
func TestPipelineSkipAndDisable(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R2", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R3", models.CategoryCapacity, 1.0))
	registry.DisableRule("R3")

	pipeline := NewPipeline(registry, 4)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{}, &PipelineOptions{
		SkipIDs: []string{"R2"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "R1", results[0].RuleID)
}

// TestPipelineRuleIDSelection 测试按规则ID圈定执行范围
func TestPipelineRuleIDSelection(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R2", models.CategoryTopology, 1.0))

	pipeline := NewPipeline(registry, 4)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{}, &PipelineOptions{
		RuleIDs: []string{"R2", "Missing"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "R2", results[0].RuleID)
}

// TestPipelineRuleIDsOverrideDisable 测试按ID显式圈定的规则不受禁用状态限制
func TestPipelineRuleIDsOverrideDisable(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R2", models.CategoryCapacity, 1.0))
	registry.DisableRule("R1")

	pipeline := NewPipeline(registry, 4)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{}, &PipelineOptions{
		RuleIDs: []string{"R1"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "R1", results[0].RuleID)
}

// TestPipelineCategoryFilter 测试按类别筛选
func TestPipelineCategoryFilter(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R2", models.CategoryTopology, 1.0))
	registry.Register(passingRule("R3", models.CategoryTopology, 1.0))

	pipeline := NewPipeline(registry, 4)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{}, &PipelineOptions{
		Categories: []models.RuleCategory{models.CategoryTopology},
	})

	assert.Len(t, results, 2)
}

// TestPipelineSkipsNotApplicable 测试不适用的规则被跳过而非判失败
func TestPipelineSkipsNotApplicable(t *testing.T) {
	registry := NewRegistry()
	applicable := NewRuleFunc(Metadata{ID: "OnlyMesh", Name: "OnlyMesh", Category: models.CategoryTopology}, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		return nil
	})
	applicable.ApplicableFn = func(design *models.NetworkDesign) bool {
		return design.Topology.TopologyType == models.TopologyMesh
	}
	registry.Register(applicable)
	registry.Register(passingRule("Always", models.CategoryTopology, 1.0))

	pipeline := NewPipeline(registry, 4)
	results := pipeline.Execute(context.Background(), &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyStar},
	}, nil)

	require.Len(t, results, 1)
	assert.Equal(t, "Always", results[0].RuleID)
}

// TestPipelineCancelledContext 测试已取消的上下文不再派发规则
func TestPipelineCancelledContext(t *testing.T) {
	registry := NewRegistry()
	registry.Register(passingRule("R1", models.CategoryCapacity, 1.0))
	registry.Register(passingRule("R2", models.CategoryCapacity, 1.0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := NewPipeline(registry, 4)
	results := pipeline.Execute(ctx, &models.NetworkDesign{}, nil)

	require.Len(t, results, 2)
	for _, res := range results {
		assert.False(t, res.Passed)
		assert.Equal(t, "执行被取消", res.Message)
	}
}
