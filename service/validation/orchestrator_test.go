/*
 * @module service/validation/orchestrator_test
 * @description 双轨验证编排器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 测试准备 -> 双轨验证执行 -> 组合结果验证
 * @rules 确保模式校验、加权组合、降级与单点故障判定的正确性
 * @dependencies testing, stretchr/testify
 */

package validation_test

import (
	"context"
	"errors"
	"testing"

	"netdesign-service/service/models"
	"netdesign-service/service/validation"
	"netdesign-service/service/validation/rules"
	"netdesign-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinOrchestrator(assessor validation.Assessor) *validation.Orchestrator {
	registry := validation.NewRegistry()
	rules.RegisterBuiltins(registry)
	return validation.NewOrchestrator(registry, assessor, validation.DefaultOrchestratorConfig())
}

func fixedScoreOrchestrator(detScore float64, assessor validation.Assessor) *validation.Orchestrator {
	registry := validation.NewRegistry()
	registry.Register(validation.NewRuleFunc(validation.Metadata{
		ID:       "FixedScore",
		Name:     "固定得分",
		Category: models.CategoryProtocol,
	}, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		res := validation.NewResult(validation.Metadata{ID: "FixedScore", Name: "固定得分", Category: models.CategoryProtocol, Severity: models.SeverityWarning})
		res.Score = detScore
		return res
	}))
	return validation.NewOrchestrator(registry, assessor, validation.DefaultOrchestratorConfig())
}

// TestValidateDesignRejectsUnknownMode 测试未知验证模式在执行任何规则前被拒绝
func TestValidateDesignRejectsUnknownMode(t *testing.T) {
	executed := false
	registry := validation.NewRegistry()
	registry.Register(validation.NewRuleFunc(validation.Metadata{
		ID:       "Tracker",
		Name:     "Tracker",
		Category: models.CategoryCapacity,
	}, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		executed = true
		return nil
	}))
	orchestrator := validation.NewOrchestrator(registry, nil, validation.DefaultOrchestratorConfig())

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), &models.ValidationRequest{
		ValidationMode: "paranoid",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidMode)
	assert.Nil(t, result)
	assert.False(t, executed, "未知模式不应执行任何规则")
}

// TestValidateDesignDefaultsToStandard 测试缺省模式为standard
func TestValidateDesignDefaultsToStandard(t *testing.T) {
	orchestrator := fixedScoreOrchestrator(1.0, nil)

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.85, result.ValidationThreshold)
}

// TestScoreCombination 测试 70/30 加权组合
func TestScoreCombination(t *testing.T) {
	assessor := &testutil.StaticAssessor{Result: &models.LLMValidationResult{
		OverallScore: 0.8,
		Confidence:   0.9,
	}}
	orchestrator := fixedScoreOrchestrator(0.9, assessor)

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, result.DeterministicScore, 1e-9)
	assert.InDelta(t, 0.8, result.LLMScore, 1e-9)
	assert.InDelta(t, 0.87, result.OverallScore, 1e-9)
	assert.True(t, result.Passed)
}

// TestDeterministicOnlyWhenLLMExcluded 测试关闭评估轨道时总分等于确定性得分
func TestDeterministicOnlyWhenLLMExcluded(t *testing.T) {
	assessor := &testutil.StaticAssessor{Result: &models.LLMValidationResult{OverallScore: 0.1}}
	orchestrator := fixedScoreOrchestrator(0.95, assessor)

	exclude := false
	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), &models.ValidationRequest{
		IncludeLLMValidation: &exclude,
	})
	require.NoError(t, err)

	assert.Nil(t, result.LLMResult)
	assert.InDelta(t, 0.95, result.OverallScore, 1e-9)
}

// TestAssessorFailureFallsBack 测试评估服务失败时降级为保守默认评分
func TestAssessorFailureFallsBack(t *testing.T) {
	assessor := &testutil.StaticAssessor{Err: errors.New("连接被拒绝")}
	orchestrator := fixedScoreOrchestrator(1.0, assessor)

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), nil)
	require.NoError(t, err)

	require.NotNil(t, result.LLMResult)
	assert.True(t, result.LLMResult.FallbackUsed)
	assert.InDelta(t, 0.7, result.LLMScore, 1e-9)
	assert.InDelta(t, 0.5, result.LLMResult.Confidence, 1e-9)
	// 1.0*0.7 + 0.7*0.3 = 0.91
	assert.InDelta(t, 0.91, result.OverallScore, 1e-9)
}

// TestSPOFDesignFailsEveryMode 测试单点故障设计在所有模式下均不通过
func TestSPOFDesignFailsEveryMode(t *testing.T) {
	assessor := &testutil.StaticAssessor{Result: &models.LLMValidationResult{OverallScore: 1.0, Confidence: 1.0}}
	orchestrator := builtinOrchestrator(assessor)

	for _, mode := range []string{"strict", "standard", "lenient"} {
		result, err := orchestrator.ValidateDesign(context.Background(), testutil.SPOFDesign(), &models.ValidationRequest{
			ValidationMode: mode,
		})
		require.NoError(t, err, mode)

		assert.False(t, result.Passed, "模式 %s 下应不通过", mode)
		assert.Greater(t, result.CriticalCount, 0, "模式 %s 下应存在严重问题", mode)

		foundSPOF := false
		for _, issue := range result.DeterministicResult.CriticalIssues {
			if issue.RuleID == "NoSinglePointOfFailureRule" {
				foundSPOF = true
			}
		}
		assert.True(t, foundSPOF, "应命中单点故障规则")
	}
}

// TestValidDesignPassesStandard 测试规范设计通过标准模式验证
func TestValidDesignPassesStandard(t *testing.T) {
	assessor := &testutil.StaticAssessor{Result: &models.LLMValidationResult{OverallScore: 0.95, Confidence: 0.9}}
	orchestrator := builtinOrchestrator(assessor)

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.ValidDesign(), nil)
	require.NoError(t, err)

	assert.Zero(t, result.CriticalCount)
	assert.True(t, result.DeterministicResult.Passed, "容量/拓扑/安全硬性门槛应通过")
	assert.True(t, result.Passed, "标准模式应通过: %s", result.Summary)
	assert.NotEmpty(t, result.ValidationID)
	assert.NotEmpty(t, result.Summary)
}

// TestCustomAndSkipRules 测试自定义规则集与跳过列表
func TestCustomAndSkipRules(t *testing.T) {
	orchestrator := builtinOrchestrator(nil)

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.ValidDesign(), &models.ValidationRequest{
		CustomRules: []string{"MinimumComponentsRule", "MinimumConnectionsRule", "FirewallPresenceRule"},
		SkipRules:   []string{"MinimumConnectionsRule"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.DeterministicResult.TotalRulesExecuted)
}

// TestZeroRulesScoresZero 测试空规则集得分为0且不通过
func TestZeroRulesScoresZero(t *testing.T) {
	registry := validation.NewRegistry()
	orchestrator := validation.NewOrchestrator(registry, nil, validation.DefaultOrchestratorConfig())

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), nil)
	require.NoError(t, err)

	assert.Zero(t, result.DeterministicScore)
	assert.Zero(t, result.OverallScore)
	assert.False(t, result.Passed, "未执行任何规则不能算通过")
}

// TestGatingFailureDoesNotBlockPass 测试硬性门槛类规则的告警级失败不单独否决总体结论
func TestGatingFailureDoesNotBlockPass(t *testing.T) {
	registry := validation.NewRegistry()
	meta := validation.Metadata{
		ID:       "CapacityAdvisory",
		Name:     "容量建议",
		Category: models.CategoryCapacity,
		Severity: models.SeverityWarning,
	}
	registry.Register(validation.NewRuleFunc(meta, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		res := validation.NewResult(meta)
		res.Passed = false
		res.Score = 0.9
		res.Message = "建议预留更多带宽余量"
		return res
	}))
	orchestrator := validation.NewOrchestrator(registry, nil, validation.DefaultOrchestratorConfig())

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), nil)
	require.NoError(t, err)

	assert.False(t, result.DeterministicResult.Passed, "容量类失败应使硬性门槛不通过")
	assert.Zero(t, result.CriticalCount)
	assert.GreaterOrEqual(t, result.OverallScore, result.ValidationThreshold)
	assert.True(t, result.Passed, "总分达标且无严重问题时应通过")
}

// TestValidateDesignCancelledContext 测试取消的上下文返回错误而非部分结果
func TestValidateDesignCancelledContext(t *testing.T) {
	orchestrator := builtinOrchestrator(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orchestrator.ValidateDesign(ctx, testutil.ValidDesign(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

// TestRecommendationSourcing 测试综合建议仅来自评估轨道,整改项按问题级别分流
func TestRecommendationSourcing(t *testing.T) {
	registry := validation.NewRegistry()
	criticalMeta := validation.Metadata{
		ID:       "CriticalCheck",
		Name:     "严重检查",
		Category: models.CategoryTopology,
		Severity: models.SeverityCritical,
	}
	registry.Register(validation.NewRuleFunc(criticalMeta, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		res := validation.NewResult(criticalMeta)
		res.Passed = false
		res.Score = 0.2
		res.Recommendation = "增加冗余链路"
		return res
	}))
	warningMeta := validation.Metadata{
		ID:       "WarningCheck",
		Name:     "告警检查",
		Category: models.CategoryProtocol,
		Severity: models.SeverityWarning,
	}
	registry.Register(validation.NewRuleFunc(warningMeta, func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
		res := validation.NewResult(warningMeta)
		res.Passed = false
		res.Score = 0.8
		res.Recommendation = "增加冗余链路"
		return res
	}))
	assessor := &testutil.StaticAssessor{Result: &models.LLMValidationResult{
		OverallScore:    0.9,
		Confidence:      0.9,
		Recommendations: []string{"优化路由策略"},
	}}
	orchestrator := validation.NewOrchestrator(registry, assessor, validation.DefaultOrchestratorConfig())

	result, err := orchestrator.ValidateDesign(context.Background(), testutil.MinimalDesign(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"优化路由策略"}, result.Recommendations)
	assert.Equal(t, []string{"增加冗余链路"}, result.RequiredChanges)
	assert.Equal(t, []string{"增加冗余链路"}, result.OptionalImprovements, "告警建议与严重建议同文时也不得丢弃")
}
