/*
 * @module service/validation/orchestrator
 * @description 双轨验证编排器,并发执行确定性规则轨道与概率性评估轨道并组合结果
 * @architecture 编排器模式 - 两条轨道并发执行,加权组合
 * @documentReference dev_docs/requirements.md
 * @stateFlow 模式校验 -> 双轨并发执行 -> 加权组合 -> 结果产出
 * @rules 未知验证模式在任何规则执行前拒绝;评估轨道失败降级为保守默认评估
 * @dependencies github.com/google/uuid, netdesign-service/service/models
 * @refs service/validation/pipeline
 */

package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"netdesign-service/service/metrics"
	"netdesign-service/service/models"
)

// ErrInvalidMode 验证模式非法
var ErrInvalidMode = errors.New("非法的验证模式")

// ValidationVersion 验证器版本号,写入每条验证结果
const ValidationVersion = "2.0.0"

// Assessor 概率性评估轨道的外部接口
type Assessor interface {
	Assess(ctx context.Context, design *models.NetworkDesign, det *models.DeterministicValidationResult) (*models.LLMValidationResult, error)
}

// OrchestratorConfig 编排器配置,缺省值与既定的验证标准一致
type OrchestratorConfig struct {
	DeterministicWeight float64
	ProbabilisticWeight float64
	ModeThresholds      map[string]float64
	FallbackScore       float64
	FallbackConfidence  float64
	AssessorTimeout     time.Duration
	Workers             int
}

/// DefaultOrchestratorConfig 缺省配置: 70/30 加权,strict/standard/lenient 三档阈值
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		DeterministicWeight: 0.70,
		ProbabilisticWeight: 0.30,
		ModeThresholds: map[string]float64{
			"strict":   0.90,
			"standard": 0.85,
			"lenient":  0.75,
		},
		FallbackScore:      0.7,
		FallbackConfidence: 0.5,
		AssessorTimeout:    30 * time.Second,
		Workers:            DefaultWorkers,
	}
}

// Orchestrator 双轨验证编排器
type Orchestrator struct {
	registry *Registry
	pipeline *Pipeline
	assessor Assessor
	config   OrchestratorConfig
}

// NewOrchestrator 创建编排器,assessor 可为 nil 表示无评估轨道
func NewOrchestrator(registry *Registry, assessor Assessor, config OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		pipeline: NewPipeline(registry, config.Workers),
		assessor: assessor,
		config:   config,
	}
}

// Registry 返回编排器使用的规则注册表
func (o *Orchestrator) Registry() *Registry { return o.registry }

// ValidateDesign 执行完整的双轨验证
func (o *Orchestrator) ValidateDesign(ctx context.Context, design *models.NetworkDesign, req *models.ValidationRequest) (*models.ValidationResult, error) {
	if req == nil {
		req = &models.ValidationRequest{}
	}
	mode := req.ValidationMode
	if mode == "" {
		mode = "standard"
	}
	threshold, ok := o.config.ModeThresholds[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	slog.Info("开始验证网络设计", "design_id", design.DesignID, "mode", mode)

	// 两条轨道并发执行
	detCh := make(chan *models.DeterministicValidationResult, 1)
	go func() {
		detCh <- o.runDeterministic(ctx, design, req)
	}()

	var llm *models.LLMValidationResult
	llmCh := make(chan *models.LLMValidationResult, 1)
	includeLLM := req.IncludeLLM() && o.assessor != nil
	if includeLLM {
		go func() {
			llmCh <- o.runAssessment(ctx, design)
		}()
	}

	det := <-detCh
	if includeLLM {
		llm = <-llmCh
	}

	// 上下文取消时不返回不完整的验证结果
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("验证已取消: %w", err)
	}

	return o.combine(design, req, mode, threshold, det, llm), nil
}

// runDeterministic 执行确定性规则轨道并汇总
func (o *Orchestrator) runDeterministic(ctx context.Context, design *models.NetworkDesign, req *models.ValidationRequest) *models.DeterministicValidationResult {
	start := time.Now()
	results := o.pipeline.Execute(ctx, design, &PipelineOptions{
		RuleIDs: req.CustomRules,
		SkipIDs: req.SkipRules,
	})

	det := &models.DeterministicValidationResult{
		TotalRulesExecuted: len(results),
	}

	scoreSum := 0.0
	gatingPassed := true
	for _, r := range results {
		scoreSum += r.Score
		if r.Passed {
			det.RulesPassed++
		} else {
			det.RulesFailed++
			issue := o.issueFromResult(r)
			switch r.Severity {
			case models.SeverityCritical:
				det.CriticalIssues = append(det.CriticalIssues, issue)
			case models.SeverityError:
				det.Errors = append(det.Errors, issue)
			default:
				det.Warnings = append(det.Warnings, issue)
			}
			// 容量、拓扑、安全三类为硬性门槛
			switch r.Category {
			case models.CategoryCapacity, models.CategoryTopology, models.CategorySecurity:
				gatingPassed = false
			}
		}

		switch r.Category {
		case models.CategoryCapacity:
			det.CapacityResults = append(det.CapacityResults, r)
		case models.CategoryTopology:
			det.TopologyResults = append(det.TopologyResults, r)
		case models.CategoryProtocol:
			det.ProtocolResults = append(det.ProtocolResults, r)
		case models.CategorySecurity:
			det.SecurityResults = append(det.SecurityResults, r)
		case models.CategoryCompliance:
			det.ComplianceResults = append(det.ComplianceResults, r)
		}
	}

	// 无规则执行时确定性得分为 0
	if len(results) > 0 {
		det.OverallScore = scoreSum / float64(len(results))
	}
	det.Passed = gatingPassed
	det.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return det
}

// runAssessment 执行概率性评估轨道,失败时降级为保守默认评估
func (o *Orchestrator) runAssessment(ctx context.Context, design *models.NetworkDesign) *models.LLMValidationResult {
	assessCtx, cancel := context.WithTimeout(ctx, o.config.AssessorTimeout)
	defer cancel()

	result, err := o.assessor.Assess(assessCtx, design, nil)
	if err != nil {
		slog.Warn("概率性评估失败,使用降级评估", "design_id", design.DesignID, "error", err)
		metrics.FallbackAssessments.Inc()
		return o.fallbackAssessment()
	}
	return result
}

// fallbackAssessment 评估轨道不可用时的保守默认评估
func (o *Orchestrator) fallbackAssessment() *models.LLMValidationResult {
	return &models.LLMValidationResult{
		OverallScore:         o.config.FallbackScore,
		Confidence:           o.config.FallbackConfidence,
		ContextualAssessment: "评估服务不可用,使用保守默认评分",
		Recommendations:      []string{},
		FallbackUsed:         true,
	}
}

func (o *Orchestrator) issueFromResult(r *models.RuleValidationResult) *models.ValidationIssue {
	return &models.ValidationIssue{
		IssueID:            "issue_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		Category:           r.Category,
		Severity:           r.Severity,
		Title:              r.RuleName,
		Description:        r.Message,
		AffectedComponents: r.AffectedComponents,
		Recommendation:     r.Recommendation,
		RuleID:             r.RuleID,
	}
}

// combine 组合双轨结果并生成摘要
func (o *Orchestrator) combine(design *models.NetworkDesign, req *models.ValidationRequest, mode string, threshold float64, det *models.DeterministicValidationResult, llm *models.LLMValidationResult) *models.ValidationResult {
	result := &models.ValidationResult{
		ValidationID:        "val_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12],
		DesignID:            design.DesignID,
		DeterministicScore:  det.OverallScore,
		DeterministicResult: det,
		LLMResult:           llm,
		ValidationThreshold: threshold,
		ValidatedAt:         time.Now(),
		ValidatedBy:         "netdesign-service",
		ValidationVersion:   ValidationVersion,
	}

	if llm != nil {
		result.LLMScore = llm.OverallScore
		result.OverallScore = det.OverallScore*o.config.DeterministicWeight + llm.OverallScore*o.config.ProbabilisticWeight
	} else {
		result.OverallScore = det.OverallScore
	}

	result.AllIssues = append(result.AllIssues, det.CriticalIssues...)
	result.AllIssues = append(result.AllIssues, det.Errors...)
	result.AllIssues = append(result.AllIssues, det.Warnings...)
	result.CriticalCount = len(det.CriticalIssues)
	result.ErrorCount = len(det.Errors)
	result.WarningCount = len(det.Warnings)

	result.Passed = result.OverallScore >= threshold && result.CriticalCount == 0

	o.narrate(result, det, llm, mode)
	slog.Info("验证完成",
		"validation_id", result.ValidationID,
		"design_id", design.DesignID,
		"passed", result.Passed,
		"overall_score", result.OverallScore)
	return result
}

// narrate 生成摘要、说明、关键发现与整改建议
func (o *Orchestrator) narrate(result *models.ValidationResult, det *models.DeterministicValidationResult, llm *models.LLMValidationResult, mode string) {
	verdict := "未通过"
	if result.Passed {
		verdict = "通过"
	}
	result.Summary = fmt.Sprintf("验证%s: 总分 %.2f (模式 %s, 阈值 %.2f), 严重问题 %d 个, 错误 %d 个, 告警 %d 个",
		verdict, result.OverallScore, mode, result.ValidationThreshold,
		result.CriticalCount, result.ErrorCount, result.WarningCount)

	explanation := fmt.Sprintf("确定性轨道执行 %d 条规则,通过 %d 条,得分 %.2f。",
		det.TotalRulesExecuted, det.RulesPassed, det.OverallScore)
	if llm != nil {
		explanation += fmt.Sprintf(" 概率性轨道得分 %.2f (置信度 %.2f)。", llm.OverallScore, llm.Confidence)
		if llm.FallbackUsed {
			explanation += " 评估服务不可用,概率性得分为降级默认值。"
		}
	}
	result.Explanation = explanation

	if result.CriticalCount > 0 {
		result.KeyFindings = append(result.KeyFindings, fmt.Sprintf("存在 %d 个必须解决的严重问题", result.CriticalCount))
	}
	if det.RulesFailed == 0 {
		result.KeyFindings = append(result.KeyFindings, "全部确定性规则检查通过")
	}
	if llm != nil && !llm.FallbackUsed {
		result.KeyFindings = append(result.KeyFindings, llm.Concerns...)
	}

	// 整改建议按问题级别分流;综合建议仅来自概率性轨道
	for _, issue := range det.CriticalIssues {
		if issue.Recommendation != "" {
			result.RequiredChanges = append(result.RequiredChanges, issue.Recommendation)
		}
	}
	for _, issue := range det.Warnings {
		if issue.Recommendation != "" {
			result.OptionalImprovements = append(result.OptionalImprovements, issue.Recommendation)
		}
	}
	if llm != nil {
		result.Recommendations = llm.Recommendations
	}
}
