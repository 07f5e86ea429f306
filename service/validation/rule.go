/*
 * @module service/validation/rule
 * @description 验证规则接口与基础实现,所有内置规则与组合规则共用
 * @architecture 接口驱动 - 规则以接口形式注入注册表,无继承层次
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 适用性判断 -> 执行 -> 结果汇总
 * @rules 规则执行不得修改设计文档;启停标志为原子操作,可在流水线运行期间切换
 * @dependencies netdesign-service/service/models
 * @refs service/validation/registry
 */

package validation

import (
	"context"
	"sync/atomic"
	"time"

	"netdesign-service/service/models"
)

// Metadata 规则元信息
type Metadata struct {
	ID          string
	Name        string
	Description string
	Category    models.RuleCategory
	Severity    models.RuleSeverity
	Tags        []string
}

// Rule 验证规则接口
type Rule interface {
	ID() string
	Metadata() Metadata
	// IsApplicable 判断规则是否适用于给定设计,不适用的规则被流水线跳过而非判失败
	IsApplicable(design *models.NetworkDesign) bool
	Validate(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult
	Enable()
	Disable()
	IsEnabled() bool
}

// BaseRule 规则基础实现,内置规则通过嵌入获得元信息与启停能力
type BaseRule struct {
	meta     Metadata
	disabled atomic.Bool
}

// NewBaseRule 创建规则基础结构,初始为启用状态
func NewBaseRule(meta Metadata) BaseRule {
	if meta.Severity == "" {
		meta.Severity = models.SeverityWarning
	}
	return BaseRule{meta: meta}
}

func (b *BaseRule) ID() string         { return b.meta.ID }
func (b *BaseRule) Metadata() Metadata { return b.meta }

// IsApplicable 默认适用于所有设计,具体规则可覆盖
func (b *BaseRule) IsApplicable(_ *models.NetworkDesign) bool { return true }

func (b *BaseRule) Enable()         { b.disabled.Store(false) }
func (b *BaseRule) Disable()        { b.disabled.Store(true) }
func (b *BaseRule) IsEnabled() bool { return !b.disabled.Load() }

// NewResult 以规则元信息初始化一条通过结果,具体规则在此基础上填充
func NewResult(meta Metadata) *models.RuleValidationResult {
	return &models.RuleValidationResult{
		RuleID:   meta.ID,
		RuleName: meta.Name,
		Category: meta.Category,
		Severity: meta.Severity,
		Passed:   true,
		Score:    1.0,
	}
}

// FinishResult 填充执行耗时并返回结果本身
func FinishResult(res *models.RuleValidationResult, start time.Time) *models.RuleValidationResult {
	res.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return res
}

// RuleFunc 以函数形式定义的规则,脚本规则与测试用规则使用
type RuleFunc struct {
	BaseRule
	ApplicableFn func(design *models.NetworkDesign) bool
	ValidateFn   func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult
}

// NewRuleFunc 创建函数式规则
func NewRuleFunc(meta Metadata, validate func(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult) *RuleFunc {
	return &RuleFunc{BaseRule: NewBaseRule(meta), ValidateFn: validate}
}

func (r *RuleFunc) IsApplicable(design *models.NetworkDesign) bool {
	if r.ApplicableFn != nil {
		return r.ApplicableFn(design)
	}
	return true
}

func (r *RuleFunc) Validate(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := r.ValidateFn(ctx, design)
	if res == nil {
		res = NewResult(r.Metadata())
	}
	if res.ExecutionTimeMs == 0 {
		FinishResult(res, start)
	}
	return res
}
