/*
 * @module service/validation/pipeline
 * @description 规则执行流水线,按过滤条件筛选规则并以受限并发执行
 * @architecture 工作池模式 - 信号量限制并发度,单条规则故障隔离
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则筛选 -> 并发执行 -> 按序收集结果
 * @rules 规则 panic 转为失败结果,不中断整体执行;上下文取消后不再派发新规则
 * @dependencies log/slog, netdesign-service/service/models
 * @refs service/validation/registry
 */

package validation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"netdesign-service/service/models"
)

// DefaultWorkers 流水线默认并发度
const DefaultWorkers = 8

// PipelineOptions 单次执行的筛选条件
type PipelineOptions struct {
	// RuleIDs 非空时仅执行指定规则,为空时以全部注册规则为候选
	RuleIDs    []string
	SkipIDs    []string
	Categories []models.RuleCategory
	Tags       []string
}

// Pipeline 规则执行流水线
type Pipeline struct {
	registry *Registry
	workers  int
}

// NewPipeline 创建流水线,workers 非正时取默认并发度
func NewPipeline(registry *Registry, workers int) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{registry: registry, workers: workers}
}

// Execute 筛选并执行规则,结果顺序与筛选后的规则顺序一致
func (p *Pipeline) Execute(ctx context.Context, design *models.NetworkDesign, opts *PipelineOptions) []*models.RuleValidationResult {
	rules := p.filter(design, opts)
	results := make([]*models.RuleValidationResult, len(rules))

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, rule := range rules {
		// 上下文已取消则停止派发,已派发的规则执行完毕
		if ctx.Err() != nil {
			results[i] = p.cancelledResult(rule)
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, r Rule) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = p.runRule(ctx, r, design)
		}(i, rule)
	}
	wg.Wait()

	return results
}

// filter 依次按规则ID、启用状态、类别、标签、适用性筛选;
// 显式指定的规则ID视为强制执行,不受启用状态限制
func (p *Pipeline) filter(design *models.NetworkDesign, opts *PipelineOptions) []Rule {
	if opts == nil {
		opts = &PipelineOptions{}
	}

	explicit := len(opts.RuleIDs) > 0
	var candidates []Rule
	if len(opts.RuleIDs) > 0 {
		for _, id := range opts.RuleIDs {
			if rule, ok := p.registry.Get(id); ok {
				candidates = append(candidates, rule)
			} else {
				slog.Warn("规则不存在,忽略", "rule_id", id)
			}
		}
	} else {
		candidates = p.registry.All()
	}

	skip := make(map[string]bool, len(opts.SkipIDs))
	for _, id := range opts.SkipIDs {
		skip[id] = true
	}
	categories := make(map[models.RuleCategory]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		categories[c] = true
	}
	tags := make(map[string]bool, len(opts.Tags))
	for _, t := range opts.Tags {
		tags[t] = true
	}

	filtered := make([]Rule, 0, len(candidates))
	for _, rule := range candidates {
		if skip[rule.ID()] {
			continue
		}
		if !explicit && !rule.IsEnabled() {
			continue
		}
		meta := rule.Metadata()
		if len(categories) > 0 && !categories[meta.Category] {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(meta.Tags, tags) {
			continue
		}
		if !rule.IsApplicable(design) {
			continue
		}
		filtered = append(filtered, rule)
	}
	return filtered
}

func hasAnyTag(ruleTags []string, want map[string]bool) bool {
	for _, t := range ruleTags {
		if want[t] {
			return true
		}
	}
	return false
}

// runRule 执行单条规则,panic 与 nil 结果都转为失败结果
func (p *Pipeline) runRule(ctx context.Context, rule Rule, design *models.NetworkDesign) (result *models.RuleValidationResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("规则执行 panic", "rule_id", rule.ID(), "panic", rec)
			result = p.errorResult(rule, fmt.Sprintf("规则执行异常: %v", rec))
		}
	}()

	result = rule.Validate(ctx, design)
	if result == nil {
		result = p.errorResult(rule, "规则未返回结果")
	}
	return result
}

func (p *Pipeline) errorResult(rule Rule, message string) *models.RuleValidationResult {
	meta := rule.Metadata()
	return &models.RuleValidationResult{
		RuleID:   meta.ID,
		RuleName: meta.Name,
		Category: meta.Category,
		Severity: models.SeverityError,
		Passed:   false,
		Score:    0,
		Message:  message,
	}
}

func (p *Pipeline) cancelledResult(rule Rule) *models.RuleValidationResult {
	return p.errorResult(rule, "执行被取消")
}
