/*
 * @module service/validation/composite
 * @description 规则组合器,以装饰器方式将多条规则组合为一条
 * @architecture 装饰器模式 - 组合结果本身实现 Rule 接口,可任意嵌套
 * @documentReference dev_docs/requirements.md
 * @stateFlow 组合规则执行 -> 子规则启用与适用性过滤 -> 聚合打分
 * @rules 无适用子规则时空泛通过,分数 1.0;条件不满足时降级为 info 级通过
 * @dependencies netdesign-service/service/models
 * @refs service/validation/rule
 */

package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"netdesign-service/service/models"
)

type compositeRule struct {
	BaseRule
	children   []Rule
	requireAll bool
}

// AllOf 组合子规则为"与"语义:全部适用子规则通过才通过,分数取均值
func AllOf(meta Metadata, children ...Rule) Rule {
	return &compositeRule{BaseRule: NewBaseRule(meta), children: children, requireAll: true}
}

// AnyOf 组合子规则为"或"语义:任一适用子规则通过即通过,分数取最大值
func AnyOf(meta Metadata, children ...Rule) Rule {
	return &compositeRule{BaseRule: NewBaseRule(meta), children: children, requireAll: false}
}

// IsApplicable 任一子规则适用则组合规则适用
func (c *compositeRule) IsApplicable(design *models.NetworkDesign) bool {
	for _, child := range c.children {
		if child.IsApplicable(design) {
			return true
		}
	}
	return len(c.children) == 0
}

func (c *compositeRule) Validate(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := NewResult(c.Metadata())

	var results []*models.RuleValidationResult
	for _, child := range c.children {
		if !child.IsEnabled() || !child.IsApplicable(design) {
			continue
		}
		results = append(results, child.Validate(ctx, design))
	}

	// 无适用子规则,空泛通过
	if len(results) == 0 {
		res.Message = "无适用的子规则"
		return FinishResult(res, start)
	}

	var failed []string
	sum, max := 0.0, 0.0
	anyPassed, allPassed := false, true
	for _, r := range results {
		sum += r.Score
		if r.Score > max {
			max = r.Score
		}
		if r.Passed {
			anyPassed = true
		} else {
			allPassed = false
			failed = append(failed, fmt.Sprintf("%s: %s", r.RuleName, r.Message))
		}
	}

	if c.requireAll {
		res.Passed = allPassed
		res.Score = sum / float64(len(results))
	} else {
		res.Passed = anyPassed
		res.Score = max
	}

	if res.Passed {
		res.Message = fmt.Sprintf("%d 条子规则检查通过", len(results))
	} else {
		res.Message = fmt.Sprintf("子规则未通过: %s", strings.Join(failed, "; "))
	}
	res.Details = map[string]interface{}{
		"child_count":  len(results),
		"require_all":  c.requireAll,
		"child_failed": len(failed),
	}
	return FinishResult(res, start)
}

// conditionalRule 条件装饰器,谓词不成立时跳过被装饰规则
type conditionalRule struct {
	rule      Rule
	condition func(design *models.NetworkDesign) bool
}

// When 当 condition 成立时执行 rule,否则返回 info 级空泛通过
func When(condition func(design *models.NetworkDesign) bool, rule Rule) Rule {
	return &conditionalRule{rule: rule, condition: condition}
}

func (c *conditionalRule) ID() string         { return c.rule.ID() }
func (c *conditionalRule) Metadata() Metadata { return c.rule.Metadata() }
func (c *conditionalRule) Enable()            { c.rule.Enable() }
func (c *conditionalRule) Disable()           { c.rule.Disable() }
func (c *conditionalRule) IsEnabled() bool    { return c.rule.IsEnabled() }

// IsApplicable 以装饰谓词为准,不委托被装饰规则自身的适用性判断
func (c *conditionalRule) IsApplicable(design *models.NetworkDesign) bool {
	return c.condition(design)
}

func (c *conditionalRule) Validate(ctx context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	if !c.condition(design) {
		res := NewResult(c.rule.Metadata())
		res.Severity = models.SeverityInfo
		res.Message = "前置条件不满足,规则跳过"
		return FinishResult(res, start)
	}
	return c.rule.Validate(ctx, design)
}
