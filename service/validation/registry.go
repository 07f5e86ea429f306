/*
 * @module service/validation/registry
 * @description 规则注册表,维护规则索引并提供按类别/标签/严重级别的检索与批量启停
 * @architecture 依赖注入 - 注册表由调用方构造并传入,无全局单例
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 索引维护 -> 检索/启停 -> 统计
 * @rules 所有索引读写由读写锁保护,重复注册覆盖旧规则并记录告警
 * @dependencies log/slog, netdesign-service/service/models
 * @refs service/validation/pipeline
 */

package validation

import (
	"log/slog"
	"sync"

	"netdesign-service/service/models"
)

// RegistryStatistics 注册表统计信息
type RegistryStatistics struct {
	TotalRules           int                            `json:"total_rules"`
	EnabledRules         int                            `json:"enabled_rules"`
	DisabledRules        int                            `json:"disabled_rules"`
	Categories           map[models.RuleCategory]int    `json:"categories"`
	Tags                 map[string]int                 `json:"tags"`
	SeverityDistribution map[models.RuleSeverity]int    `json:"severity_distribution"`
}

// Registry 规则注册表
type Registry struct {
	mu         sync.RWMutex
	rules      map[string]Rule
	order      []string // 维持注册顺序,保证流水线输出顺序确定
	byCategory map[models.RuleCategory]map[string]struct{}
	byTag      map[string]map[string]struct{}
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		rules:      make(map[string]Rule),
		byCategory: make(map[models.RuleCategory]map[string]struct{}),
		byTag:      make(map[string]map[string]struct{}),
	}
}

// Register 注册规则,同 ID 覆盖旧规则并告警,类别/标签索引同步更新
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if old, exists := r.rules[id]; exists {
		slog.Warn("规则已存在,覆盖注册", "rule_id", id)
		r.dropFromIndexes(id, old.Metadata())
	} else {
		r.order = append(r.order, id)
	}
	r.rules[id] = rule
	r.addToIndexes(id, rule.Metadata())
}

// Unregister 注销规则,返回是否存在
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, exists := r.rules[id]
	if !exists {
		return false
	}
	r.dropFromIndexes(id, rule.Metadata())
	delete(r.rules, id)
	for i, rid := range r.order {
		if rid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// addToIndexes 把规则 ID 写入类别与标签索引,调用方须持有写锁
func (r *Registry) addToIndexes(id string, meta Metadata) {
	if r.byCategory[meta.Category] == nil {
		r.byCategory[meta.Category] = make(map[string]struct{})
	}
	r.byCategory[meta.Category][id] = struct{}{}
	for _, tag := range meta.Tags {
		if r.byTag[tag] == nil {
			r.byTag[tag] = make(map[string]struct{})
		}
		r.byTag[tag][id] = struct{}{}
	}
}

// dropFromIndexes 从类别与标签索引移除规则 ID,调用方须持有写锁
func (r *Registry) dropFromIndexes(id string, meta Metadata) {
	if ids := r.byCategory[meta.Category]; ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(r.byCategory, meta.Category)
		}
	}
	for _, tag := range meta.Tags {
		if ids := r.byTag[tag]; ids != nil {
			delete(ids, id)
			if len(ids) == 0 {
				delete(r.byTag, tag)
			}
		}
	}
}

// Get 按 ID 获取规则
func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// All 返回全部规则,按注册顺序
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(Rule) bool { return true })
}

// Count 返回已注册规则数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// ByCategory 按类别索引检索,结果保持注册顺序
func (r *Registry) ByCategory(category models.RuleCategory) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCategory[category]
	return r.collect(func(rule Rule) bool {
		_, ok := ids[rule.ID()]
		return ok
	})
}

// ByTag 按标签索引检索,结果保持注册顺序
func (r *Registry) ByTag(tag string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byTag[tag]
	return r.collect(func(rule Rule) bool {
		_, ok := ids[rule.ID()]
		return ok
	})
}

// BySeverity 按默认严重级别检索
func (r *Registry) BySeverity(severity models.RuleSeverity) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rule Rule) bool { return rule.Metadata().Severity == severity })
}

// Enabled 返回全部启用规则
func (r *Registry) Enabled() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rule Rule) bool { return rule.IsEnabled() })
}

// ApplicableTo 返回对给定设计适用的启用规则
func (r *Registry) ApplicableTo(design *models.NetworkDesign) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(rule Rule) bool { return rule.IsEnabled() && rule.IsApplicable(design) })
}

// collect 按注册顺序收集满足条件的规则,调用方须持有读锁
func (r *Registry) collect(match func(Rule) bool) []Rule {
	result := make([]Rule, 0, len(r.order))
	for _, id := range r.order {
		if rule, ok := r.rules[id]; ok && match(rule) {
			result = append(result, rule)
		}
	}
	return result
}

// EnableRule 启用规则,返回规则是否存在
func (r *Registry) EnableRule(id string) bool {
	if rule, ok := r.Get(id); ok {
		rule.Enable()
		return true
	}
	return false
}

// DisableRule 禁用规则,返回规则是否存在
func (r *Registry) DisableRule(id string) bool {
	if rule, ok := r.Get(id); ok {
		rule.Disable()
		return true
	}
	return false
}

// EnableCategory 启用类别下所有规则,返回状态发生变化的规则数
func (r *Registry) EnableCategory(category models.RuleCategory) int {
	count := 0
	for _, rule := range r.ByCategory(category) {
		if !rule.IsEnabled() {
			rule.Enable()
			count++
		}
	}
	return count
}

// DisableCategory 禁用类别下所有规则,返回状态发生变化的规则数
func (r *Registry) DisableCategory(category models.RuleCategory) int {
	count := 0
	for _, rule := range r.ByCategory(category) {
		if rule.IsEnabled() {
			rule.Disable()
			count++
		}
	}
	return count
}

// Statistics 注册表统计
func (r *Registry) Statistics() *RegistryStatistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &RegistryStatistics{
		Categories:           make(map[models.RuleCategory]int),
		Tags:                 make(map[string]int),
		SeverityDistribution: make(map[models.RuleSeverity]int),
	}
	for _, rule := range r.rules {
		stats.TotalRules++
		if rule.IsEnabled() {
			stats.EnabledRules++
		} else {
			stats.DisabledRules++
		}
		meta := rule.Metadata()
		stats.Categories[meta.Category]++
		stats.SeverityDistribution[meta.Severity]++
		for _, tag := range meta.Tags {
			stats.Tags[tag]++
		}
	}
	return stats
}

// Clear 清空注册表
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = make(map[string]Rule)
	r.order = nil
	r.byCategory = make(map[models.RuleCategory]map[string]struct{})
	r.byTag = make(map[string]map[string]struct{})
}
