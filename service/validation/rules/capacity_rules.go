/*
 * @module service/validation/rules/capacity_rules
 * @description 容量类内置规则,覆盖组件规模、连接规模、带宽与超订比检查
 * @architecture 接口驱动 - 每条检查为独立规则类型
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 流水线执行
 * @rules 分数在 [0,1] 区间,失败结果必须携带 recommendation
 * @dependencies netdesign-service/service/validation
 * @refs service/validation/loader
 */

package rules

import (
	"context"
	"fmt"
	"time"

	"netdesign-service/service/models"
	"netdesign-service/service/validation"
)

// MinimumComponentsRule 组件总数下限检查
type MinimumComponentsRule struct {
	validation.BaseRule
	minComponents int
}

func NewMinimumComponentsRule() *MinimumComponentsRule {
	return &MinimumComponentsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "MinimumComponentsRule",
			Name:        "最小组件数检查",
			Description: "网络设计应包含足够数量的组件以构成完整网络",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityError,
			Tags:        []string{"capacity", "sizing"},
		}),
		minComponents: 5,
	}
}

func (r *MinimumComponentsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	total := design.TotalQuantity()
	if total >= r.minComponents {
		res.Message = fmt.Sprintf("组件总数 %d 满足下限 %d", total, r.minComponents)
	} else {
		res.Passed = false
		res.Score = float64(total) / float64(r.minComponents)
		res.Message = fmt.Sprintf("组件总数 %d 低于下限 %d", total, r.minComponents)
		res.Recommendation = "补充核心、汇聚或接入层组件,形成完整网络结构"
	}
	res.Details = map[string]interface{}{"total_components": total, "minimum": r.minComponents}
	return validation.FinishResult(res, start)
}

// MinimumConnectionsRule 连接总数下限检查
type MinimumConnectionsRule struct {
	validation.BaseRule
	minConnections int
}

func NewMinimumConnectionsRule() *MinimumConnectionsRule {
	return &MinimumConnectionsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "MinimumConnectionsRule",
			Name:        "最小连接数检查",
			Description: "网络设计应包含足够数量的连接",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityError,
			Tags:        []string{"capacity", "sizing"},
		}),
		minConnections: 3,
	}
}

func (r *MinimumConnectionsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	total := len(design.Connections)
	if total >= r.minConnections {
		res.Message = fmt.Sprintf("连接总数 %d 满足下限 %d", total, r.minConnections)
	} else {
		res.Passed = false
		res.Score = float64(total) / float64(r.minConnections)
		res.Message = fmt.Sprintf("连接总数 %d 低于下限 %d", total, r.minConnections)
		res.Recommendation = "补充组件间连接,避免孤立节点"
	}
	res.Details = map[string]interface{}{"total_connections": total, "minimum": r.minConnections}
	return validation.FinishResult(res, start)
}

// BandwidthCapacityRule 带宽需求有效性检查
type BandwidthCapacityRule struct {
	validation.BaseRule
}

func NewBandwidthCapacityRule() *BandwidthCapacityRule {
	return &BandwidthCapacityRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "BandwidthCapacityRule",
			Name:        "带宽容量检查",
			Description: "带宽需求应可解析且上下限自洽",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "bandwidth"},
		}),
	}
}

func (r *BandwidthCapacityRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	minMbps, ok := parseBandwidthMbps(design.Bandwidth.Minimum)
	if !ok {
		res.Passed = false
		res.Score = 0.5
		res.Message = fmt.Sprintf("最小带宽 %q 无法解析", design.Bandwidth.Minimum)
		res.Recommendation = "以 <数值><单位> 形式声明带宽,如 10Gbps"
		return validation.FinishResult(res, start)
	}
	if minMbps <= 0 {
		res.Passed = false
		res.Score = 0
		res.Message = fmt.Sprintf("最小带宽 %s 不是正值", design.Bandwidth.Minimum)
		res.Recommendation = "最小带宽必须为正值"
		return validation.FinishResult(res, start)
	}

	res.Details = map[string]interface{}{"min_mbps": minMbps}
	if maxMbps, ok := parseBandwidthMbps(design.Bandwidth.Maximum); ok {
		res.Details["max_mbps"] = maxMbps
		if maxMbps < minMbps {
			res.Passed = false
			res.Score = 0
			res.Message = fmt.Sprintf("最大带宽 %s 小于最小带宽 %s", design.Bandwidth.Maximum, design.Bandwidth.Minimum)
			res.Recommendation = "确认带宽上下限的取值与单位"
			return validation.FinishResult(res, start)
		}
	}

	res.Message = "带宽需求声明有效"
	return validation.FinishResult(res, start)
}

// ScaleRequirementsRule 规模需求合理性检查
type ScaleRequirementsRule struct {
	validation.BaseRule
}

func NewScaleRequirementsRule() *ScaleRequirementsRule {
	return &ScaleRequirementsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ScaleRequirementsRule",
			Name:        "规模需求检查",
			Description: "设备与用户规模应处于合理区间",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "scale"},
		}),
	}
}

func (r *ScaleRequirementsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	var issues []string
	if design.Scale.Devices > 100000 {
		issues = append(issues, fmt.Sprintf("设备规模 %d 超大,需要分域设计", design.Scale.Devices))
	}
	if design.Scale.Devices > 0 && design.Scale.Users > design.Scale.Devices*10 {
		issues = append(issues, fmt.Sprintf("用户数 %d 与设备数 %d 比例失衡", design.Scale.Users, design.Scale.Devices))
	}

	if len(issues) > 0 {
		res.Passed = false
		res.Score = 0.5
		res.Message = fmt.Sprintf("规模需求存在 %d 项异常", len(issues))
		res.Details = map[string]interface{}{"issues": issues}
		res.Recommendation = "核对设备与用户规模,超大规模网络应拆分管理域"
	} else {
		res.Message = "规模需求处于合理区间"
	}
	return validation.FinishResult(res, start)
}

// ComponentQuantityRule 组件数量有效性检查
type ComponentQuantityRule struct {
	validation.BaseRule
}

func NewComponentQuantityRule() *ComponentQuantityRule {
	return &ComponentQuantityRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ComponentQuantityRule",
			Name:        "组件数量检查",
			Description: "单个组件的数量应为正且不超过单型号合理上限",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "sizing"},
		}),
	}
}

func (r *ComponentQuantityRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	var affected []string
	var issues []string
	for i := range design.Components {
		c := &design.Components[i]
		if c.Quantity <= 0 {
			affected = append(affected, c.Name)
			issues = append(issues, fmt.Sprintf("组件 %s 数量 %d 非法", c.Name, c.Quantity))
		} else if c.Quantity > 100 {
			affected = append(affected, c.Name)
			issues = append(issues, fmt.Sprintf("组件 %s 数量 %d 超过单型号上限 100", c.Name, c.Quantity))
		}
	}

	if len(issues) > 0 {
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("发现 %d 个数量异常的组件", len(issues))
		res.Details = map[string]interface{}{"issues": issues}
		res.AffectedComponents = affected
		res.Recommendation = "修正组件数量,数量过大时拆分为多个组件条目"
	} else {
		res.Message = "所有组件数量有效"
	}
	return validation.FinishResult(res, start)
}

// DeviceToComponentRatioRule 终端设备与网络组件比例检查
type DeviceToComponentRatioRule struct {
	validation.BaseRule
}

func NewDeviceToComponentRatioRule() *DeviceToComponentRatioRule {
	return &DeviceToComponentRatioRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "DeviceToComponentRatioRule",
			Name:        "设备组件比例检查",
			Description: "终端设备数与网络组件数的比例应处于可承载区间",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "scale"},
		}),
	}
}

func (r *DeviceToComponentRatioRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	total := design.TotalQuantity()
	if total == 0 || design.Scale.Devices == 0 {
		res.Score = 0.8
		res.Message = "缺少组件或设备规模信息,无法评估比例"
		return validation.FinishResult(res, start)
	}

	ratio := float64(design.Scale.Devices) / float64(total)
	res.Details = map[string]interface{}{"ratio": ratio, "devices": design.Scale.Devices, "components": total}
	switch {
	case ratio < 1:
		res.Score = 0.8
		res.Message = fmt.Sprintf("组件数量 %d 超过设备数量 %d,可能过度建设", total, design.Scale.Devices)
		res.Recommendation = "复核组件规模是否与设备规模匹配"
	case ratio > 500:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("设备组件比 %.0f:1 过高,组件可能无法承载", ratio)
		res.Recommendation = "增加接入层组件以分摊设备接入压力"
	default:
		res.Message = fmt.Sprintf("设备组件比 %.1f:1 处于合理区间", ratio)
	}
	return validation.FinishResult(res, start)
}

// ConnectionDensityRule 连接密度检查
type ConnectionDensityRule struct {
	validation.BaseRule
}

func NewConnectionDensityRule() *ConnectionDensityRule {
	return &ConnectionDensityRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ConnectionDensityRule",
			Name:        "连接密度检查",
			Description: "组件平均连接数应处于合理区间",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "topology"},
		}),
	}
}

func (r *ConnectionDensityRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if len(design.Components) == 0 {
		res.Score = 0.8
		res.Message = "无组件,无法评估连接密度"
		return validation.FinishResult(res, start)
	}

	density := float64(len(design.Connections)) / float64(len(design.Components))
	res.Details = map[string]interface{}{"density": density}
	switch {
	case density < 1:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("平均连接密度 %.2f 过低,可能存在孤立组件", density)
		res.Recommendation = "为低连接度组件补充上联链路"
	case density > 20:
		res.Score = 0.8
		res.Message = fmt.Sprintf("平均连接密度 %.2f 过高,布线与维护成本大", density)
		res.Recommendation = "评估是否可通过汇聚层减少直连"
	default:
		res.Message = fmt.Sprintf("平均连接密度 %.2f 处于合理区间", density)
	}
	return validation.FinishResult(res, start)
}

// RedundantComponentsRule 冗余组件配置检查
type RedundantComponentsRule struct {
	validation.BaseRule
}

func NewRedundantComponentsRule() *RedundantComponentsRule {
	return &RedundantComponentsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "RedundantComponentsRule",
			Name:        "冗余组件检查",
			Description: "高冗余设计中关键组件应配置冗余组且组内成员不少于 2",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "redundancy"},
		}),
	}
}

func (r *RedundantComponentsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	level := design.Topology.RedundancyLevel
	if level != models.RedundancyHigh && level != models.RedundancyCritical {
		res.Message = fmt.Sprintf("冗余级别 %s 无需冗余组件检查", level)
		return validation.FinishResult(res, start)
	}

	groups := make(map[string][]string)
	for i := range design.Components {
		c := &design.Components[i]
		if c.RedundancyGroup != "" {
			groups[c.RedundancyGroup] = append(groups[c.RedundancyGroup], c.Name)
		}
	}

	var issues []string
	var affected []string
	for group, members := range groups {
		if len(members) < 2 {
			issues = append(issues, fmt.Sprintf("冗余组 %s 仅包含 %d 个成员", group, len(members)))
			affected = append(affected, members...)
		}
	}
	for i := range design.Components {
		c := &design.Components[i]
		if c.RedundancyGroup == "" && componentMatches(c, "router", "switch", "firewall", "load_balancer") {
			issues = append(issues, fmt.Sprintf("关键组件 %s 未配置冗余组", c.Name))
			affected = append(affected, c.Name)
		}
	}

	if len(issues) > 0 {
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("冗余配置存在 %d 项缺陷", len(issues))
		res.Details = map[string]interface{}{"issues": issues}
		res.AffectedComponents = affected
		res.Recommendation = "为关键组件配置冗余组,并保证组内成员不少于 2"
	} else {
		res.Message = "冗余组件配置满足冗余级别要求"
	}
	return validation.FinishResult(res, start)
}

// SiteDistributionRule 多站点分布检查
type SiteDistributionRule struct {
	validation.BaseRule
}

func NewSiteDistributionRule() *SiteDistributionRule {
	return &SiteDistributionRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "SiteDistributionRule",
			Name:        "站点分布检查",
			Description: "多站点设计应为组件声明位置且位置数量与站点数量匹配",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "scale"},
		}),
	}
}

func (r *SiteDistributionRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if design.Scale.Sites <= 1 {
		res.Message = "单站点设计,无需分布检查"
		return validation.FinishResult(res, start)
	}

	locations := make(map[string]bool)
	for i := range design.Components {
		if loc := design.Components[i].Location; loc != "" {
			locations[loc] = true
		}
	}

	res.Details = map[string]interface{}{"sites": design.Scale.Sites, "locations": len(locations)}
	switch {
	case len(locations) == 0:
		res.Passed = false
		res.Score = 0.5
		res.Message = fmt.Sprintf("设计声明 %d 个站点,但没有任何组件标注位置", design.Scale.Sites)
		res.Recommendation = "为组件标注所在站点位置"
	case len(locations) < design.Scale.Sites:
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("组件位置仅覆盖 %d 个站点,少于声明的 %d 个", len(locations), design.Scale.Sites)
		res.Recommendation = "确认每个站点都有对应组件"
	default:
		res.Message = fmt.Sprintf("组件位置覆盖全部 %d 个站点", design.Scale.Sites)
	}
	return validation.FinishResult(res, start)
}

// OversubscriptionRule 接入层与核心层带宽超订比检查
type OversubscriptionRule struct {
	validation.BaseRule
}

func NewOversubscriptionRule() *OversubscriptionRule {
	return &OversubscriptionRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "OversubscriptionRule",
			Name:        "超订比检查",
			Description: "接入层总带宽与核心层总带宽之比应处于可接受区间",
			Category:    models.CategoryCapacity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"capacity", "bandwidth"},
		}),
	}
}

func (r *OversubscriptionRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	access := make(map[string]bool)
	core := make(map[string]bool)
	for i := range design.Components {
		c := &design.Components[i]
		if componentMatches(c, "access", "edge") {
			access[c.Name] = true
			access[c.ComponentID] = true
		}
		if componentMatches(c, "core", "spine") {
			core[c.Name] = true
			core[c.ComponentID] = true
		}
	}

	accessBW, coreBW := 0.0, 0.0
	for _, conn := range design.Connections {
		mbps, ok := parseBandwidthMbps(conn.Bandwidth)
		if !ok {
			continue
		}
		if access[conn.SourceComponent] || access[conn.TargetComponent] {
			accessBW += mbps
		}
		if core[conn.SourceComponent] || core[conn.TargetComponent] {
			coreBW += mbps
		}
	}

	if accessBW == 0 || coreBW == 0 {
		res.Message = "缺少接入层或核心层带宽数据,无法评估超订比"
		return validation.FinishResult(res, start)
	}

	ratio := accessBW / coreBW
	res.Details = map[string]interface{}{"ratio": ratio, "access_mbps": accessBW, "core_mbps": coreBW}
	switch {
	case ratio < 1:
		res.Score = 0.8
		res.Message = fmt.Sprintf("超订比 %.2f:1 小于 1,核心层可能过度建设", ratio)
	case ratio > 10:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("超订比 %.2f:1 过高,核心层可能拥塞", ratio)
		res.Recommendation = "提升核心层带宽或降低接入层汇聚比"
	default:
		res.Message = fmt.Sprintf("超订比 %.2f:1 处于可接受区间", ratio)
	}
	return validation.FinishResult(res, start)
}
