/*
 * @module service/validation/rules/topology_rules
 * @description 拓扑类内置规则,覆盖单点故障、冗余路径、层级结构与连通性检查
 * @architecture 接口驱动 - 每条检查为独立规则类型
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 流水线执行
 * @rules 单点故障在高冗余设计中为 critical 级失败
 * @dependencies netdesign-service/service/validation
 * @refs service/validation/loader
 */

package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"netdesign-service/service/models"
	"netdesign-service/service/validation"
)

// buildAdjacency 以组件名为节点构建无向邻接表,连接端点兼容组件ID
func buildAdjacency(design *models.NetworkDesign) map[string][]string {
	adj := make(map[string][]string, len(design.Components))
	for i := range design.Components {
		adj[design.Components[i].Name] = nil
	}
	resolve := func(endpoint string) string {
		if _, ok := adj[endpoint]; ok {
			return endpoint
		}
		if c := design.ComponentByName(endpoint); c != nil {
			return c.Name
		}
		return ""
	}
	for _, conn := range design.Connections {
		src, dst := resolve(conn.SourceComponent), resolve(conn.TargetComponent)
		if src == "" || dst == "" || src == dst {
			continue
		}
		adj[src] = append(adj[src], dst)
		adj[dst] = append(adj[dst], src)
	}
	return adj
}

// reachableFrom 广度优先遍历,excluded 节点视为不存在
func reachableFrom(adj map[string][]string, start, excluded string) map[string]bool {
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if next == excluded || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return visited
}

// findCutVertices 返回割点:移除后使其余连通节点分离的组件
func findCutVertices(adj map[string][]string) []string {
	var cuts []string
	for node := range adj {
		var rest []string
		for other := range adj {
			if other != node && len(adj[other]) > 0 {
				rest = append(rest, other)
			}
		}
		if len(rest) < 2 {
			continue
		}
		visited := reachableFrom(adj, rest[0], node)
		for _, other := range rest[1:] {
			if !visited[other] {
				cuts = append(cuts, node)
				break
			}
		}
	}
	return cuts
}

// NoSinglePointOfFailureRule 单点故障检查
type NoSinglePointOfFailureRule struct {
	validation.BaseRule
}

func NewNoSinglePointOfFailureRule() *NoSinglePointOfFailureRule {
	return &NoSinglePointOfFailureRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "NoSinglePointOfFailureRule",
			Name:        "单点故障检查",
			Description: "高冗余设计中不允许存在单点故障",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityCritical,
			Tags:        []string{"topology", "redundancy"},
		}),
	}
}

func (r *NoSinglePointOfFailureRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	level := design.Topology.RedundancyLevel
	if level != models.RedundancyHigh && level != models.RedundancyCritical {
		res.Severity = models.SeverityInfo
		res.Message = fmt.Sprintf("冗余级别 %s 不要求消除单点故障", level)
		return validation.FinishResult(res, start)
	}

	cuts := findCutVertices(buildAdjacency(design))
	if design.Topology.HasSinglePointOfFailure || len(cuts) > 0 {
		res.Passed = false
		res.Score = 0
		res.Severity = models.SeverityCritical
		if len(cuts) > 0 {
			res.Message = fmt.Sprintf("检测到 %d 个单点故障组件", len(cuts))
			res.AffectedComponents = cuts
		} else {
			res.Message = "设计声明存在单点故障"
		}
		res.Details = map[string]interface{}{"cut_vertices": cuts}
		res.Recommendation = "为单点故障组件配置冗余设备与冗余链路"
	} else {
		res.Message = "未检测到单点故障"
	}
	return validation.FinishResult(res, start)
}

// RedundantPathsRule 冗余路径数量检查
type RedundantPathsRule struct {
	validation.BaseRule
}

var requiredRedundantPaths = map[models.RedundancyLevel]int{
	models.RedundancyNone:     0,
	models.RedundancyLow:      1,
	models.RedundancyMedium:   2,
	models.RedundancyHigh:     2,
	models.RedundancyCritical: 3,
}

func NewRedundantPathsRule() *RedundantPathsRule {
	return &RedundantPathsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "RedundantPathsRule",
			Name:        "冗余路径检查",
			Description: "冗余路径数量应满足冗余级别要求",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityError,
			Tags:        []string{"topology", "redundancy"},
		}),
	}
}

func (r *RedundantPathsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := requiredRedundantPaths[design.Topology.RedundancyLevel]
	actual := design.Topology.RedundantPaths
	res.Details = map[string]interface{}{"required": required, "actual": actual}

	if actual >= required {
		res.Message = fmt.Sprintf("冗余路径 %d 条,满足级别 %s 的要求", actual, design.Topology.RedundancyLevel)
	} else {
		res.Passed = false
		res.Score = float64(actual) / float64(required)
		res.Message = fmt.Sprintf("冗余路径 %d 条,低于级别 %s 要求的 %d 条", actual, design.Topology.RedundancyLevel, required)
		res.Recommendation = "增加备用链路以达到冗余级别要求"
	}
	return validation.FinishResult(res, start)
}

// TopologyLayersRule 拓扑层数检查
type TopologyLayersRule struct {
	validation.BaseRule
}

func NewTopologyLayersRule() *TopologyLayersRule {
	return &TopologyLayersRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "TopologyLayersRule",
			Name:        "拓扑层数检查",
			Description: "声明的层数应与拓扑类型匹配",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityWarning,
			Tags:        []string{"topology"},
		}),
	}
}

func (r *TopologyLayersRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	layers := design.Topology.Layers
	var minLayers, maxLayers int
	switch design.Topology.TopologyType {
	case models.TopologyThreeTier:
		minLayers, maxLayers = 3, 3
	case models.TopologyCollapsedCore, models.TopologySpineLeaf, models.TopologyStar:
		minLayers, maxLayers = 2, 2
	case models.TopologyMesh, models.TopologyRing:
		minLayers, maxLayers = 1, 1
	case models.TopologyHybrid:
		minLayers, maxLayers = 2, 4
	default:
		res.Score = 0.8
		res.Message = fmt.Sprintf("未知拓扑类型 %s,跳过层数检查", design.Topology.TopologyType)
		return validation.FinishResult(res, start)
	}

	if layers < minLayers || layers > maxLayers {
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("拓扑 %s 声明 %d 层,期望 %d-%d 层", design.Topology.TopologyType, layers, minLayers, maxLayers)
		res.Recommendation = "核对拓扑类型与层级声明"
	} else {
		res.Message = fmt.Sprintf("拓扑层数 %d 与类型 %s 匹配", layers, design.Topology.TopologyType)
	}
	return validation.FinishResult(res, start)
}

// ConnectedComponentsRule 连通性检查
type ConnectedComponentsRule struct {
	validation.BaseRule
}

func NewConnectedComponentsRule() *ConnectedComponentsRule {
	return &ConnectedComponentsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ConnectedComponentsRule",
			Name:        "组件连通性检查",
			Description: "所有组件都应出现在连接关系中,不允许孤立组件",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityError,
			Tags:        []string{"topology"},
		}),
	}
}

func (r *ConnectedComponentsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if len(design.Components) == 0 {
		res.Passed = false
		res.Score = 0
		res.Message = "设计不包含任何组件"
		return validation.FinishResult(res, start)
	}

	adj := buildAdjacency(design)
	var isolated []string
	connected := 0
	for name, neighbors := range adj {
		if len(neighbors) > 0 {
			connected++
		} else {
			isolated = append(isolated, name)
		}
	}

	res.Details = map[string]interface{}{"connected": connected, "total": len(design.Components)}
	if len(isolated) > 0 {
		res.Passed = false
		res.Score = float64(connected) / float64(len(design.Components))
		res.Message = fmt.Sprintf("存在 %d 个孤立组件", len(isolated))
		res.AffectedComponents = isolated
		res.Recommendation = "为孤立组件补充连接或从设计中移除"
	} else {
		res.Message = "所有组件均有连接"
	}
	return validation.FinishResult(res, start)
}

// LoopPreventionRule 环路防护协议检查
type LoopPreventionRule struct {
	validation.BaseRule
}

func NewLoopPreventionRule() *LoopPreventionRule {
	return &LoopPreventionRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "LoopPreventionRule",
			Name:        "环路防护检查",
			Description: "含环拓扑必须启用生成树类协议",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityWarning,
			Tags:        []string{"topology", "protocol"},
		}),
	}
}

func (r *LoopPreventionRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	hasLoopPrevention := anyProtocol(design, "stp", "rstp", "mstp", "spanning") ||
		designMentions(design, "spanning-tree", "spanning tree")
	loopProne := design.Topology.TopologyType == models.TopologyMesh || design.Topology.TopologyType == models.TopologyRing

	switch {
	case hasLoopPrevention:
		res.Message = "已启用环路防护协议"
	case loopProne:
		res.Passed = false
		res.Score = 0.6
		res.Severity = models.SeverityError
		res.Message = fmt.Sprintf("拓扑 %s 存在物理环路但未启用环路防护协议", design.Topology.TopologyType)
		res.Recommendation = "在二层域启用 RSTP/MSTP 或改用路由化互联"
	default:
		res.Score = 0.9
		res.Message = "未声明环路防护协议"
		res.Recommendation = "建议在二层域启用生成树协议防止意外环路"
	}
	return validation.FinishResult(res, start)
}

// CoreRedundancyRule 核心层冗余检查
type CoreRedundancyRule struct {
	validation.BaseRule
}

func NewCoreRedundancyRule() *CoreRedundancyRule {
	return &CoreRedundancyRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "CoreRedundancyRule",
			Name:        "核心层冗余检查",
			Description: "层级化拓扑的核心层应至少部署两台设备",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityError,
			Tags:        []string{"topology", "redundancy"},
		}),
	}
}

func (r *CoreRedundancyRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	t := design.Topology.TopologyType
	if t != models.TopologyThreeTier && t != models.TopologyCollapsedCore {
		res.Severity = models.SeverityInfo
		res.Message = fmt.Sprintf("拓扑 %s 不适用核心层冗余检查", t)
		return validation.FinishResult(res, start)
	}

	coreCount := quantityMatching(design, "core")
	res.Details = map[string]interface{}{"core_devices": coreCount}
	switch {
	case coreCount == 0:
		res.Passed = false
		res.Score = 0.5
		res.Message = "未识别到核心层设备"
		res.Recommendation = "在组件命名或类型中明确核心层设备"
	case coreCount < 2:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("核心层仅 %d 台设备,无冗余", coreCount)
		res.Recommendation = "核心层至少部署两台设备并互为备份"
	default:
		res.Message = fmt.Sprintf("核心层 %d 台设备,满足冗余要求", coreCount)
	}
	return validation.FinishResult(res, start)
}

// SpineLeafRatioRule spine/leaf 比例检查,仅适用于 spine_leaf 拓扑
type SpineLeafRatioRule struct {
	validation.BaseRule
}

func NewSpineLeafRatioRule() *SpineLeafRatioRule {
	return &SpineLeafRatioRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "SpineLeafRatioRule",
			Name:        "Spine-Leaf 比例检查",
			Description: "leaf 与 spine 数量之比应处于 1 至 8 之间",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityWarning,
			Tags:        []string{"topology", "datacenter"},
		}),
	}
}

func (r *SpineLeafRatioRule) IsApplicable(design *models.NetworkDesign) bool {
	return design.Topology.TopologyType == models.TopologySpineLeaf
}

func (r *SpineLeafRatioRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	spines := quantityMatching(design, "spine")
	leaves := quantityMatching(design, "leaf")
	res.Details = map[string]interface{}{"spines": spines, "leaves": leaves}

	if spines == 0 || leaves == 0 {
		res.Passed = false
		res.Score = 0.5
		res.Message = "未能从组件中识别出 spine 与 leaf 层"
		res.Recommendation = "在组件命名或类型中标明 spine/leaf 角色"
		return validation.FinishResult(res, start)
	}

	ratio := float64(leaves) / float64(spines)
	res.Details["ratio"] = ratio
	switch {
	case ratio < 1:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("spine 数量 %d 超过 leaf 数量 %d,结构异常", spines, leaves)
		res.Recommendation = "核对 spine 与 leaf 的规划比例"
	case ratio > 8:
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("leaf/spine 比例 %.1f 过高,spine 层可能成为瓶颈", ratio)
		res.Recommendation = "增加 spine 设备或提升上联带宽"
	default:
		res.Message = fmt.Sprintf("leaf/spine 比例 %.1f 处于合理区间", ratio)
	}
	return validation.FinishResult(res, start)
}

// MeshFullConnectivityRule 全互联覆盖率检查,仅适用于 mesh 拓扑
type MeshFullConnectivityRule struct {
	validation.BaseRule
}

func NewMeshFullConnectivityRule() *MeshFullConnectivityRule {
	return &MeshFullConnectivityRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "MeshFullConnectivityRule",
			Name:        "Mesh 全互联检查",
			Description: "mesh 拓扑的连接数应接近全互联规模",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityWarning,
			Tags:        []string{"topology"},
		}),
	}
}

func (r *MeshFullConnectivityRule) IsApplicable(design *models.NetworkDesign) bool {
	return design.Topology.TopologyType == models.TopologyMesh
}

func (r *MeshFullConnectivityRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	n := len(design.Components)
	if n < 2 {
		res.Score = 0.8
		res.Message = "组件数不足,无法评估互联覆盖率"
		return validation.FinishResult(res, start)
	}

	expected := n * (n - 1) / 2
	coverage := float64(len(design.Connections)) / float64(expected)
	res.Details = map[string]interface{}{"expected": expected, "actual": len(design.Connections), "coverage": coverage}

	if coverage >= 0.8 {
		if coverage > 1 {
			coverage = 1
		}
		res.Score = coverage
		res.Message = fmt.Sprintf("互联覆盖率 %.0f%%,接近全互联", coverage*100)
	} else {
		res.Passed = false
		res.Score = coverage
		res.Message = fmt.Sprintf("互联覆盖率 %.0f%%,低于 mesh 拓扑 80%% 的要求", coverage*100)
		res.Recommendation = "补充节点间直连或改用部分互联拓扑声明"
	}
	return validation.FinishResult(res, start)
}

// HierarchicalStructureRule 层级结构完整性检查,仅适用于层级化拓扑
type HierarchicalStructureRule struct {
	validation.BaseRule
}

func NewHierarchicalStructureRule() *HierarchicalStructureRule {
	return &HierarchicalStructureRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "HierarchicalStructureRule",
			Name:        "层级结构检查",
			Description: "层级化拓扑应具备核心/汇聚/接入各层组件",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityWarning,
			Tags:        []string{"topology"},
		}),
	}
}

func (r *HierarchicalStructureRule) IsApplicable(design *models.NetworkDesign) bool {
	t := design.Topology.TopologyType
	return t == models.TopologyThreeTier || t == models.TopologyCollapsedCore
}

func (r *HierarchicalStructureRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	hasCore := len(componentsMatching(design, "core")) > 0
	hasDistribution := len(componentsMatching(design, "distribution", "aggregation", "dist", "agg")) > 0
	hasAccess := len(componentsMatching(design, "access", "edge")) > 0

	var missing []string
	if !hasCore {
		missing = append(missing, "core")
	}
	if design.Topology.TopologyType == models.TopologyThreeTier && !hasDistribution {
		missing = append(missing, "distribution")
	}
	if !hasAccess {
		missing = append(missing, "access")
	}

	if len(missing) > 0 {
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("缺失层级: %s", strings.Join(missing, ", "))
		res.Details = map[string]interface{}{"missing_layers": missing}
		res.Recommendation = "在组件命名或类型中标明层级角色,补齐缺失层级"
	} else {
		res.Message = "层级结构完整"
	}
	return validation.FinishResult(res, start)
}

// SymmetricDesignRule 冗余组对称性检查
type SymmetricDesignRule struct {
	validation.BaseRule
}

func NewSymmetricDesignRule() *SymmetricDesignRule {
	return &SymmetricDesignRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "SymmetricDesignRule",
			Name:        "对称设计检查",
			Description: "同一冗余组内的组件数量应一致",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityWarning,
			Tags:        []string{"topology", "redundancy"},
		}),
	}
}

func (r *SymmetricDesignRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	groups := make(map[string][]int)
	for i := range design.Components {
		c := &design.Components[i]
		if c.RedundancyGroup != "" {
			groups[c.RedundancyGroup] = append(groups[c.RedundancyGroup], c.Quantity)
		}
	}
	if len(groups) == 0 {
		res.Message = "未配置冗余组,跳过对称性检查"
		return validation.FinishResult(res, start)
	}

	var asymmetric []string
	for group, quantities := range groups {
		for _, q := range quantities[1:] {
			if q != quantities[0] {
				asymmetric = append(asymmetric, group)
				break
			}
		}
	}

	if len(asymmetric) > 0 {
		res.Passed = false
		res.Score = 0.8
		res.Message = fmt.Sprintf("冗余组 %s 内组件数量不对称", strings.Join(asymmetric, ", "))
		res.Recommendation = "冗余组内成员应保持相同数量以对等承载"
	} else {
		res.Message = "冗余组配置对称"
	}
	return validation.FinishResult(res, start)
}

// EastWestTrafficRule 东西向流量优化检查
type EastWestTrafficRule struct {
	validation.BaseRule
}

func NewEastWestTrafficRule() *EastWestTrafficRule {
	return &EastWestTrafficRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "EastWestTrafficRule",
			Name:        "东西向流量检查",
			Description: "数据中心类设计应采用利于东西向流量的拓扑",
			Category:    models.CategoryTopology,
			Severity:    models.SeverityInfo,
			Tags:        []string{"topology", "datacenter"},
		}),
	}
}

func (r *EastWestTrafficRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	t := design.Topology.TopologyType
	if t == models.TopologySpineLeaf || t == models.TopologyMesh {
		res.Message = fmt.Sprintf("拓扑 %s 对东西向流量友好", t)
	} else {
		res.Score = 0.8
		res.Message = fmt.Sprintf("拓扑 %s 对东西向流量不占优", t)
		res.Recommendation = "若东西向流量占比高,考虑 spine-leaf 拓扑"
	}
	return validation.FinishResult(res, start)
}
