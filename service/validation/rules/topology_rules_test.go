/*
 * @module service/validation/rules/topology_rules_test
 * @description 拓扑类内置规则单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 构造设计 -> 执行规则 -> 断言分数与结论
 * @rules 覆盖割点检测、冗余路径、层级结构与 spine-leaf 比例的边界
 * @dependencies testing, stretchr/testify, netdesign-service/testutil
 */

package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdesign-service/service/models"
	"netdesign-service/testutil"
)

// TestNoSinglePointOfFailureRule 测试高冗余设计的单点故障判定
func TestNoSinglePointOfFailureRule(t *testing.T) {
	rule := NewNoSinglePointOfFailureRule()

	res := rule.Validate(context.Background(), testutil.SPOFDesign())
	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, models.SeverityCritical, res.Severity)

	res = rule.Validate(context.Background(), testutil.ValidDesign())
	assert.True(t, res.Passed)

	// 低冗余级别不强制消除单点
	low := testutil.SPOFDesign()
	low.Topology.RedundancyLevel = models.RedundancyLow
	res = rule.Validate(context.Background(), low)
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestNoSinglePointOfFailureCutVertex 测试链式拓扑中间节点被识别为割点
func TestNoSinglePointOfFailureCutVertex(t *testing.T) {
	rule := NewNoSinglePointOfFailureRule()

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{RedundancyLevel: models.RedundancyHigh},
		Components: []models.ComponentSpecification{
			{ComponentID: "a", Name: "a", Quantity: 1},
			{ComponentID: "b", Name: "b", Quantity: 1},
			{ComponentID: "c", Name: "c", Quantity: 1},
		},
		Connections: []models.Connection{
			{ConnectionID: "c1", SourceComponent: "a", TargetComponent: "b"},
			{ConnectionID: "c2", SourceComponent: "b", TargetComponent: "c"},
		},
	}
	res := rule.Validate(context.Background(), design)
	require.False(t, res.Passed)
	assert.Equal(t, []string{"b"}, res.AffectedComponents)
}

// TestRedundantPathsRule 测试冗余路径数量与级别匹配
func TestRedundantPathsRule(t *testing.T) {
	rule := NewRedundantPathsRule()

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{RedundancyLevel: models.RedundancyCritical, RedundantPaths: 2},
	}
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.InDelta(t, 2.0/3.0, res.Score, 1e-9)

	design.Topology.RedundancyLevel = models.RedundancyHigh
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
}

// TestTopologyLayersRule 测试拓扑类型与层数匹配
func TestTopologyLayersRule(t *testing.T) {
	rule := NewTopologyLayersRule()

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyThreeTier, Layers: 2},
	}
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.7, res.Score)

	design.Topology = models.TopologyDetails{TopologyType: models.TopologySpineLeaf, Layers: 2}
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)

	design.Topology = models.TopologyDetails{TopologyType: "toroid", Layers: 7}
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
	assert.Equal(t, 0.8, res.Score)
}

// TestConnectedComponentsRule 测试孤立组件识别
func TestConnectedComponentsRule(t *testing.T) {
	rule := NewConnectedComponentsRule()

	design := &models.NetworkDesign{
		Components: []models.ComponentSpecification{
			{ComponentID: "a", Name: "a", Quantity: 1},
			{ComponentID: "b", Name: "b", Quantity: 1},
			{ComponentID: "orphan", Name: "orphan", Quantity: 1},
		},
		Connections: []models.Connection{
			{ConnectionID: "c1", SourceComponent: "a", TargetComponent: "b"},
		},
	}
	res := rule.Validate(context.Background(), design)
	require.False(t, res.Passed)
	assert.InDelta(t, 2.0/3.0, res.Score, 1e-9)
	assert.Equal(t, []string{"orphan"}, res.AffectedComponents)

	res = rule.Validate(context.Background(), testutil.ValidDesign())
	assert.True(t, res.Passed)

	empty := &models.NetworkDesign{}
	res = rule.Validate(context.Background(), empty)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Score)
}

// TestLoopPreventionRule 测试含环拓扑的环路防护要求
func TestLoopPreventionRule(t *testing.T) {
	rule := NewLoopPreventionRule()

	ring := &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyRing},
	}
	res := rule.Validate(context.Background(), ring)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)
	assert.Equal(t, models.SeverityError, res.Severity)

	ring.Connections = []models.Connection{
		{ConnectionID: "c1", SourceComponent: "a", TargetComponent: "b", Protocol: "rstp"},
	}
	res = rule.Validate(context.Background(), ring)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestCoreRedundancyRule 测试层级化拓扑的核心层设备数量
func TestCoreRedundancyRule(t *testing.T) {
	rule := NewCoreRedundancyRule()

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyThreeTier},
		Components: []models.ComponentSpecification{
			{Name: "access-sw-1", ComponentType: "switch", Quantity: 4},
		},
	}
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)

	design.Components = append(design.Components, models.ComponentSpecification{
		Name: "core-sw-1", ComponentType: "switch", Quantity: 1,
	})
	res = rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	res = rule.Validate(context.Background(), testutil.ValidDesign())
	assert.True(t, res.Passed)

	mesh := &models.NetworkDesign{Topology: models.TopologyDetails{TopologyType: models.TopologyMesh}}
	res = rule.Validate(context.Background(), mesh)
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestSpineLeafRatioRule 测试 leaf/spine 比例区间与适用性门控
func TestSpineLeafRatioRule(t *testing.T) {
	rule := NewSpineLeafRatioRule()

	assert.False(t, rule.IsApplicable(&models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyThreeTier},
	}))

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologySpineLeaf},
		Components: []models.ComponentSpecification{
			{Name: "spine-1", ComponentType: "switch", Quantity: 2},
			{Name: "leaf-1", ComponentType: "switch", Quantity: 20},
		},
	}
	require.True(t, rule.IsApplicable(design))
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.7, res.Score)

	design.Components[1].Quantity = 8
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)

	design.Components[1].Quantity = 1
	res = rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)
}

// TestMeshFullConnectivityRule 测试 mesh 拓扑互联覆盖率
func TestMeshFullConnectivityRule(t *testing.T) {
	rule := NewMeshFullConnectivityRule()

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyMesh},
		Components: []models.ComponentSpecification{
			{Name: "a", Quantity: 1}, {Name: "b", Quantity: 1},
			{Name: "c", Quantity: 1}, {Name: "d", Quantity: 1},
		},
		Connections: []models.Connection{
			{ConnectionID: "c1", SourceComponent: "a", TargetComponent: "b"},
			{ConnectionID: "c2", SourceComponent: "b", TargetComponent: "c"},
			{ConnectionID: "c3", SourceComponent: "c", TargetComponent: "d"},
		},
	}
	require.True(t, rule.IsApplicable(design))
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)

	design.Connections = append(design.Connections,
		models.Connection{ConnectionID: "c4", SourceComponent: "a", TargetComponent: "c"},
		models.Connection{ConnectionID: "c5", SourceComponent: "a", TargetComponent: "d"},
		models.Connection{ConnectionID: "c6", SourceComponent: "b", TargetComponent: "d"},
	)
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestHierarchicalStructureRule 测试层级角色完整性
func TestHierarchicalStructureRule(t *testing.T) {
	rule := NewHierarchicalStructureRule()

	design := &models.NetworkDesign{
		Topology: models.TopologyDetails{TopologyType: models.TopologyThreeTier},
		Components: []models.ComponentSpecification{
			{Name: "core-sw-1", ComponentType: "switch", Quantity: 2},
			{Name: "access-sw-1", ComponentType: "switch", Quantity: 4},
		},
	}
	require.True(t, rule.IsApplicable(design))
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)
	assert.Contains(t, res.Message, "distribution")

	// collapsed_core 不要求汇聚层
	design.Topology.TopologyType = models.TopologyCollapsedCore
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)

	res = rule.Validate(context.Background(), testutil.ValidDesign())
	assert.True(t, res.Passed)
}

// TestSymmetricDesignRule 测试冗余组内数量对称性
func TestSymmetricDesignRule(t *testing.T) {
	rule := NewSymmetricDesignRule()

	design := &models.NetworkDesign{
		Components: []models.ComponentSpecification{
			{Name: "fw-a", ComponentType: "firewall", Quantity: 2, RedundancyGroup: "fw"},
			{Name: "fw-b", ComponentType: "firewall", Quantity: 1, RedundancyGroup: "fw"},
		},
	}
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.8, res.Score)

	design.Components[1].Quantity = 2
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)

	none := &models.NetworkDesign{}
	res = rule.Validate(context.Background(), none)
	assert.True(t, res.Passed)
}

// TestEastWestTrafficRule 测试东西向流量友好度提示
func TestEastWestTrafficRule(t *testing.T) {
	rule := NewEastWestTrafficRule()

	spineLeaf := &models.NetworkDesign{Topology: models.TopologyDetails{TopologyType: models.TopologySpineLeaf}}
	res := rule.Validate(context.Background(), spineLeaf)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)

	threeTier := &models.NetworkDesign{Topology: models.TopologyDetails{TopologyType: models.TopologyThreeTier}}
	res = rule.Validate(context.Background(), threeTier)
	assert.True(t, res.Passed)
	assert.Equal(t, 0.8, res.Score)
}
