/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具,确保测试环境的一致性
 * @dependencies gorm, sqlite, testify
 * @refs service/models
 */

package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"netdesign-service/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.NetworkDesignRecord{},
		&models.ValidationRecord{},
		&models.ValidationAuditLog{},
		&models.ApiKey{},
		&models.ScriptRuleRecord{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"network_design_records",
		"validation_records",
		"validation_audit_logs",
		"api_keys",
		"script_rule_records",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// DesignOption 设计文档选项函数类型
type DesignOption func(*models.NetworkDesign)

// ValidDesign 构造一个可通过标准模式验证的企业数据中心设计
func ValidDesign(opts ...DesignOption) *models.NetworkDesign {
	vlan10 := 10
	vlan20 := 20

	design := &models.NetworkDesign{
		DesignID:      "design-test-001",
		DesignName:    "测试企业数据中心",
		NetworkType:   models.NetworkTypeEnterpriseDatacenter,
		SecurityLevel: models.SecurityEnterprise,
		Bandwidth: models.BandwidthRequirement{
			Minimum: "10Gbps",
			Maximum: "100Gbps",
			Average: "40Gbps",
		},
		Scale: models.ScaleRequirement{
			Devices: 500,
			Users:   2000,
			Sites:   1,
			VLANs:   8,
			Subnets: 16,
		},
		Components: []models.ComponentSpecification{
			{ComponentID: "core-1", ComponentType: "switch", Name: "core-sw-1", Quantity: 1, RedundancyGroup: "core",
				Specifications: map[string]interface{}{"routing": "ospf bgp", "features": "qos stp acl"}},
			{ComponentID: "core-2", ComponentType: "switch", Name: "core-sw-2", Quantity: 1, RedundancyGroup: "core",
				Specifications: map[string]interface{}{"routing": "ospf bgp", "features": "qos stp acl"}},
			{ComponentID: "agg-1", ComponentType: "switch", Name: "agg-sw-1", Quantity: 1, RedundancyGroup: "agg",
				Specifications: map[string]interface{}{"features": "qos stp lacp", "mtu": 9216}},
			{ComponentID: "agg-2", ComponentType: "switch", Name: "agg-sw-2", Quantity: 1, RedundancyGroup: "agg",
				Specifications: map[string]interface{}{"features": "qos stp lacp", "mtu": 9216}},
			{ComponentID: "access-1", ComponentType: "switch", Name: "access-sw-1", Quantity: 2, RedundancyGroup: "access",
				Specifications: map[string]interface{}{"features": "stp 802.1x"}},
			{ComponentID: "access-2", ComponentType: "switch", Name: "access-sw-2", Quantity: 2, RedundancyGroup: "access",
				Specifications: map[string]interface{}{"features": "stp 802.1x"}},
			{ComponentID: "fw-1", ComponentType: "firewall", Name: "fw-1", Quantity: 1, RedundancyGroup: "fw",
				Specifications: map[string]interface{}{"features": "ids ips vpn ipsec siem syslog", "auth": "radius aaa"}},
			{ComponentID: "fw-2", ComponentType: "firewall", Name: "fw-2", Quantity: 1, RedundancyGroup: "fw",
				Specifications: map[string]interface{}{"features": "ids ips vpn ipsec siem syslog", "auth": "radius aaa"}},
			{ComponentID: "rtr-1", ComponentType: "router", Name: "edge-rtr-1", Quantity: 1, RedundancyGroup: "edge", Location: "dmz",
				Specifications: map[string]interface{}{"routing": "bgp"}},
			{ComponentID: "rtr-2", ComponentType: "router", Name: "edge-rtr-2", Quantity: 1, RedundancyGroup: "edge", Location: "dmz",
				Specifications: map[string]interface{}{"routing": "bgp"}},
		},
		Connections: []models.Connection{
			{ConnectionID: "c1", SourceComponent: "core-sw-1", TargetComponent: "agg-sw-1", ConnectionType: "fiber",
				Bandwidth: "100Gbps", SourceInterface: "et-0/0/1", TargetInterface: "et-0/0/1", Protocol: "ospf", VLAN: &vlan10},
			{ConnectionID: "c2", SourceComponent: "core-sw-2", TargetComponent: "agg-sw-2", ConnectionType: "fiber",
				Bandwidth: "100Gbps", SourceInterface: "et-0/0/1", TargetInterface: "et-0/0/1", Protocol: "ospf", VLAN: &vlan10},
			{ConnectionID: "c3", SourceComponent: "core-sw-1", TargetComponent: "agg-sw-2", ConnectionType: "fiber",
				Bandwidth: "100Gbps", SourceInterface: "et-0/0/2", TargetInterface: "et-0/0/2"},
			{ConnectionID: "c4", SourceComponent: "core-sw-2", TargetComponent: "agg-sw-1", ConnectionType: "fiber",
				Bandwidth: "100Gbps", SourceInterface: "et-0/0/2", TargetInterface: "et-0/0/2"},
			{ConnectionID: "c5", SourceComponent: "agg-sw-1", TargetComponent: "access-sw-1", ConnectionType: "fiber",
				Bandwidth: "40Gbps", SourceInterface: "et-0/0/3", TargetInterface: "et-0/0/1", VLAN: &vlan20},
			{ConnectionID: "c6", SourceComponent: "agg-sw-2", TargetComponent: "access-sw-2", ConnectionType: "fiber",
				Bandwidth: "40Gbps", SourceInterface: "et-0/0/3", TargetInterface: "et-0/0/1", VLAN: &vlan20},
			{ConnectionID: "c7", SourceComponent: "agg-sw-1", TargetComponent: "access-sw-2", ConnectionType: "fiber",
				Bandwidth: "40Gbps", SourceInterface: "et-0/0/4", TargetInterface: "et-0/0/2"},
			{ConnectionID: "c8", SourceComponent: "agg-sw-2", TargetComponent: "access-sw-1", ConnectionType: "fiber",
				Bandwidth: "40Gbps", SourceInterface: "et-0/0/4", TargetInterface: "et-0/0/2"},
			{ConnectionID: "c9", SourceComponent: "core-sw-1", TargetComponent: "fw-1", ConnectionType: "fiber",
				Bandwidth: "40Gbps", SourceInterface: "et-0/0/5", TargetInterface: "et-0/0/1"},
			{ConnectionID: "c10", SourceComponent: "core-sw-2", TargetComponent: "fw-2", ConnectionType: "fiber",
				Bandwidth: "40Gbps", SourceInterface: "et-0/0/5", TargetInterface: "et-0/0/1"},
			{ConnectionID: "c11", SourceComponent: "fw-1", TargetComponent: "edge-rtr-1", ConnectionType: "fiber",
				Bandwidth: "10Gbps", SourceInterface: "et-0/0/2", TargetInterface: "et-0/0/1", Protocol: "bgp"},
			{ConnectionID: "c12", SourceComponent: "fw-2", TargetComponent: "edge-rtr-2", ConnectionType: "fiber",
				Bandwidth: "10Gbps", SourceInterface: "et-0/0/2", TargetInterface: "et-0/0/1", Protocol: "bgp"},
			{ConnectionID: "c13", SourceComponent: "fw-1", TargetComponent: "edge-rtr-2", ConnectionType: "fiber",
				Bandwidth: "10Gbps", SourceInterface: "et-0/0/3", TargetInterface: "et-0/0/2"},
			{ConnectionID: "c14", SourceComponent: "fw-2", TargetComponent: "edge-rtr-1", ConnectionType: "fiber",
				Bandwidth: "10Gbps", SourceInterface: "et-0/0/3", TargetInterface: "et-0/0/2", Protocol: "bgp"},
		},
		Topology: models.TopologyDetails{
			TopologyType:            models.TopologyThreeTier,
			Layers:                  3,
			RedundancyLevel:         models.RedundancyHigh,
			HasSinglePointOfFailure: false,
			RedundantPaths:          2,
		},
		KeyFeatures: []string{"qos", "network segmentation", "security monitoring"},
		Version:     "2.1",
	}

	for _, opt := range opts {
		opt(design)
	}
	return design
}

// SPOFDesign 构造一个存在单点故障的高冗余要求设计
func SPOFDesign() *models.NetworkDesign {
	return &models.NetworkDesign{
		DesignID:      "design-spof-001",
		DesignName:    "单点故障测试设计",
		NetworkType:   models.NetworkTypeEnterpriseDatacenter,
		SecurityLevel: models.SecurityEnterprise,
		Bandwidth: models.BandwidthRequirement{
			Minimum: "1Gbps",
			Maximum: "10Gbps",
		},
		Scale: models.ScaleRequirement{Devices: 100, Users: 400},
		Components: []models.ComponentSpecification{
			{ComponentID: "core-1", ComponentType: "switch", Name: "core-1", Quantity: 1},
			{ComponentID: "acc-1", ComponentType: "switch", Name: "acc-1", Quantity: 1},
			{ComponentID: "acc-2", ComponentType: "switch", Name: "acc-2", Quantity: 1},
			{ComponentID: "fw-1", ComponentType: "firewall", Name: "fw-1", Quantity: 1,
				Specifications: map[string]interface{}{"features": "ids vpn siem", "auth": "radius"}},
			{ComponentID: "rtr-1", ComponentType: "router", Name: "rtr-1", Quantity: 1,
				Specifications: map[string]interface{}{"routing": "ospf"}},
			{ComponentID: "srv-1", ComponentType: "server", Name: "srv-1", Quantity: 1},
		},
		Connections: []models.Connection{
			{ConnectionID: "c1", SourceComponent: "acc-1", TargetComponent: "core-1", ConnectionType: "ethernet", Bandwidth: "1Gbps"},
			{ConnectionID: "c2", SourceComponent: "acc-2", TargetComponent: "core-1", ConnectionType: "ethernet", Bandwidth: "1Gbps"},
			{ConnectionID: "c3", SourceComponent: "core-1", TargetComponent: "fw-1", ConnectionType: "ethernet", Bandwidth: "1Gbps"},
			{ConnectionID: "c4", SourceComponent: "fw-1", TargetComponent: "rtr-1", ConnectionType: "ethernet", Bandwidth: "1Gbps"},
		},
		Topology: models.TopologyDetails{
			TopologyType:            models.TopologyStar,
			Layers:                  2,
			RedundancyLevel:         models.RedundancyHigh,
			HasSinglePointOfFailure: true,
			RedundantPaths:          1,
		},
	}
}

// MinimalDesign 构造一个组件与连接都不足的最小设计
func MinimalDesign() *models.NetworkDesign {
	return &models.NetworkDesign{
		DesignID:      "design-min-001",
		DesignName:    "最小测试设计",
		NetworkType:   models.NetworkTypeLegacyCampus,
		SecurityLevel: models.SecurityBasic,
		Bandwidth:     models.BandwidthRequirement{Minimum: "100Mbps"},
		Scale:         models.ScaleRequirement{Devices: 10, Users: 20},
		Components: []models.ComponentSpecification{
			{ComponentID: "sw-1", ComponentType: "switch", Name: "sw-1", Quantity: 1},
			{ComponentID: "rtr-1", ComponentType: "router", Name: "rtr-1", Quantity: 1,
				Specifications: map[string]interface{}{"routing": "ospf"}},
		},
		Connections: []models.Connection{
			{ConnectionID: "c1", SourceComponent: "sw-1", TargetComponent: "rtr-1", ConnectionType: "ethernet", Bandwidth: "1Gbps"},
		},
		Topology: models.TopologyDetails{
			TopologyType:    models.TopologyStar,
			Layers:          1,
			RedundancyLevel: models.RedundancyNone,
		},
	}
}

// NewStubAssessor 启动一个返回固定评估结果的评估服务
func NewStubAssessor(score, confidence float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := &models.LLMValidationResult{
			OverallScore:         score,
			Confidence:           confidence,
			ContextualAssessment: "测试评估",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"msg":    "评估完成",
			"data":   result,
		})
	}))
}

// StaticAssessor 返回固定结果的评估器,用于编排器测试
type StaticAssessor struct {
	Result *models.LLMValidationResult
	Err    error
}

// Assess 返回预设评估结果
func (a *StaticAssessor) Assess(ctx context.Context, design *models.NetworkDesign, det *models.DeterministicValidationResult) (*models.LLMValidationResult, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Result, nil
}
