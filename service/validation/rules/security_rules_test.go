/*
 * @module service/validation/rules/security_rules_test
 * @description 安全类内置规则单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 构造设计 -> 执行规则 -> 断言分数与结论
 * @rules 覆盖安全级别门控、防火墙冗余与零信任评分的边界
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

// secDesign 构造指定安全级别的最小设计
func secDesign(level models.SecurityLevel, components ...models.ComponentSpecification) *models.NetworkDesign {
	return &models.NetworkDesign{
		SecurityLevel: level,
		Components:    components,
	}
}

// TestFirewallPresenceRule 测试企业级及以上缺失防火墙为 critical 失败
func TestFirewallPresenceRule(t *testing.T) {
	rule := NewFirewallPresenceRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityEnterprise,
		models.ComponentSpecification{Name: "core-sw-1", ComponentType: "switch", Quantity: 2}))
	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, models.SeverityCritical, res.Severity)

	res = rule.Validate(context.Background(), secDesign(models.SecurityBasic,
		models.ComponentSpecification{Name: "sw-1", ComponentType: "switch", Quantity: 1}))
	assert.True(t, res.Passed)
	assert.Equal(t, 0.8, res.Score)
	assert.Equal(t, models.SeverityInfo, res.Severity)

	res = rule.Validate(context.Background(), testutil.ValidDesign())
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestRedundantFirewallsRule 测试政务级防火墙冗余要求
func TestRedundantFirewallsRule(t *testing.T) {
	rule := NewRedundantFirewallsRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityGovernment,
		models.ComponentSpecification{Name: "fw-1", ComponentType: "firewall", Quantity: 1}))
	assert.False(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)

	res = rule.Validate(context.Background(), secDesign(models.SecurityGovernment,
		models.ComponentSpecification{Name: "fw-1", ComponentType: "firewall", Quantity: 2}))
	assert.True(t, res.Passed)

	// 企业级不强制冗余
	res = rule.Validate(context.Background(), secDesign(models.SecurityEnterprise))
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestIDSIPSPresenceRule 测试入侵检测能力要求
func TestIDSIPSPresenceRule(t *testing.T) {
	rule := NewIDSIPSPresenceRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityEnterprise))
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	withIDS := secDesign(models.SecurityEnterprise, models.ComponentSpecification{
		Name: "fw-1", ComponentType: "firewall", Quantity: 2,
		Specifications: map[string]interface{}{"features": "ids ips"},
	})
	res = rule.Validate(context.Background(), withIDS)
	assert.True(t, res.Passed)

	res = rule.Validate(context.Background(), secDesign(models.SecurityBasic))
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestNetworkSegmentationRule 测试 VLAN 与安全分区判定
func TestNetworkSegmentationRule(t *testing.T) {
	rule := NewNetworkSegmentationRule()

	flat := secDesign(models.SecurityEnterprise,
		models.ComponentSpecification{Name: "sw-1", ComponentType: "switch", Quantity: 2})
	res := rule.Validate(context.Background(), flat)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	flat.Scale.VLANs = 4
	res = rule.Validate(context.Background(), flat)
	assert.True(t, res.Passed)

	zoned := secDesign(models.SecurityCorporate, models.ComponentSpecification{
		Name: "srv-1", ComponentType: "server", Quantity: 1, Location: "dmz",
	})
	res = rule.Validate(context.Background(), zoned)
	assert.True(t, res.Passed)

	res = rule.Validate(context.Background(), secDesign(models.SecurityBasic))
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestEncryptionRule 测试高安全级别的传输加密要求
func TestEncryptionRule(t *testing.T) {
	rule := NewEncryptionRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityGovernment))
	assert.False(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)

	res = rule.Validate(context.Background(), secDesign(models.SecurityCorporate))
	assert.True(t, res.Passed)
	assert.Equal(t, 0.9, res.Score)

	encrypted := secDesign(models.SecurityGovernment, models.ComponentSpecification{
		Name: "vpn-gw-1", ComponentType: "router", Quantity: 2,
		Specifications: map[string]interface{}{"tunnel": "ipsec"},
	})
	res = rule.Validate(context.Background(), encrypted)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestAuthenticationRule 测试集中认证能力要求
func TestAuthenticationRule(t *testing.T) {
	rule := NewAuthenticationRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityEnterprise))
	assert.False(t, res.Passed)
	assert.Equal(t, 0.7, res.Score)

	withAuth := secDesign(models.SecurityEnterprise, models.ComponentSpecification{
		Name: "nac-1", ComponentType: "server", Quantity: 2,
		Configuration: map[string]interface{}{"access": "radius 802.1x"},
	})
	res = rule.Validate(context.Background(), withAuth)
	assert.True(t, res.Passed)
}

// TestDMZConfigurationRule 测试对外服务场景的 DMZ 要求
func TestDMZConfigurationRule(t *testing.T) {
	rule := NewDMZConfigurationRule()

	dc := &models.NetworkDesign{
		NetworkType: models.NetworkTypeEnterpriseDatacenter,
		Components: []models.ComponentSpecification{
			{Name: "web-1", ComponentType: "server", Quantity: 2, Location: "机房A"},
		},
	}
	res := rule.Validate(context.Background(), dc)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.7, res.Score)

	dc.Components[0].Location = "dmz-zone-1"
	res = rule.Validate(context.Background(), dc)
	assert.True(t, res.Passed)

	campus := &models.NetworkDesign{NetworkType: models.NetworkTypeCampus}
	res = rule.Validate(context.Background(), campus)
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestAccessControlListsRule 测试访问控制策略提示
func TestAccessControlListsRule(t *testing.T) {
	rule := NewAccessControlListsRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityCorporate))
	assert.True(t, res.Passed)
	assert.Equal(t, 0.9, res.Score)

	withACL := secDesign(models.SecurityCorporate, models.ComponentSpecification{
		Name: "core-sw-1", ComponentType: "switch", Quantity: 2,
		Specifications: map[string]interface{}{"features": "acl"},
	})
	res = rule.Validate(context.Background(), withACL)
	assert.Equal(t, 1.0, res.Score)

	res = rule.Validate(context.Background(), secDesign(models.SecurityBasic))
	assert.Equal(t, 1.0, res.Score)
}

// TestAntiDDoSRule 测试面向公网网络的 DDoS 防护要求
func TestAntiDDoSRule(t *testing.T) {
	rule := NewAntiDDoSRule()

	sp := &models.NetworkDesign{NetworkType: models.NetworkTypeServiceProvider}
	res := rule.Validate(context.Background(), sp)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	sp.KeyFeatures = []string{"anti-ddos scrubbing center"}
	res = rule.Validate(context.Background(), sp)
	assert.True(t, res.Passed)

	dc := &models.NetworkDesign{NetworkType: models.NetworkTypeEnterpriseDatacenter}
	res = rule.Validate(context.Background(), dc)
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)
}

// TestSecurityMonitoringRule 测试日志与安全监控能力要求
func TestSecurityMonitoringRule(t *testing.T) {
	rule := NewSecurityMonitoringRule()

	res := rule.Validate(context.Background(), secDesign(models.SecurityEnterprise))
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	monitored := secDesign(models.SecurityEnterprise, models.ComponentSpecification{
		Name: "collector-1", ComponentType: "server", Quantity: 1,
		Specifications: map[string]interface{}{"role": "syslog siem"},
	})
	res = rule.Validate(context.Background(), monitored)
	assert.True(t, res.Passed)
}

// TestZeroTrustPrinciplesRule 测试零信任四项要点评分
func TestZeroTrustPrinciplesRule(t *testing.T) {
	rule := NewZeroTrustPrinciplesRule()

	// 非高安全级别不评估
	res := rule.Validate(context.Background(), secDesign(models.SecurityEnterprise))
	assert.True(t, res.Passed)
	assert.Equal(t, models.SeverityInfo, res.Severity)

	full := secDesign(models.SecurityGovernment, models.ComponentSpecification{
		Name: "fw-1", ComponentType: "firewall", Quantity: 2,
		Specifications: map[string]interface{}{"features": "ipsec radius siem"},
	})
	full.Scale.VLANs = 4
	res = rule.Validate(context.Background(), full)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)

	bare := secDesign(models.SecurityGovernment, models.ComponentSpecification{
		Name: "plain-sw-1", ComponentType: "switch", Quantity: 2,
	})
	res = rule.Validate(context.Background(), bare)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Score)
}
