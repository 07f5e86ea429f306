/*
 * @module service/validation/rules/compliance_rules_test
 * @description 合规类内置规则单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 构造设计 -> 适用性门控 -> 控制项扣分断言
 * @rules 框架规则分数 = 1 - 缺失控制项权重之和
 * @dependencies testing, stretchr/testify
 */

package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdesign-service/service/models"
)

// compDesign 构造带合规清单的设计
func compDesign(frameworks ...string) *models.NetworkDesign {
	return &models.NetworkDesign{
		SecurityLevel:          models.SecurityEnterprise,
		ComplianceRequirements: frameworks,
	}
}

// TestComplianceRequirementsRule 测试高安全级别必须声明合规框架
func TestComplianceRequirementsRule(t *testing.T) {
	rule := NewComplianceRequirementsRule()

	bare := &models.NetworkDesign{SecurityLevel: models.SecurityGovernment}
	res := rule.Validate(context.Background(), bare)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	bare.ComplianceRequirements = []string{"ISO27001"}
	res = rule.Validate(context.Background(), bare)
	assert.True(t, res.Passed)
}

// TestComplianceFrameworkApplicability 测试框架规则按合规清单门控
func TestComplianceFrameworkApplicability(t *testing.T) {
	assert.False(t, NewPCIDSSRule().IsApplicable(compDesign()))
	assert.True(t, NewPCIDSSRule().IsApplicable(compDesign("PCI-DSS v4.0")))
	assert.True(t, NewHIPAARule().IsApplicable(compDesign("HIPAA")))
	assert.True(t, NewSOC2Rule().IsApplicable(compDesign("SOC 2 Type II")))
	assert.True(t, NewISO27001Rule().IsApplicable(compDesign("iso 27001")))
	assert.True(t, NewGDPRRule().IsApplicable(compDesign("GDPR")))
	assert.True(t, NewNISTRule().IsApplicable(compDesign("NIST CSF")))
	assert.True(t, NewFedRAMPRule().IsApplicable(compDesign("FedRAMP Moderate")))
}

// TestPCIDSSRuleScoring 测试 PCI-DSS 控制项扣分
func TestPCIDSSRuleScoring(t *testing.T) {
	rule := NewPCIDSSRule()

	design := compDesign("PCI-DSS")
	design.Scale.VLANs = 3
	design.Components = []models.ComponentSpecification{
		{Name: "fw-1", ComponentType: "firewall", Quantity: 2},
	}
	res := rule.Validate(context.Background(), design)
	require.False(t, res.Passed)
	assert.InDelta(t, 0.6, res.Score, 1e-9)
	missing := res.Details["missing_controls"].([]string)
	assert.ElementsMatch(t, []string{"encryption", "logging"}, missing)
}

// TestHIPAARuleFullPass 测试 HIPAA 控制项全通过
func TestHIPAARuleFullPass(t *testing.T) {
	rule := NewHIPAARule()

	design := compDesign("HIPAA")
	design.Scale.VLANs = 3
	design.Components = []models.ComponentSpecification{
		{Name: "fw-1", ComponentType: "firewall", Quantity: 2,
			Specifications: map[string]interface{}{"features": "ipsec radius syslog"}},
	}
	res := rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestSOC2RuleAllMissing 测试 SOC2 控制项全缺失扣到零分
func TestSOC2RuleAllMissing(t *testing.T) {
	rule := NewSOC2Rule()

	design := compDesign("SOC2")
	design.Topology.RedundancyLevel = models.RedundancyLow
	res := rule.Validate(context.Background(), design)
	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Score)
	assert.Len(t, res.Details["missing_controls"].([]string), 4)
}

// TestISO27001RulePartial 测试 ISO27001 部分控制项缺失
func TestISO27001RulePartial(t *testing.T) {
	rule := NewISO27001Rule()

	design := compDesign("ISO27001")
	design.Components = []models.ComponentSpecification{
		{Name: "fw-1", ComponentType: "firewall", Quantity: 2,
			Specifications: map[string]interface{}{"logging": "syslog"}},
	}
	res := rule.Validate(context.Background(), design)
	require.False(t, res.Passed)
	assert.InDelta(t, 0.4, res.Score, 1e-9)
	missing := res.Details["missing_controls"].([]string)
	assert.ElementsMatch(t, []string{"authentication", "encryption", "network_segmentation"}, missing)
}

// TestGDPRRulePartial 测试 GDPR 加密与认证满足时的剩余扣分
func TestGDPRRulePartial(t *testing.T) {
	rule := NewGDPRRule()

	design := compDesign("GDPR")
	design.Components = []models.ComponentSpecification{
		{Name: "gw-1", ComponentType: "router", Quantity: 2,
			Specifications: map[string]interface{}{"security": "ipsec radius"}},
	}
	res := rule.Validate(context.Background(), design)
	require.False(t, res.Passed)
	assert.InDelta(t, 0.6, res.Score, 1e-9)
}

// TestNISTRuleFullPass 测试 NIST CSF 五项职能全通过
func TestNISTRuleFullPass(t *testing.T) {
	rule := NewNISTRule()

	design := compDesign("NIST")
	design.Topology.RedundancyLevel = models.RedundancyMedium
	design.Components = []models.ComponentSpecification{
		{Name: "fw-1", ComponentType: "firewall", Quantity: 2,
			Specifications: map[string]interface{}{"features": "siem netflow"}},
	}
	res := rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestFedRAMPRule 测试 FedRAMP 控制项与 FIPS 要求
func TestFedRAMPRule(t *testing.T) {
	rule := NewFedRAMPRule()

	weak := compDesign("FedRAMP")
	weak.SecurityLevel = models.SecurityBasic
	res := rule.Validate(context.Background(), weak)
	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Score)

	strong := compDesign("FedRAMP")
	strong.SecurityLevel = models.SecurityGovernment
	strong.Topology.RedundancyLevel = models.RedundancyHigh
	strong.Components = []models.ComponentSpecification{
		{Name: "vpn-gw-1", ComponentType: "router", Quantity: 2,
			Specifications: map[string]interface{}{"crypto": "FIPS 140-2", "telemetry": "siem"}},
	}
	res = rule.Validate(context.Background(), strong)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.Score)
}

// TestDataResidencyRule 测试多站点合规场景的位置标注要求
func TestDataResidencyRule(t *testing.T) {
	rule := NewDataResidencyRule()

	none := &models.NetworkDesign{Scale: models.ScaleRequirement{Sites: 3}}
	res := rule.Validate(context.Background(), none)
	assert.True(t, res.Passed)

	design := compDesign("GDPR")
	design.Scale.Sites = 3
	design.Components = []models.ComponentSpecification{
		{Name: "sw-1", ComponentType: "switch", Quantity: 2},
	}
	res = rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.6, res.Score)

	design.Components[0].Location = "法兰克福"
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
}

// TestAuditTrailRule 测试合规场景的日志审计要求
func TestAuditTrailRule(t *testing.T) {
	rule := NewAuditTrailRule()

	design := compDesign("ISO27001")
	res := rule.Validate(context.Background(), design)
	assert.False(t, res.Passed)
	assert.Equal(t, 0.5, res.Score)

	design.Components = []models.ComponentSpecification{
		{Name: "collector-1", ComponentType: "server", Quantity: 1,
			Specifications: map[string]interface{}{"role": "audit syslog"}},
	}
	res = rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)

	res = rule.Validate(context.Background(), compDesign())
	assert.True(t, res.Passed)
}

// TestChangeManagementRule 测试设计版本演进提示
func TestChangeManagementRule(t *testing.T) {
	rule := NewChangeManagementRule()

	design := &models.NetworkDesign{}
	res := rule.Validate(context.Background(), design)
	assert.True(t, res.Passed)
	assert.Equal(t, 0.9, res.Score)

	design.Version = "2.1"
	res = rule.Validate(context.Background(), design)
	assert.Equal(t, 1.0, res.Score)
}
