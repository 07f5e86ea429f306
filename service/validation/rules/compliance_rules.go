/*
 * @module service/validation/rules/compliance_rules
 * @description 合规类内置规则,按声明的合规框架执行控制项扣分检查
 * @architecture 接口驱动 - 框架类规则通过 IsApplicable 按合规清单门控
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 适用性门控 -> 控制项扣分
 * @rules 框架规则仅在合规清单声明对应框架时执行;分数 = 1 - 控制项扣分之和
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

// control 合规控制项,missing 为真时按 weight 扣分
type control struct {
	name    string
	weight  float64
	missing bool
}

// applyControls 按控制项扣分填充结果
func applyControls(res *models.RuleValidationResult, framework string, controls []control) {
	score := 1.0
	var missing []string
	for _, c := range controls {
		if c.missing {
			score -= c.weight
			missing = append(missing, c.name)
		}
	}
	if score < 0 {
		score = 0
	}

	res.Score = score
	res.Passed = len(missing) == 0
	res.Details = map[string]interface{}{"missing_controls": missing}
	if res.Passed {
		res.Message = fmt.Sprintf("%s 控制项检查全部通过", framework)
	} else {
		res.Message = fmt.Sprintf("%s 缺失控制项: %s", framework, strings.Join(missing, ", "))
		res.Recommendation = fmt.Sprintf("补齐 %s 要求的控制能力", framework)
	}
}

func hasLogging(design *models.NetworkDesign) bool {
	return designMentions(design, "log", "siem", "syslog", "audit")
}

func hasFirewall(design *models.NetworkDesign) bool {
	return len(componentsMatching(design, "firewall", "fw")) > 0
}

func redundancyAtLeast(design *models.NetworkDesign, levels ...models.RedundancyLevel) bool {
	for _, l := range levels {
		if design.Topology.RedundancyLevel == l {
			return true
		}
	}
	return false
}

// ComplianceRequirementsRule 合规需求声明检查
type ComplianceRequirementsRule struct {
	validation.BaseRule
}

func NewComplianceRequirementsRule() *ComplianceRequirementsRule {
	return &ComplianceRequirementsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ComplianceRequirementsRule",
			Name:        "合规需求声明检查",
			Description: "高安全级别网络应显式声明合规框架",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityWarning,
			Tags:        []string{"compliance"},
		}),
	}
}

func (r *ComplianceRequirementsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if securityRank(design.SecurityLevel) >= 3 && len(design.ComplianceRequirements) == 0 {
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("安全级别 %s 但未声明任何合规框架", design.SecurityLevel)
		res.Recommendation = "明确适用的合规框架,如等保、ISO27001"
	} else {
		res.Message = "合规需求声明完整"
	}
	return validation.FinishResult(res, start)
}

// PCIDSSRule PCI-DSS 控制项检查
type PCIDSSRule struct {
	validation.BaseRule
}

func NewPCIDSSRule() *PCIDSSRule {
	return &PCIDSSRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "PCIDSSRule",
			Name:        "PCI-DSS 检查",
			Description: "支付卡行业数据安全标准控制项检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityError,
			Tags:        []string{"compliance", "pci-dss"},
		}),
	}
}

func (r *PCIDSSRule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "pci")
}

func (r *PCIDSSRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())
	applyControls(res, "PCI-DSS", []control{
		{"network_segmentation", 0.3, !isSegmented(design)},
		{"firewall", 0.3, !hasFirewall(design)},
		{"encryption", 0.2, !hasEncryption(design)},
		{"logging", 0.2, !hasLogging(design)},
	})
	return validation.FinishResult(res, start)
}

// HIPAARule HIPAA 控制项检查
type HIPAARule struct {
	validation.BaseRule
}

func NewHIPAARule() *HIPAARule {
	return &HIPAARule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "HIPAARule",
			Name:        "HIPAA 检查",
			Description: "医疗健康数据保护控制项检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityError,
			Tags:        []string{"compliance", "hipaa"},
		}),
	}
}

func (r *HIPAARule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "hipaa")
}

func (r *HIPAARule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())
	applyControls(res, "HIPAA", []control{
		{"encryption", 0.3, !hasEncryption(design)},
		{"authentication", 0.3, !hasAuthentication(design)},
		{"audit_logging", 0.2, !hasLogging(design)},
		{"network_segmentation", 0.2, !isSegmented(design)},
	})
	return validation.FinishResult(res, start)
}

// SOC2Rule SOC2 控制项检查
type SOC2Rule struct {
	validation.BaseRule
}

func NewSOC2Rule() *SOC2Rule {
	return &SOC2Rule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "SOC2Rule",
			Name:        "SOC2 检查",
			Description: "服务组织控制审计控制项检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityWarning,
			Tags:        []string{"compliance", "soc2"},
		}),
	}
}

func (r *SOC2Rule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "soc2", "soc 2")
}

func (r *SOC2Rule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())
	applyControls(res, "SOC2", []control{
		{"monitoring", 0.25, !hasSecurityMonitoring(design)},
		{"redundancy", 0.25, !redundancyAtLeast(design, models.RedundancyMedium, models.RedundancyHigh, models.RedundancyCritical)},
		{"authentication", 0.25, !hasAuthentication(design)},
		{"encryption", 0.25, !hasEncryption(design)},
	})
	return validation.FinishResult(res, start)
}

// ISO27001Rule ISO27001 控制项检查
type ISO27001Rule struct {
	validation.BaseRule
}

func NewISO27001Rule() *ISO27001Rule {
	return &ISO27001Rule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ISO27001Rule",
			Name:        "ISO27001 检查",
			Description: "信息安全管理体系控制项检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityWarning,
			Tags:        []string{"compliance", "iso27001"},
		}),
	}
}

func (r *ISO27001Rule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "iso27001", "iso 27001")
}

func (r *ISO27001Rule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())
	applyControls(res, "ISO27001", []control{
		{"firewall", 0.2, !hasFirewall(design)},
		{"authentication", 0.2, !hasAuthentication(design)},
		{"logging", 0.2, !hasLogging(design)},
		{"encryption", 0.2, !hasEncryption(design)},
		{"network_segmentation", 0.2, !isSegmented(design)},
	})
	return validation.FinishResult(res, start)
}

// GDPRRule GDPR 控制项检查
type GDPRRule struct {
	validation.BaseRule
}

func NewGDPRRule() *GDPRRule {
	return &GDPRRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "GDPRRule",
			Name:        "GDPR 检查",
			Description: "个人数据保护控制项检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityWarning,
			Tags:        []string{"compliance", "gdpr"},
		}),
	}
}

func (r *GDPRRule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "gdpr")
}

func (r *GDPRRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())
	applyControls(res, "GDPR", []control{
		{"encryption", 0.3, !hasEncryption(design)},
		{"authentication", 0.3, !hasAuthentication(design)},
		{"logging", 0.2, !hasLogging(design)},
		{"network_segmentation", 0.2, !isSegmented(design)},
	})
	return validation.FinishResult(res, start)
}

// NISTRule NIST CSF 控制项检查
type NISTRule struct {
	validation.BaseRule
}

func NewNISTRule() *NISTRule {
	return &NISTRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "NISTRule",
			Name:        "NIST CSF 检查",
			Description: "NIST 网络安全框架五项职能检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityWarning,
			Tags:        []string{"compliance", "nist"},
		}),
	}
}

func (r *NISTRule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "nist")
}

func (r *NISTRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())
	applyControls(res, "NIST CSF", []control{
		{"identify", 0.2, !hasSecurityMonitoring(design)},
		{"protect", 0.2, !hasFirewall(design)},
		{"detect", 0.2, !designMentions(design, "ids", "ips", "siem", "netflow")},
		{"respond", 0.2, !hasLogging(design)},
		{"recover", 0.2, !redundancyAtLeast(design, models.RedundancyMedium, models.RedundancyHigh, models.RedundancyCritical)},
	})
	return validation.FinishResult(res, start)
}

// FedRAMPRule FedRAMP 控制项检查
type FedRAMPRule struct {
	validation.BaseRule
}

func NewFedRAMPRule() *FedRAMPRule {
	return &FedRAMPRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "FedRAMPRule",
			Name:        "FedRAMP 检查",
			Description: "政务云安全授权控制项检查",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityError,
			Tags:        []string{"compliance", "fedramp"},
		}),
	}
}

func (r *FedRAMPRule) IsApplicable(design *models.NetworkDesign) bool {
	return requiresCompliance(design, "fedramp")
}

func (r *FedRAMPRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	fips := false
	for i := range design.Components {
		if specsContain(&design.Components[i], "fips") {
			fips = true
			break
		}
	}
	applyControls(res, "FedRAMP", []control{
		{"security_level", 0.3, securityRank(design.SecurityLevel) < 3},
		{"fips_validated_crypto", 0.3, !fips},
		{"monitoring", 0.2, !hasSecurityMonitoring(design)},
		{"redundancy", 0.2, !redundancyAtLeast(design, models.RedundancyHigh, models.RedundancyCritical)},
	})
	return validation.FinishResult(res, start)
}

// DataResidencyRule 数据驻留检查
type DataResidencyRule struct {
	validation.BaseRule
}

func NewDataResidencyRule() *DataResidencyRule {
	return &DataResidencyRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "DataResidencyRule",
			Name:        "数据驻留检查",
			Description: "有合规约束的多站点设计必须标明组件位置",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityWarning,
			Tags:        []string{"compliance"},
		}),
	}
}

func (r *DataResidencyRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if len(design.ComplianceRequirements) == 0 || design.Scale.Sites <= 1 {
		res.Message = "无数据驻留约束"
		return validation.FinishResult(res, start)
	}

	located := 0
	for i := range design.Components {
		if design.Components[i].Location != "" {
			located++
		}
	}
	if located == 0 {
		res.Passed = false
		res.Score = 0.6
		res.Message = "多站点合规场景下组件未标注位置,无法评估数据驻留"
		res.Recommendation = "为承载数据的组件标注所在站点/辖区"
	} else {
		res.Message = fmt.Sprintf("%d 个组件已标注位置", located)
	}
	return validation.FinishResult(res, start)
}

// AuditTrailRule 审计链路检查
type AuditTrailRule struct {
	validation.BaseRule
}

func NewAuditTrailRule() *AuditTrailRule {
	return &AuditTrailRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "AuditTrailRule",
			Name:        "审计链路检查",
			Description: "声明合规框架的设计必须具备日志审计能力",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityError,
			Tags:        []string{"compliance", "audit"},
		}),
	}
}

func (r *AuditTrailRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if len(design.ComplianceRequirements) == 0 {
		res.Message = "未声明合规框架,审计链路可选"
		return validation.FinishResult(res, start)
	}

	if hasLogging(design) {
		res.Message = "已具备日志审计能力"
	} else {
		res.Passed = false
		res.Score = 0.5
		res.Message = "声明了合规框架但缺少日志审计组件"
		res.Recommendation = "部署集中日志/审计平台,保留操作与流量日志"
	}
	return validation.FinishResult(res, start)
}

// ChangeManagementRule 变更管理检查
type ChangeManagementRule struct {
	validation.BaseRule
}

func NewChangeManagementRule() *ChangeManagementRule {
	return &ChangeManagementRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ChangeManagementRule",
			Name:        "变更管理检查",
			Description: "设计文档应具备版本演进记录",
			Category:    models.CategoryCompliance,
			Severity:    models.SeverityInfo,
			Tags:        []string{"compliance"},
		}),
	}
}

func (r *ChangeManagementRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if design.Version != "" && design.Version != "1.0" {
		res.Message = fmt.Sprintf("设计文档已有版本迭代: %s", design.Version)
	} else {
		res.Score = 0.9
		res.Message = "设计文档尚无版本演进记录"
		res.Recommendation = "建立设计文档版本管理流程"
	}
	return validation.FinishResult(res, start)
}
