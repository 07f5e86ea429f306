/*
 * @module service/validation/rules/security_rules
 * @description 安全类内置规则,覆盖防火墙、分段、加密、认证与监控检查
 * @architecture 接口驱动 - 每条检查为独立规则类型
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 流水线执行
 * @rules 企业级及以上缺失防火墙为 critical 级失败
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

// FirewallPresenceRule 防火墙存在性检查
type FirewallPresenceRule struct {
	validation.BaseRule
}

func NewFirewallPresenceRule() *FirewallPresenceRule {
	return &FirewallPresenceRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "FirewallPresenceRule",
			Name:        "防火墙检查",
			Description: "企业级及以上安全级别必须部署防火墙",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityCritical,
			Tags:        []string{"security", "firewall"},
		}),
	}
}

func (r *FirewallPresenceRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := securityRank(design.SecurityLevel) >= 2
	firewalls := componentsMatching(design, "firewall", "fw")

	switch {
	case len(firewalls) > 0:
		res.Message = fmt.Sprintf("已部署防火墙: %d 处", len(firewalls))
	case required:
		res.Passed = false
		res.Score = 0
		res.Severity = models.SeverityCritical
		res.Message = fmt.Sprintf("安全级别 %s 要求防火墙,但设计中未部署", design.SecurityLevel)
		res.Recommendation = "在网络边界部署防火墙"
	default:
		res.Score = 0.8
		res.Severity = models.SeverityInfo
		res.Message = "未部署防火墙,当前安全级别可接受"
		res.Recommendation = "建议在边界部署基础防火墙"
	}
	return validation.FinishResult(res, start)
}

// RedundantFirewallsRule 防火墙冗余检查
type RedundantFirewallsRule struct {
	validation.BaseRule
}

func NewRedundantFirewallsRule() *RedundantFirewallsRule {
	return &RedundantFirewallsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "RedundantFirewallsRule",
			Name:        "防火墙冗余检查",
			Description: "政务与关键基础设施网络的防火墙应至少两台",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security", "firewall", "redundancy"},
		}),
	}
}

func (r *RedundantFirewallsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if securityRank(design.SecurityLevel) < 3 {
		res.Severity = models.SeverityInfo
		res.Message = fmt.Sprintf("安全级别 %s 不强制要求防火墙冗余", design.SecurityLevel)
		return validation.FinishResult(res, start)
	}

	count := quantityMatching(design, "firewall", "fw")
	res.Details = map[string]interface{}{"firewalls": count}
	if count >= 2 {
		res.Message = fmt.Sprintf("防火墙 %d 台,满足冗余要求", count)
	} else {
		res.Passed = false
		res.Score = 0.5
		res.Message = fmt.Sprintf("防火墙仅 %d 台,不满足冗余要求", count)
		res.Recommendation = "部署双机防火墙并配置主备或双活"
	}
	return validation.FinishResult(res, start)
}

// IDSIPSPresenceRule 入侵检测/防御检查
type IDSIPSPresenceRule struct {
	validation.BaseRule
}

func NewIDSIPSPresenceRule() *IDSIPSPresenceRule {
	return &IDSIPSPresenceRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "IDSIPSPresenceRule",
			Name:        "入侵检测检查",
			Description: "企业级及以上安全级别应部署 IDS/IPS",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security"},
		}),
	}
}

func (r *IDSIPSPresenceRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := securityRank(design.SecurityLevel) >= 2
	present := designMentions(design, "ids", "ips", "intrusion")

	switch {
	case present:
		res.Message = "已部署入侵检测/防御能力"
	case required:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("安全级别 %s 要求 IDS/IPS,但设计中缺失", design.SecurityLevel)
		res.Recommendation = "在关键边界旁挂 IDS 或串接 IPS"
	default:
		res.Severity = models.SeverityInfo
		res.Message = "当前安全级别不强制要求 IDS/IPS"
	}
	return validation.FinishResult(res, start)
}

// NetworkSegmentationRule 网络分段检查
type NetworkSegmentationRule struct {
	validation.BaseRule
}

func NewNetworkSegmentationRule() *NetworkSegmentationRule {
	return &NetworkSegmentationRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "NetworkSegmentationRule",
			Name:        "网络分段检查",
			Description: "非基础安全级别的设计应通过 VLAN 或安全分区实现分段",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security", "segmentation"},
		}),
	}
}

func (r *NetworkSegmentationRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if securityRank(design.SecurityLevel) < 1 {
		res.Severity = models.SeverityInfo
		res.Message = "基础安全级别不强制要求网络分段"
		return validation.FinishResult(res, start)
	}

	if isSegmented(design) {
		res.Message = "设计已实现网络分段"
	} else {
		res.Passed = false
		res.Score = 0.6
		res.Message = "未发现 VLAN 划分或安全分区"
		res.Recommendation = "按业务划分 VLAN,或通过 DMZ/内外区隔离"
	}
	return validation.FinishResult(res, start)
}

// EncryptionRule 传输加密检查
type EncryptionRule struct {
	validation.BaseRule
}

func NewEncryptionRule() *EncryptionRule {
	return &EncryptionRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "EncryptionRule",
			Name:        "传输加密检查",
			Description: "政务与关键基础设施网络必须具备传输加密能力",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security", "encryption"},
		}),
	}
}

func hasEncryption(design *models.NetworkDesign) bool {
	return designMentions(design, "ipsec", "vpn", "tls", "ssl", "macsec", "encryption", "encrypted")
}

func (r *EncryptionRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := securityRank(design.SecurityLevel) >= 3
	switch {
	case hasEncryption(design):
		res.Message = "已声明传输加密能力"
	case required:
		res.Passed = false
		res.Score = 0.5
		res.Message = fmt.Sprintf("安全级别 %s 要求传输加密,但设计中缺失", design.SecurityLevel)
		res.Recommendation = "对跨域链路启用 IPsec 或 MACsec"
	default:
		res.Score = 0.9
		res.Severity = models.SeverityInfo
		res.Message = "未声明传输加密"
		res.Recommendation = "建议对敏感业务链路启用加密"
	}
	return validation.FinishResult(res, start)
}

// AuthenticationRule 接入认证检查
type AuthenticationRule struct {
	validation.BaseRule
}

func NewAuthenticationRule() *AuthenticationRule {
	return &AuthenticationRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "AuthenticationRule",
			Name:        "接入认证检查",
			Description: "企业级及以上安全级别应具备集中认证能力",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security", "authentication"},
		}),
	}
}

func hasAuthentication(design *models.NetworkDesign) bool {
	return designMentions(design, "aaa", "radius", "tacacs", "ldap", "authentication", "802.1x")
}

func (r *AuthenticationRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := securityRank(design.SecurityLevel) >= 2
	switch {
	case hasAuthentication(design):
		res.Message = "已声明集中认证能力"
	case required:
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("安全级别 %s 要求集中认证,但设计中缺失", design.SecurityLevel)
		res.Recommendation = "部署 RADIUS/TACACS+ 并启用 802.1X 接入认证"
	default:
		res.Severity = models.SeverityInfo
		res.Message = "当前安全级别不强制要求集中认证"
	}
	return validation.FinishResult(res, start)
}

// DMZConfigurationRule DMZ 配置检查
type DMZConfigurationRule struct {
	validation.BaseRule
}

func NewDMZConfigurationRule() *DMZConfigurationRule {
	return &DMZConfigurationRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "DMZConfigurationRule",
			Name:        "DMZ 配置检查",
			Description: "数据中心与运营商网络应规划 DMZ 区域",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"security", "segmentation"},
		}),
	}
}

func (r *DMZConfigurationRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	relevant := design.NetworkType == models.NetworkTypeEnterpriseDatacenter ||
		design.NetworkType == models.NetworkTypeServiceProvider
	if !relevant {
		res.Severity = models.SeverityInfo
		res.Message = "网络类型不强制要求 DMZ"
		return validation.FinishResult(res, start)
	}

	hasDMZ := false
	for i := range design.Components {
		c := &design.Components[i]
		if containsAny(c.Location, "dmz") || containsAny(c.Name, "dmz") {
			hasDMZ = true
			break
		}
	}

	if hasDMZ {
		res.Message = "已规划 DMZ 区域"
	} else {
		res.Passed = false
		res.Score = 0.7
		res.Message = "对外服务场景缺少 DMZ 区域"
		res.Recommendation = "将对外发布的服务置于独立 DMZ 区域"
	}
	return validation.FinishResult(res, start)
}

// AccessControlListsRule 访问控制列表检查
type AccessControlListsRule struct {
	validation.BaseRule
}

func NewAccessControlListsRule() *AccessControlListsRule {
	return &AccessControlListsRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "AccessControlListsRule",
			Name:        "访问控制检查",
			Description: "设计应声明访问控制策略",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityInfo,
			Tags:        []string{"security"},
		}),
	}
}

func (r *AccessControlListsRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if designMentions(design, "acl", "access-list", "access control") {
		res.Message = "已声明访问控制策略"
	} else if securityRank(design.SecurityLevel) >= 1 {
		res.Score = 0.9
		res.Message = "未声明访问控制策略"
		res.Recommendation = "在分段边界配置 ACL 限制跨段访问"
	} else {
		res.Message = "基础安全级别,访问控制策略可选"
	}
	return validation.FinishResult(res, start)
}

// AntiDDoSRule 抗 DDoS 能力检查
type AntiDDoSRule struct {
	validation.BaseRule
}

func NewAntiDDoSRule() *AntiDDoSRule {
	return &AntiDDoSRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "AntiDDoSRule",
			Name:        "抗DDoS检查",
			Description: "运营商与云服务网络应具备 DDoS 防护能力",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security"},
		}),
	}
}

func (r *AntiDDoSRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	relevant := design.NetworkType == models.NetworkTypeServiceProvider ||
		design.NetworkType == models.NetworkTypeCloudProvider
	if !relevant {
		res.Severity = models.SeverityInfo
		res.Message = "网络类型不强制要求 DDoS 防护"
		return validation.FinishResult(res, start)
	}

	if designMentions(design, "ddos", "anti-ddos", "mitigation", "scrubbing") {
		res.Message = "已具备 DDoS 防护能力"
	} else {
		res.Passed = false
		res.Score = 0.6
		res.Message = "面向公网的网络缺少 DDoS 防护"
		res.Recommendation = "部署流量清洗或接入上游抗D服务"
	}
	return validation.FinishResult(res, start)
}

// SecurityMonitoringRule 安全监控检查
type SecurityMonitoringRule struct {
	validation.BaseRule
}

func NewSecurityMonitoringRule() *SecurityMonitoringRule {
	return &SecurityMonitoringRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "SecurityMonitoringRule",
			Name:        "安全监控检查",
			Description: "企业级及以上安全级别应具备日志与安全监控能力",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityError,
			Tags:        []string{"security", "monitoring"},
		}),
	}
}

func hasSecurityMonitoring(design *models.NetworkDesign) bool {
	return designMentions(design, "siem", "log", "monitor", "syslog", "netflow")
}

func (r *SecurityMonitoringRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := securityRank(design.SecurityLevel) >= 2
	switch {
	case hasSecurityMonitoring(design):
		res.Message = "已具备安全监控能力"
	case required:
		res.Passed = false
		res.Score = 0.6
		res.Message = fmt.Sprintf("安全级别 %s 要求安全监控,但设计中缺失", design.SecurityLevel)
		res.Recommendation = "部署集中日志与 SIEM 平台"
	default:
		res.Severity = models.SeverityInfo
		res.Message = "当前安全级别不强制要求安全监控"
	}
	return validation.FinishResult(res, start)
}

// ZeroTrustPrinciplesRule 零信任原则符合度检查
type ZeroTrustPrinciplesRule struct {
	validation.BaseRule
}

func NewZeroTrustPrinciplesRule() *ZeroTrustPrinciplesRule {
	return &ZeroTrustPrinciplesRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ZeroTrustPrinciplesRule",
			Name:        "零信任符合度检查",
			Description: "政务与关键基础设施网络按零信任四项要点评分",
			Category:    models.CategorySecurity,
			Severity:    models.SeverityWarning,
			Tags:        []string{"security", "zero-trust"},
		}),
	}
}

func (r *ZeroTrustPrinciplesRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if securityRank(design.SecurityLevel) < 3 {
		res.Severity = models.SeverityInfo
		res.Message = fmt.Sprintf("安全级别 %s 不适用零信任评估", design.SecurityLevel)
		return validation.FinishResult(res, start)
	}

	checks := map[string]bool{
		"micro_segmentation": distinctVLANCount(design) > 2,
		"authentication":     hasAuthentication(design),
		"encryption":         designMentions(design, "ipsec", "vpn"),
		"monitoring":         designMentions(design, "siem", "log"),
	}
	passed := 0
	var missing []string
	for name, ok := range checks {
		if ok {
			passed++
		} else {
			missing = append(missing, name)
		}
	}

	res.Score = float64(passed) / float64(len(checks))
	res.Passed = res.Score >= 0.75
	res.Details = map[string]interface{}{"checks": checks}
	if res.Passed {
		res.Message = fmt.Sprintf("零信任要点满足 %d/%d", passed, len(checks))
	} else {
		res.Message = fmt.Sprintf("零信任要点仅满足 %d/%d", passed, len(checks))
		res.Recommendation = fmt.Sprintf("补齐缺失要点: %v", missing)
	}
	return validation.FinishResult(res, start)
}
