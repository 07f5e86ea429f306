/*
 * @module service/validation/rules/protocol_rules
 * @description 协议类内置规则,覆盖连接类型、VLAN、路由协议与链路特性检查
 * @architecture 接口驱动 - 每条检查为独立规则类型
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则注册 -> 流水线执行
 * @rules VLAN 合法范围 1-4094,VLAN 1 的使用只标记不判失败
 * @dependencies netdesign-service/service/validation, github.com/spf13/cast
 * @refs service/validation/loader
 */

package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"netdesign-service/service/models"
	"netdesign-service/service/validation"
)

var validConnectionTypes = map[string]bool{
	"ethernet": true, "fiber": true, "copper": true, "wireless": true, "optical": true,
	"cat5": true, "cat5e": true, "cat6": true, "cat6a": true, "cat7": true,
	"sfp": true, "sfp+": true, "qsfp": true, "qsfp+": true, "qsfp28": true,
	"single-mode": true, "multi-mode": true, "coax": true,
}

// ValidConnectionTypesRule 连接类型合法性检查
type ValidConnectionTypesRule struct {
	validation.BaseRule
}

func NewValidConnectionTypesRule() *ValidConnectionTypesRule {
	return &ValidConnectionTypesRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "ValidConnectionTypesRule",
			Name:        "连接类型检查",
			Description: "连接类型应属于受支持的介质类型集合",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityWarning,
			Tags:        []string{"protocol"},
		}),
	}
}

func (r *ValidConnectionTypesRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	var invalid []string
	for _, conn := range design.Connections {
		if !validConnectionTypes[strings.ToLower(strings.TrimSpace(conn.ConnectionType))] {
			invalid = append(invalid, fmt.Sprintf("%s(%s)", conn.ConnectionID, conn.ConnectionType))
		}
	}

	if len(invalid) > 0 {
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("发现 %d 条非法连接类型", len(invalid))
		res.Details = map[string]interface{}{"invalid": invalid}
		res.Recommendation = "使用受支持的介质类型,如 ethernet、fiber、sfp+"
	} else {
		res.Message = "所有连接类型合法"
	}
	return validation.FinishResult(res, start)
}

// BandwidthConsistencyRule 连接带宽格式检查
type BandwidthConsistencyRule struct {
	validation.BaseRule
}

func NewBandwidthConsistencyRule() *BandwidthConsistencyRule {
	return &BandwidthConsistencyRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "BandwidthConsistencyRule",
			Name:        "带宽格式检查",
			Description: "连接带宽声明应符合统一格式",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityWarning,
			Tags:        []string{"protocol", "bandwidth"},
		}),
	}
}

func (r *BandwidthConsistencyRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	var malformed []string
	for _, conn := range design.Connections {
		if conn.Bandwidth != "" && !validBandwidthFormat(conn.Bandwidth) {
			malformed = append(malformed, fmt.Sprintf("%s(%s)", conn.ConnectionID, conn.Bandwidth))
		}
	}

	if len(malformed) > 0 {
		res.Passed = false
		res.Score = 0.8
		res.Message = fmt.Sprintf("发现 %d 条带宽格式异常的连接", len(malformed))
		res.Details = map[string]interface{}{"malformed": malformed}
		res.Recommendation = "带宽统一为 <数值><单位> 格式,如 10Gbps"
	} else {
		res.Message = "连接带宽格式统一"
	}
	return validation.FinishResult(res, start)
}

// VLANConfigurationRule VLAN 配置检查
type VLANConfigurationRule struct {
	validation.BaseRule
}

func NewVLANConfigurationRule() *VLANConfigurationRule {
	return &VLANConfigurationRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "VLANConfigurationRule",
			Name:        "VLAN 配置检查",
			Description: "VLAN 编号应处于 1-4094,默认 VLAN 1 的使用会被标记",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityWarning,
			Tags:        []string{"protocol", "vlan"},
		}),
	}
}

func (r *VLANConfigurationRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	var invalid, defaulted []string
	for _, conn := range design.Connections {
		if conn.VLAN == nil {
			continue
		}
		switch v := *conn.VLAN; {
		case v < 1 || v > 4094:
			invalid = append(invalid, fmt.Sprintf("%s(VLAN %d)", conn.ConnectionID, v))
		case v == 1:
			defaulted = append(defaulted, conn.ConnectionID)
		}
	}

	res.Details = map[string]interface{}{"invalid": invalid, "default_vlan_usage": defaulted}
	if len(invalid) > 0 {
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("发现 %d 条非法 VLAN 配置", len(invalid))
		res.Recommendation = "VLAN 编号限定在 1-4094 范围内"
	} else if len(defaulted) > 0 {
		res.Score = 0.9
		res.Message = fmt.Sprintf("有 %d 条连接使用默认 VLAN 1", len(defaulted))
		res.Recommendation = "业务流量避免使用默认 VLAN 1"
	} else {
		res.Message = "VLAN 配置合法"
	}
	return validation.FinishResult(res, start)
}

// RoutingProtocolRule 路由协议检查
type RoutingProtocolRule struct {
	validation.BaseRule
}

func NewRoutingProtocolRule() *RoutingProtocolRule {
	return &RoutingProtocolRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "RoutingProtocolRule",
			Name:        "路由协议检查",
			Description: "存在路由设备时应声明动态路由协议",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityWarning,
			Tags:        []string{"protocol", "routing"},
		}),
	}
}

func (r *RoutingProtocolRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if len(componentsMatching(design, "router", "l3", "layer3", "layer 3")) == 0 {
		res.Message = "未发现路由设备,跳过路由协议检查"
		return validation.FinishResult(res, start)
	}

	routingProtocols := []string{"ospf", "bgp", "eigrp", "rip", "isis", "is-is"}
	found := make(map[string]bool)
	for _, conn := range design.Connections {
		for _, p := range routingProtocols {
			if conn.Protocol != "" && containsAny(conn.Protocol, p) {
				found[p] = true
			}
		}
	}

	res.Details = map[string]interface{}{"protocols": len(found)}
	switch {
	case len(found) == 0:
		res.Passed = false
		res.Score = 0.6
		res.Message = "存在路由设备但未声明任何动态路由协议"
		res.Recommendation = "在三层互联链路上声明 OSPF 或 BGP 等路由协议"
	case len(found) > 2:
		res.Score = 0.8
		res.Message = fmt.Sprintf("同时使用 %d 种路由协议,运维复杂度高", len(found))
		res.Recommendation = "收敛路由协议种类,降低运维复杂度"
	default:
		res.Message = "路由协议配置合理"
	}
	return validation.FinishResult(res, start)
}

// InterfaceNamingRule 接口命名完整性检查
type InterfaceNamingRule struct {
	validation.BaseRule
}

func NewInterfaceNamingRule() *InterfaceNamingRule {
	return &InterfaceNamingRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "InterfaceNamingRule",
			Name:        "接口命名检查",
			Description: "连接两端都应声明接口名",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityWarning,
			Tags:        []string{"protocol"},
		}),
	}
}

func (r *InterfaceNamingRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	var missing []string
	for _, conn := range design.Connections {
		if conn.SourceInterface == "" || conn.TargetInterface == "" {
			missing = append(missing, conn.ConnectionID)
		}
	}

	if len(missing) > 0 {
		res.Passed = false
		res.Score = 0.7
		res.Message = fmt.Sprintf("有 %d 条连接缺少接口声明", len(missing))
		res.Details = map[string]interface{}{"missing": missing}
		res.Recommendation = "为连接两端补充接口名,便于实施与排障"
	} else {
		res.Message = "连接接口声明完整"
	}
	return validation.FinishResult(res, start)
}

// QoSConfigurationRule QoS 配置检查
type QoSConfigurationRule struct {
	validation.BaseRule
}

func NewQoSConfigurationRule() *QoSConfigurationRule {
	return &QoSConfigurationRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "QoSConfigurationRule",
			Name:        "QoS 配置检查",
			Description: "大规模或数据中心/运营商网络应配置 QoS",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityWarning,
			Tags:        []string{"protocol", "qos"},
		}),
	}
}

func (r *QoSConfigurationRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	required := design.Scale.Users > 1000 ||
		design.NetworkType == models.NetworkTypeEnterpriseDatacenter ||
		design.NetworkType == models.NetworkTypeServiceProvider
	hasQoS := designMentions(design, "qos", "cos", "dscp", "priority")

	switch {
	case hasQoS:
		res.Message = "已声明 QoS 配置"
	case required:
		res.Passed = false
		res.Score = 0.7
		res.Message = "网络规模或类型要求 QoS,但设计未声明"
		res.Recommendation = "为语音、视频等关键业务配置 QoS 策略"
	default:
		res.Message = "当前规模不强制要求 QoS"
	}
	return validation.FinishResult(res, start)
}

// MulticastSupportRule 组播支持检查
type MulticastSupportRule struct {
	validation.BaseRule
}

func NewMulticastSupportRule() *MulticastSupportRule {
	return &MulticastSupportRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "MulticastSupportRule",
			Name:        "组播支持检查",
			Description: "数据中心与园区网络建议声明组播协议",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityInfo,
			Tags:        []string{"protocol", "multicast"},
		}),
	}
}

func (r *MulticastSupportRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	relevant := design.NetworkType == models.NetworkTypeEnterpriseDatacenter ||
		design.NetworkType == models.NetworkTypeCampus ||
		design.NetworkType == models.NetworkTypeSDNCampus
	if !relevant {
		res.Message = "网络类型不涉及组播场景"
		return validation.FinishResult(res, start)
	}

	if designMentions(design, "igmp", "pim", "multicast") {
		res.Message = "已声明组播协议支持"
	} else {
		res.Score = 0.9
		res.Message = "未声明组播协议"
		res.Recommendation = "若有视频或批量分发业务,启用 IGMP/PIM"
	}
	return validation.FinishResult(res, start)
}

// IPv6SupportRule IPv6 支持检查
type IPv6SupportRule struct {
	validation.BaseRule
}

func NewIPv6SupportRule() *IPv6SupportRule {
	return &IPv6SupportRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "IPv6SupportRule",
			Name:        "IPv6 支持检查",
			Description: "设计应考虑 IPv6 演进能力",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityInfo,
			Tags:        []string{"protocol", "ipv6"},
		}),
	}
}

func (r *IPv6SupportRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if designMentions(design, "ipv6", "dual-stack", "dual stack") {
		res.Message = "设计已包含 IPv6 能力"
	} else {
		res.Score = 0.8
		res.Message = "设计未提及 IPv6"
		res.Recommendation = "评估双栈部署,预留 IPv6 演进能力"
	}
	return validation.FinishResult(res, start)
}

// LinkAggregationRule 链路聚合检查
type LinkAggregationRule struct {
	validation.BaseRule
}

func NewLinkAggregationRule() *LinkAggregationRule {
	return &LinkAggregationRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "LinkAggregationRule",
			Name:        "链路聚合检查",
			Description: "高速链路建议配置链路聚合提升可用性",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityInfo,
			Tags:        []string{"protocol"},
		}),
	}
}

func (r *LinkAggregationRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	if designMentions(design, "lacp", "lag", "etherchannel", "port-channel", "port channel") {
		res.Message = "已声明链路聚合"
		return validation.FinishResult(res, start)
	}

	highSpeed := false
	for _, conn := range design.Connections {
		if mbps, ok := parseBandwidthMbps(conn.Bandwidth); ok && mbps >= 10000 {
			highSpeed = true
			break
		}
	}
	if highSpeed {
		res.Score = 0.9
		res.Message = "存在 10G 及以上链路但未声明链路聚合"
		res.Recommendation = "对高速上联配置 LACP 聚合"
	} else {
		res.Message = "无高速链路,链路聚合非必需"
	}
	return validation.FinishResult(res, start)
}

// JumboFramesRule 巨型帧配置检查
type JumboFramesRule struct {
	validation.BaseRule
}

func NewJumboFramesRule() *JumboFramesRule {
	return &JumboFramesRule{
		BaseRule: validation.NewBaseRule(validation.Metadata{
			ID:          "JumboFramesRule",
			Name:        "巨型帧检查",
			Description: "数据中心与存储网络建议启用巨型帧",
			Category:    models.CategoryProtocol,
			Severity:    models.SeverityInfo,
			Tags:        []string{"protocol", "datacenter"},
		}),
	}
}

func (r *JumboFramesRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := validation.NewResult(r.Metadata())

	relevant := design.NetworkType == models.NetworkTypeEnterpriseDatacenter ||
		len(componentsMatching(design, "storage", "san", "nas")) > 0
	if !relevant {
		for _, conn := range design.Connections {
			if mbps, ok := parseBandwidthMbps(conn.Bandwidth); ok && mbps >= 10000 {
				relevant = true
				break
			}
		}
	}
	if !relevant {
		res.Message = "场景不涉及巨型帧优化"
		return validation.FinishResult(res, start)
	}

	hasJumbo := designMentions(design, "jumbo", "mtu")
	if !hasJumbo {
		// 规格里直接给出数值型 MTU 的情况
		for i := range design.Components {
			for k, v := range design.Components[i].Specifications {
				if containsAny(k, "mtu") && cast.ToInt(v) >= 9000 {
					hasJumbo = true
				}
			}
		}
	}

	if hasJumbo {
		res.Message = "已声明巨型帧/MTU 配置"
	} else {
		res.Score = 0.9
		res.Message = "建议为存储与东西向流量启用巨型帧"
		res.Recommendation = "在存储与虚拟化网络启用 MTU 9000"
	}
	return validation.FinishResult(res, start)
}
