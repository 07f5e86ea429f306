/*
 * @module service/validation/rules/loader
 * @description 内置规则装载器,将全部内置规则注册到给定注册表
 * @architecture 依赖注入 - 装载器不持有注册表,由调用方传入
 * @documentReference dev_docs/requirements.md
 * @stateFlow 服务启动 -> 注册表构造 -> 内置规则装载
 * @rules 容量10条、拓扑11条、协议10条、安全11条、合规11条,共53条
 * @dependencies netdesign-service/service/validation
 * @refs service/init
 */

package rules

import (
	"netdesign-service/service/models"
	"netdesign-service/service/validation"
)

// CapacityRules 全部容量类规则
func CapacityRules() []validation.Rule {
	return []validation.Rule{
		NewMinimumComponentsRule(),
		NewMinimumConnectionsRule(),
		NewBandwidthCapacityRule(),
		NewScaleRequirementsRule(),
		NewComponentQuantityRule(),
		NewDeviceToComponentRatioRule(),
		NewConnectionDensityRule(),
		NewRedundantComponentsRule(),
		NewSiteDistributionRule(),
		NewOversubscriptionRule(),
	}
}

// TopologyRules 全部拓扑类规则
func TopologyRules() []validation.Rule {
	return []validation.Rule{
		NewNoSinglePointOfFailureRule(),
		NewRedundantPathsRule(),
		NewTopologyLayersRule(),
		NewConnectedComponentsRule(),
		NewLoopPreventionRule(),
		NewCoreRedundancyRule(),
		NewSpineLeafRatioRule(),
		NewMeshFullConnectivityRule(),
		NewHierarchicalStructureRule(),
		NewSymmetricDesignRule(),
		NewEastWestTrafficRule(),
	}
}

// ProtocolRules 全部协议类规则
func ProtocolRules() []validation.Rule {
	return []validation.Rule{
		NewValidConnectionTypesRule(),
		NewBandwidthConsistencyRule(),
		NewVLANConfigurationRule(),
		NewRoutingProtocolRule(),
		NewInterfaceNamingRule(),
		NewQoSConfigurationRule(),
		NewMulticastSupportRule(),
		NewIPv6SupportRule(),
		NewLinkAggregationRule(),
		NewJumboFramesRule(),
	}
}

// SecurityRules 全部安全类规则
func SecurityRules() []validation.Rule {
	return []validation.Rule{
		NewFirewallPresenceRule(),
		NewRedundantFirewallsRule(),
		NewIDSIPSPresenceRule(),
		NewNetworkSegmentationRule(),
		NewEncryptionRule(),
		NewAuthenticationRule(),
		NewDMZConfigurationRule(),
		NewAccessControlListsRule(),
		NewAntiDDoSRule(),
		NewSecurityMonitoringRule(),
		NewZeroTrustPrinciplesRule(),
	}
}

// ComplianceRules 全部合规类规则
func ComplianceRules() []validation.Rule {
	return []validation.Rule{
		NewComplianceRequirementsRule(),
		NewPCIDSSRule(),
		NewHIPAARule(),
		NewSOC2Rule(),
		NewISO27001Rule(),
		NewGDPRRule(),
		NewNISTRule(),
		NewFedRAMPRule(),
		NewDataResidencyRule(),
		NewAuditTrailRule(),
		NewChangeManagementRule(),
	}
}

// RegisterBuiltins 将全部内置规则注册到注册表
func RegisterBuiltins(registry *validation.Registry) {
	for _, group := range [][]validation.Rule{
		CapacityRules(),
		TopologyRules(),
		ProtocolRules(),
		SecurityRules(),
		ComplianceRules(),
	} {
		for _, rule := range group {
			registry.Register(rule)
		}
	}
}

// RegisterCategory 仅注册指定类别的内置规则,返回注册数量
func RegisterCategory(registry *validation.Registry, category models.RuleCategory) int {
	var group []validation.Rule
	switch category {
	case models.CategoryCapacity:
		group = CapacityRules()
	case models.CategoryTopology:
		group = TopologyRules()
	case models.CategoryProtocol:
		group = ProtocolRules()
	case models.CategorySecurity:
		group = SecurityRules()
	case models.CategoryCompliance:
		group = ComplianceRules()
	}
	for _, rule := range group {
		registry.Register(rule)
	}
	return len(group)
}
