/*
 * @module service/models/network_design
 * @description 网络设计文档模型,验证引擎的输入数据结构
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 设计提交 -> 验证 -> 结果持久化
 * @rules 枚举值与验证规则保持一致,未知枚举值由验证规则按宽松方式处理
 * @dependencies encoding/json
 * @refs service/validation
 */

package models

// NetworkType 网络类型
type NetworkType string

const (
	NetworkTypeEnterpriseDatacenter    NetworkType = "enterprise_datacenter"
	NetworkTypeSDNCampus               NetworkType = "sdn_campus"
	NetworkTypeLegacyCampus            NetworkType = "legacy_campus"
	NetworkTypeHybrid                  NetworkType = "hybrid"
	NetworkTypeCloudNative             NetworkType = "cloud_native"
	NetworkTypeWAN                     NetworkType = "wan"
	NetworkTypeDataCenterInterconnect  NetworkType = "data_center_interconnect"
	NetworkTypeServiceProvider         NetworkType = "service_provider"
	NetworkTypeCloudProvider           NetworkType = "cloud_provider"
	NetworkTypeCampus                  NetworkType = "campus"
)

// TopologyType 拓扑类型
type TopologyType string

const (
	TopologySpineLeaf     TopologyType = "spine_leaf"
	TopologyThreeTier     TopologyType = "three_tier"
	TopologyCollapsedCore TopologyType = "collapsed_core"
	TopologyMesh          TopologyType = "mesh"
	TopologyStar          TopologyType = "star"
	TopologyRing          TopologyType = "ring"
	TopologyHybrid        TopologyType = "hybrid"
)

// RedundancyLevel 冗余级别
type RedundancyLevel string

const (
	RedundancyNone     RedundancyLevel = "none"
	RedundancyLow      RedundancyLevel = "low"
	RedundancyMedium   RedundancyLevel = "medium"
	RedundancyHigh     RedundancyLevel = "high"
	RedundancyCritical RedundancyLevel = "critical"
)

// SecurityLevel 安全级别
type SecurityLevel string

const (
	SecurityBasic                  SecurityLevel = "basic"
	SecurityCorporate              SecurityLevel = "corporate"
	SecurityEnterprise             SecurityLevel = "enterprise"
	SecurityGovernment             SecurityLevel = "government"
	SecurityCriticalInfrastructure SecurityLevel = "critical_infrastructure"
)

// BandwidthRequirement 带宽需求,字符串形式带单位,如 "10Gbps"
type BandwidthRequirement struct {
	Minimum string `json:"minimum"`
	Maximum string `json:"maximum"`
	Average string `json:"average,omitempty"`
}

// ScaleRequirement 规模需求
type ScaleRequirement struct {
	Devices int `json:"devices"`
	Users   int `json:"users"`
	Sites   int `json:"sites"`
	VLANs   int `json:"vlans,omitempty"`
	Subnets int `json:"subnets,omitempty"`
}

// ComponentSpecification 网络组件规格
type ComponentSpecification struct {
	ComponentID     string                 `json:"component_id"`
	ComponentType   string                 `json:"component_type"`
	Name            string                 `json:"name"`
	Model           string                 `json:"model,omitempty"`
	Vendor          string                 `json:"vendor,omitempty"`
	Quantity        int                    `json:"quantity"`
	Specifications  map[string]interface{} `json:"specifications,omitempty"`
	Configuration   map[string]interface{} `json:"configuration,omitempty"`
	Location        string                 `json:"location,omitempty"`
	RedundancyGroup string                 `json:"redundancy_group,omitempty"`
}

// Connection 组件间连接
type Connection struct {
	ConnectionID    string `json:"connection_id"`
	SourceComponent string `json:"source_component"`
	SourceInterface string `json:"source_interface,omitempty"`
	TargetComponent string `json:"target_component"`
	TargetInterface string `json:"target_interface,omitempty"`
	ConnectionType  string `json:"connection_type"`
	Bandwidth       string `json:"bandwidth,omitempty"`
	Protocol        string `json:"protocol,omitempty"`
	VLAN            *int   `json:"vlan,omitempty"`
}

// TopologyDetails 拓扑信息
type TopologyDetails struct {
	TopologyType             TopologyType    `json:"topology_type"`
	Layers                   int             `json:"layers"`
	RedundancyLevel          RedundancyLevel `json:"redundancy_level"`
	HasSinglePointOfFailure  bool            `json:"has_single_point_of_failure"`
	RedundantPaths           int             `json:"redundant_paths"`
	Description              string          `json:"description,omitempty"`
}

// NetworkDesign 完整的网络设计文档
type NetworkDesign struct {
	DesignID               string                   `json:"design_id"`
	DesignName             string                   `json:"design_name"`
	NetworkType            NetworkType              `json:"network_type"`
	SecurityLevel          SecurityLevel            `json:"security_level"`
	Bandwidth              BandwidthRequirement     `json:"bandwidth"`
	Scale                  ScaleRequirement         `json:"scale"`
	Components             []ComponentSpecification `json:"components"`
	Connections            []Connection             `json:"connections"`
	Topology               TopologyDetails          `json:"topology"`
	DesignRationale        string                   `json:"design_rationale,omitempty"`
	KeyFeatures            []string                 `json:"key_features,omitempty"`
	ComplianceRequirements []string                 `json:"compliance_requirements,omitempty"`
	Version                string                   `json:"version,omitempty"`
}

// ComponentByName 按名称查找组件,名称与组件ID均可命中
func (d *NetworkDesign) ComponentByName(name string) *ComponentSpecification {
	for i := range d.Components {
		if d.Components[i].Name == name || d.Components[i].ComponentID == name {
			return &d.Components[i]
		}
	}
	return nil
}

// TotalQuantity 所有组件数量之和,quantity 非法时按 1 计
func (d *NetworkDesign) TotalQuantity() int {
	total := 0
	for _, c := range d.Components {
		if c.Quantity > 0 {
			total += c.Quantity
		} else {
			total++
		}
	}
	return total
}
