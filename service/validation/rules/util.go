/*
 * @module service/validation/rules/util
 * @description 内置规则共用的解析与匹配工具
 * @architecture 工具函数集合
 * @documentReference dev_docs/requirements.md
 * @stateFlow 无状态
 * @rules 所有文本匹配统一小写,带宽统一换算为 Mbps
 * @dependencies github.com/spf13/cast
 * @refs service/validation/rules
 */

package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"netdesign-service/service/models"
)

var (
	bandwidthValuePattern  = regexp.MustCompile(`([\d.]+)\s*([KMGT]?BPS)`)
	bandwidthFormatPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*[KMGT]?BPS$`)
)

// 单位换算到 Mbps
var bandwidthMultipliers = map[string]float64{
	"BPS":  1e-6,
	"KBPS": 1e-3,
	"MBPS": 1,
	"GBPS": 1e3,
	"TBPS": 1e6,
}

// parseBandwidthMbps 解析带单位的带宽字符串,返回 Mbps
func parseBandwidthMbps(s string) (float64, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	m := bandwidthValuePattern.FindStringSubmatch(normalized)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	multiplier, ok := bandwidthMultipliers[m[2]]
	if !ok {
		return 0, false
	}
	return value * multiplier, true
}

// validBandwidthFormat 判断带宽字符串格式是否规范,如 "10Gbps"
func validBandwidthFormat(s string) bool {
	return bandwidthFormatPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// containsAny 判断 s 小写后是否包含任一关键字
func containsAny(s string, keywords ...string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// componentMatches 判断组件类型或名称是否命中任一关键字
func componentMatches(c *models.ComponentSpecification, keywords ...string) bool {
	return containsAny(c.ComponentType, keywords...) || containsAny(c.Name, keywords...)
}

// componentsMatching 返回命中关键字的组件名称列表
func componentsMatching(design *models.NetworkDesign, keywords ...string) []string {
	var names []string
	for i := range design.Components {
		if componentMatches(&design.Components[i], keywords...) {
			names = append(names, design.Components[i].Name)
		}
	}
	return names
}

// quantityMatching 命中关键字的组件数量之和
func quantityMatching(design *models.NetworkDesign, keywords ...string) int {
	total := 0
	for i := range design.Components {
		if componentMatches(&design.Components[i], keywords...) {
			if design.Components[i].Quantity > 0 {
				total += design.Components[i].Quantity
			} else {
				total++
			}
		}
	}
	return total
}

// specsContain 判断组件的规格或配置中是否出现任一关键字,键和值都参与匹配
func specsContain(c *models.ComponentSpecification, keywords ...string) bool {
	for _, m := range []map[string]interface{}{c.Specifications, c.Configuration} {
		for k, v := range m {
			if containsAny(k, keywords...) || containsAny(cast.ToString(v), keywords...) {
				return true
			}
		}
	}
	return false
}

// anyProtocol 判断任一连接协议是否命中关键字
func anyProtocol(design *models.NetworkDesign, keywords ...string) bool {
	for _, conn := range design.Connections {
		if conn.Protocol != "" && containsAny(conn.Protocol, keywords...) {
			return true
		}
	}
	return false
}

// designMentions 在组件名称/类型/规格/配置、连接协议及关键特性中查找关键字
func designMentions(design *models.NetworkDesign, keywords ...string) bool {
	for i := range design.Components {
		c := &design.Components[i]
		if componentMatches(c, keywords...) || specsContain(c, keywords...) {
			return true
		}
	}
	if anyProtocol(design, keywords...) {
		return true
	}
	for _, f := range design.KeyFeatures {
		if containsAny(f, keywords...) {
			return true
		}
	}
	return false
}

// securityRank 安全级别排序,未知级别按 basic 处理
func securityRank(level models.SecurityLevel) int {
	switch level {
	case models.SecurityCorporate:
		return 1
	case models.SecurityEnterprise:
		return 2
	case models.SecurityGovernment:
		return 3
	case models.SecurityCriticalInfrastructure:
		return 4
	default:
		return 0
	}
}

// distinctVLANCount 设计中互异 VLAN 数量,规模声明与连接配置取大者
func distinctVLANCount(design *models.NetworkDesign) int {
	seen := make(map[int]bool)
	for _, conn := range design.Connections {
		if conn.VLAN != nil {
			seen[*conn.VLAN] = true
		}
	}
	if design.Scale.VLANs > len(seen) {
		return design.Scale.VLANs
	}
	return len(seen)
}

// hasZoneKeywords 组件位置中是否出现安全分区关键字
func hasZoneKeywords(design *models.NetworkDesign) bool {
	for i := range design.Components {
		if containsAny(design.Components[i].Location, "dmz", "internal", "external", "zone", "segment") {
			return true
		}
	}
	return false
}

// isSegmented 判断设计是否做了网络分段
func isSegmented(design *models.NetworkDesign) bool {
	return distinctVLANCount(design) > 1 || hasZoneKeywords(design)
}

// requiresCompliance 合规清单中是否声明了某框架
func requiresCompliance(design *models.NetworkDesign, keywords ...string) bool {
	for _, c := range design.ComplianceRequirements {
		if containsAny(c, keywords...) {
			return true
		}
	}
	return false
}
