/*
 * @module service/models/records
 * @description 持久化记录模型,包括设计记录、验证记录、审计日志、API密钥与脚本规则
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 设计入库 -> 验证执行 -> 验证记录与审计入库
 * @rules 设计文档与验证结果以 JSONB 保存,检索字段单列冗余
 * @dependencies gorm.io/gorm, github.com/google/uuid, github.com/lib/pq
 * @refs service/models/network_design, service/models/validation_result
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// NetworkDesignRecord 网络设计持久化记录,设计文档整体存 JSONB
type NetworkDesignRecord struct {
	ID             string         `gorm:"type:uuid;primary_key" json:"id"`
	DesignID       string         `gorm:"not null;uniqueIndex;size:100" json:"design_id"`
	DesignName     string         `gorm:"not null;size:255" json:"design_name"`
	NetworkType    string         `gorm:"size:50;index" json:"network_type"`
	SecurityLevel  string         `gorm:"size:50" json:"security_level"`
	ComplianceTags pq.StringArray `gorm:"type:text[]" json:"compliance_tags"`
	Document       JSONB          `gorm:"type:jsonb;not null" json:"document"`
	Status         string         `gorm:"not null;default:'active';size:20" json:"status"` // active/archived
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy      string         `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate 创建前钩子
func (r *NetworkDesignRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = "active"
	}
	return nil
}

// ValidationRecord 验证历史记录
type ValidationRecord struct {
	ID                 string    `gorm:"type:uuid;primary_key" json:"id"`
	ValidationID       string    `gorm:"not null;uniqueIndex;size:100" json:"validation_id"`
	DesignID           string    `gorm:"not null;index;size:100" json:"design_id"`
	ValidationMode     string    `gorm:"not null;size:20" json:"validation_mode"`
	OverallScore       float64   `gorm:"not null" json:"overall_score"`
	DeterministicScore float64   `gorm:"not null" json:"deterministic_score"`
	LLMScore           float64   `json:"llm_score"`
	Passed             bool      `gorm:"not null;index" json:"passed"`
	CriticalCount      int       `gorm:"not null;default:0" json:"critical_count"`
	Result             JSONB     `gorm:"type:jsonb;not null" json:"result"`
	TriggeredBy        string    `gorm:"not null;default:'api';size:50" json:"triggered_by"` // api/scheduler
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BeforeCreate 创建前钩子
func (r *ValidationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ValidationAuditLog 验证审计日志
type ValidationAuditLog struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Action       string    `gorm:"not null;size:50" json:"action"` // validate/rule_enable/rule_disable/design_create/design_delete
	ObjectID     string    `gorm:"size:100;index" json:"object_id"`
	Operator     string    `gorm:"not null;default:'system';size:100" json:"operator"`
	Detail       JSONB     `gorm:"type:jsonb" json:"detail"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BeforeCreate 创建前钩子
func (a *ValidationAuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// ApiKey 管理端 API 密钥,密钥原文不落库,仅存 bcrypt 哈希
type ApiKey struct {
	ID        string     `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"not null;size:100" json:"name"`
	KeyHash   string     `gorm:"not null;size:100" json:"-"`
	Prefix    string     `gorm:"not null;index;size:16" json:"prefix"`
	// 不给列默认值:gorm 插入时会省略零值布尔,false 必须原样落库
	IsEnabled bool       `gorm:"not null" json:"is_enabled"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BeforeCreate 创建前钩子
func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	return nil
}

// ScriptRuleRecord 管理端注册的脚本规则,脚本体为 Go 片段
type ScriptRuleRecord struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	RuleID      string         `gorm:"not null;uniqueIndex;size:100" json:"rule_id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `json:"description"`
	Category    string         `gorm:"not null;size:20" json:"category"`
	Severity    string         `gorm:"not null;default:'warning';size:20" json:"severity"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Script      string         `gorm:"not null;type:text" json:"script"`
	IsEnabled   bool           `gorm:"not null" json:"is_enabled"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy   string         `gorm:"not null;default:'system';size:100" json:"created_by"`
}

// BeforeCreate 创建前钩子
func (s *ScriptRuleRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
