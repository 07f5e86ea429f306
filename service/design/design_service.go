/*
 * @module service/design
 * @description 网络设计服务,负责设计文档的增删查、验证触发与验证历史管理
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 设计入库 -> 验证执行 -> 验证记录入库 -> 历史查询
 * @rules 设计文档整体以 JSONB 存储,验证记录按 design_id 建立历史
 * @dependencies gorm.io/gorm, netdesign-service/service/validation
 * @refs service/validation/orchestrator, service/audit
 */

package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"netdesign-service/service/audit"
	"netdesign-service/service/metrics"
	"netdesign-service/service/models"
	"netdesign-service/service/validation"
)

// ErrDesignNotFound 设计不存在
var ErrDesignNotFound = errors.New("设计不存在")

// ErrValidationNotFound 验证记录不存在
var ErrValidationNotFound = errors.New("验证记录不存在")

// Service 网络设计服务
type Service struct {
	db           *gorm.DB
	orchestrator *validation.Orchestrator
	audit        *audit.AuditService
}

// NewService 创建设计服务
func NewService(db *gorm.DB, orchestrator *validation.Orchestrator, auditService *audit.AuditService) *Service {
	return &Service{db: db, orchestrator: orchestrator, audit: auditService}
}

// Orchestrator 返回底层验证编排器
func (s *Service) Orchestrator() *validation.Orchestrator { return s.orchestrator }

// CreateDesign 保存设计文档
func (s *Service) CreateDesign(ctx context.Context, design *models.NetworkDesign, createdBy string) (*models.NetworkDesignRecord, error) {
	if design.DesignID == "" {
		return nil, fmt.Errorf("design_id 不能为空")
	}

	doc, err := toJSONB(design)
	if err != nil {
		return nil, fmt.Errorf("设计文档序列化失败: %w", err)
	}

	record := &models.NetworkDesignRecord{
		DesignID:       design.DesignID,
		DesignName:     design.DesignName,
		NetworkType:    string(design.NetworkType),
		SecurityLevel:  string(design.SecurityLevel),
		ComplianceTags: pq.StringArray(design.ComplianceRequirements),
		Document:       doc,
		CreatedBy:      createdBy,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("设计入库失败: %w", err)
	}

	s.audit.Record(ctx, "design_create", design.DesignID, createdBy, models.JSONB{"design_name": design.DesignName})
	return record, nil
}

// GetDesign 按 design_id 读取设计文档
func (s *Service) GetDesign(ctx context.Context, designID string) (*models.NetworkDesign, error) {
	var record models.NetworkDesignRecord
	err := s.db.WithContext(ctx).Where("design_id = ?", designID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDesignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("设计查询失败: %w", err)
	}
	return fromJSONB(record.Document)
}

// ListDesigns 分页列出设计记录
func (s *Service) ListDesigns(ctx context.Context, page, size int) ([]models.NetworkDesignRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	var total int64
	query := s.db.WithContext(ctx).Model(&models.NetworkDesignRecord{}).Where("status = ?", "active")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.NetworkDesignRecord
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&records).Error
	return records, total, err
}

// DeleteDesign 删除设计记录
func (s *Service) DeleteDesign(ctx context.Context, designID, operator string) error {
	result := s.db.WithContext(ctx).Where("design_id = ?", designID).Delete(&models.NetworkDesignRecord{})
	if result.Error != nil {
		return fmt.Errorf("设计删除失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDesignNotFound
	}
	s.audit.Record(ctx, "design_delete", designID, operator, nil)
	return nil
}

// Validate 对给定设计执行双轨验证并记录结果
func (s *Service) Validate(ctx context.Context, design *models.NetworkDesign, req *models.ValidationRequest, triggeredBy string) (*models.ValidationResult, error) {
	mode := "standard"
	if req != nil && req.ValidationMode != "" {
		mode = req.ValidationMode
	}

	start := time.Now()
	result, err := s.orchestrator.ValidateDesign(ctx, design, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordValidation(mode, result.Passed, time.Since(start).Seconds())

	if err := s.storeResult(ctx, result, req, triggeredBy); err != nil {
		// 验证结果已经产出,仅记录存储失败
		return result, fmt.Errorf("验证记录入库失败: %w", err)
	}
	s.audit.RecordValidation(ctx, result, triggeredBy)
	return result, nil
}

// ValidateByID 按 design_id 读取设计并验证
func (s *Service) ValidateByID(ctx context.Context, designID string, req *models.ValidationRequest, triggeredBy string) (*models.ValidationResult, error) {
	design, err := s.GetDesign(ctx, designID)
	if err != nil {
		return nil, err
	}
	return s.Validate(ctx, design, req, triggeredBy)
}

// GetValidationResult 按 validation_id 读取历史验证结果
func (s *Service) GetValidationResult(ctx context.Context, validationID string) (*models.ValidationResult, error) {
	var record models.ValidationRecord
	err := s.db.WithContext(ctx).Where("validation_id = ?", validationID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrValidationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("验证记录查询失败: %w", err)
	}

	raw, err := json.Marshal(record.Result)
	if err != nil {
		return nil, err
	}
	var result models.ValidationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("验证记录解析失败: %w", err)
	}
	return &result, nil
}

// History 分页列出某设计的验证历史
func (s *Service) History(ctx context.Context, designID string, page, size int) ([]models.ValidationRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	var total int64
	query := s.db.WithContext(ctx).Model(&models.ValidationRecord{}).Where("design_id = ?", designID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ValidationRecord
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&records).Error
	return records, total, err
}

// LatestValidation 某设计最近一次验证记录,无记录时返回 nil
func (s *Service) LatestValidation(ctx context.Context, designID string) (*models.ValidationRecord, error) {
	var record models.ValidationRecord
	err := s.db.WithContext(ctx).Where("design_id = ?", designID).Order("created_at DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ActiveDesignIDs 全部在用设计的 design_id,供定时重验证使用
func (s *Service) ActiveDesignIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.NetworkDesignRecord{}).
		Where("status = ?", "active").Pluck("design_id", &ids).Error
	return ids, err
}

func (s *Service) storeResult(ctx context.Context, result *models.ValidationResult, req *models.ValidationRequest, triggeredBy string) error {
	doc, err := toResultJSONB(result)
	if err != nil {
		return err
	}
	mode := "standard"
	if req != nil && req.ValidationMode != "" {
		mode = req.ValidationMode
	}
	record := &models.ValidationRecord{
		ValidationID:       result.ValidationID,
		DesignID:           result.DesignID,
		ValidationMode:     mode,
		OverallScore:       result.OverallScore,
		DeterministicScore: result.DeterministicScore,
		LLMScore:           result.LLMScore,
		Passed:             result.Passed,
		CriticalCount:      result.CriticalCount,
		Result:             doc,
		TriggeredBy:        triggeredBy,
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func toJSONB(design *models.NetworkDesign) (models.JSONB, error) {
	raw, err := json.Marshal(design)
	if err != nil {
		return nil, err
	}
	var doc models.JSONB
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func toResultJSONB(result *models.ValidationResult) (models.JSONB, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var doc models.JSONB
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromJSONB(doc models.JSONB) (*models.NetworkDesign, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var design models.NetworkDesign
	if err := json.Unmarshal(raw, &design); err != nil {
		return nil, fmt.Errorf("设计文档解析失败: %w", err)
	}
	return &design, nil
}
