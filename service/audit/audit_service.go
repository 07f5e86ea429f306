/*
 * @module service/audit
 * @description 验证审计服务,审计记录落库并向 Kafka 发布验证事件
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 验证/管理操作 -> 审计记录入库 -> 事件发布
 * @rules Kafka 不可用时只落库不发布,审计失败不阻断业务
 * @dependencies gorm.io/gorm, github.com/segmentio/kafka-go
 * @refs service/models/records
 */

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"netdesign-service/service/models"
)

// DefaultTopic 验证事件主题
const DefaultTopic = "netdesign.validation"

// AuditService 验证审计服务
type AuditService struct {
	db     *gorm.DB
	writer *kafka.Writer
}

// NewAuditService 创建审计服务,KAFKA_BROKERS 为空时不启用事件发布
func NewAuditService(db *gorm.DB) *AuditService {
	s := &AuditService{db: db}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := os.Getenv("KAFKA_TOPIC")
		if topic == "" {
			topic = DefaultTopic
		}
		s.writer = &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 100 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		}
		slog.Info("审计事件发布已启用", "brokers", brokers, "topic", topic)
	}
	return s
}

// Record 写入一条审计记录并发布事件
func (s *AuditService) Record(ctx context.Context, action, objectID, operator string, detail models.JSONB) {
	entry := &models.ValidationAuditLog{
		Action:   action,
		ObjectID: objectID,
		Operator: operator,
		Detail:   detail,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		slog.Error("审计记录写入失败", "action", action, "object_id", objectID, "error", err)
	}
	s.publish(ctx, action, objectID, detail)
}

// RecordValidation 记录一次验证并发布验证事件
func (s *AuditService) RecordValidation(ctx context.Context, result *models.ValidationResult, operator string) {
	s.Record(ctx, "validate", result.DesignID, operator, models.JSONB{
		"validation_id": result.ValidationID,
		"overall_score": result.OverallScore,
		"passed":        result.Passed,
		"critical":      result.CriticalCount,
	})
}

// publish 发布事件到 Kafka,未配置时静默跳过
func (s *AuditService) publish(ctx context.Context, action, objectID string, detail models.JSONB) {
	if s.writer == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"action":    action,
		"object_id": objectID,
		"detail":    detail,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		slog.Error("审计事件序列化失败", "action", action, "error", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(objectID),
		Value: payload,
	}); err != nil {
		slog.Error("审计事件发布失败", "action", action, "error", err)
	}
}

// Close 关闭事件发布通道
func (s *AuditService) Close() error {
	if s.writer != nil {
		return s.writer.Close()
	}
	return nil
}
