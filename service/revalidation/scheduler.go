/*
 * @module service/revalidation
 * @description 定时重验证调度器,周期性对在用设计重跑标准验证并标记回归
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 启动调度器 -> cron 触发 -> 遍历在用设计 -> 重验证 -> 回归标记
 * @rules 单个设计验证失败不中断批次;回归(上次通过本次未通过)记录告警与审计
 * @dependencies github.com/robfig/cron/v3
 * @refs service/design
 */

package revalidation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"netdesign-service/service/design"
	"netdesign-service/service/models"
)

// DefaultSpec 默认每天凌晨两点执行
const DefaultSpec = "0 0 2 * * *"

// Scheduler 定时重验证调度器
type Scheduler struct {
	designService *design.Service
	cron          *cron.Cron
	ctx           context.Context
	cancel        context.CancelFunc
	spec          string
	started       bool
}

// NewScheduler 创建调度器,REVALIDATION_CRON 可覆盖默认调度表达式
func NewScheduler(designService *design.Service) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	spec := os.Getenv("REVALIDATION_CRON")
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		designService: designService,
		cron:          cron.New(cron.WithSeconds()),
		ctx:           ctx,
		cancel:        cancel,
		spec:          spec,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() error {
	if s.started {
		return fmt.Errorf("调度器已经启动")
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(s.ctx) }); err != nil {
		return fmt.Errorf("注册重验证任务失败: %w", err)
	}
	s.cron.Start()
	s.started = true
	slog.Info("定时重验证调度器已启动", "spec", s.spec)
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	s.cancel()
	s.cron.Stop()
	s.started = false
	slog.Info("定时重验证调度器已停止")
}

// RunOnce 对全部在用设计执行一轮标准验证
func (s *Scheduler) RunOnce(ctx context.Context) {
	ids, err := s.designService.ActiveDesignIDs(ctx)
	if err != nil {
		slog.Error("读取在用设计列表失败", "error", err)
		return
	}
	slog.Info("开始定时重验证", "designs", len(ids))

	regressions := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			slog.Warn("重验证被取消", "remaining", len(ids))
			return
		}
		if s.revalidate(ctx, id) {
			regressions++
		}
	}
	slog.Info("定时重验证完成", "designs", len(ids), "regressions", regressions)
}

// revalidate 重验证单个设计,返回是否发生回归
func (s *Scheduler) revalidate(ctx context.Context, designID string) bool {
	previous, err := s.designService.LatestValidation(ctx, designID)
	if err != nil {
		slog.Error("读取历史验证记录失败", "design_id", designID, "error", err)
	}

	result, err := s.designService.ValidateByID(ctx, designID, &models.ValidationRequest{
		ValidationMode: "standard",
	}, "scheduler")
	if err != nil {
		slog.Error("定时重验证失败", "design_id", designID, "error", err)
		return false
	}

	if previous != nil && previous.Passed && !result.Passed {
		slog.Warn("设计验证发生回归",
			"design_id", designID,
			"previous_validation", previous.ValidationID,
			"current_validation", result.ValidationID,
			"overall_score", result.OverallScore)
		return true
	}
	return false
}
