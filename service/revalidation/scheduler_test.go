/*
 * @module service/revalidation/scheduler_test
 * @description 定时重验证调度器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 设计入库 -> 手动触发一轮重验证 -> 断言验证记录
 * @rules 单个设计验证失败不中断批次
 * @dependencies testing, stretchr/testify, netdesign-service/testutil
 */

package revalidation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdesign-service/service/audit"
	"netdesign-service/service/design"
	"netdesign-service/service/models"
	"netdesign-service/service/validation"
	"netdesign-service/service/validation/rules"
	"netdesign-service/testutil"
)

func newSchedulerFixture(t *testing.T) (*Scheduler, *design.Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB()

	registry := validation.NewRegistry()
	rules.RegisterBuiltins(registry)
	orchestrator := validation.NewOrchestrator(registry,
		&testutil.StaticAssessor{Result: &models.LLMValidationResult{OverallScore: 0.9, Confidence: 0.9}},
		validation.DefaultOrchestratorConfig())
	svc := design.NewService(tdb.DB, orchestrator, audit.NewAuditService(tdb.DB))

	return NewScheduler(svc), svc, tdb
}

// TestRunOnceValidatesActiveDesigns 测试一轮重验证覆盖全部在用设计
func TestRunOnceValidatesActiveDesigns(t *testing.T) {
	scheduler, svc, tdb := newSchedulerFixture(t)
	defer tdb.Close()

	d1 := testutil.ValidDesign()
	d2 := testutil.SPOFDesign()
	_, err := svc.CreateDesign(context.Background(), d1, "tester")
	require.NoError(t, err)
	_, err = svc.CreateDesign(context.Background(), d2, "tester")
	require.NoError(t, err)

	scheduler.RunOnce(context.Background())

	// 每个在用设计都应产生一条由 scheduler 触发的验证记录
	var records []models.ValidationRecord
	require.NoError(t, tdb.DB.Where("triggered_by = ?", "scheduler").Find(&records).Error)
	assert.Len(t, records, 2)

	latest, err := svc.LatestValidation(context.Background(), d2.DesignID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.False(t, latest.Passed)
}

// TestRunOnceCancelledContext 测试取消后不再继续批次
func TestRunOnceCancelledContext(t *testing.T) {
	scheduler, svc, tdb := newSchedulerFixture(t)
	defer tdb.Close()

	_, err := svc.CreateDesign(context.Background(), testutil.ValidDesign(), "tester")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scheduler.RunOnce(ctx)

	var count int64
	require.NoError(t, tdb.DB.Model(&models.ValidationRecord{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

// TestStartTwice 测试重复启动被拒绝
func TestStartTwice(t *testing.T) {
	scheduler, _, tdb := newSchedulerFixture(t)
	defer tdb.Close()

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()
	assert.Error(t, scheduler.Start())
}
