/*
 * @module service/init
 * @description 服务初始化模块,负责数据库连接、规则注册、验证编排器与定时复验等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保所有依赖服务正常启动后才提供API服务;Redis限流器缺失时降级放行
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs dev_docs/model.md
 */

package service

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"netdesign-service/assessor_client"
	"netdesign-service/logger"
	"netdesign-service/service/audit"
	"netdesign-service/service/design"
	"netdesign-service/service/metrics"
	"netdesign-service/service/models"
	"netdesign-service/service/rate_limiter"
	"netdesign-service/service/revalidation"
	"netdesign-service/service/validation"
	"netdesign-service/service/validation/rules"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                  *gorm.DB
	GlobalRegistry      *validation.Registry
	GlobalOrchestrator  *validation.Orchestrator
	GlobalAuditService  *audit.AuditService
	GlobalDesignService *design.Service
	GlobalScheduler     *revalidation.Scheduler
	GlobalRateLimiter   *rate_limiter.RedisRateLimiter
)

func init() {
	logger.InitLogger()
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "things2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量,如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := DB.AutoMigrate(
		&models.NetworkDesignRecord{},
		&models.ValidationRecord{},
		&models.ValidationAuditLog{},
		&models.ApiKey{},
		&models.ScriptRuleRecord{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("数据库表结构迁移完成")
}

// initServices 初始化服务
func initServices() {
	// 规则注册表与内置规则
	GlobalRegistry = validation.NewRegistry()
	rules.RegisterBuiltins(GlobalRegistry)
	loadScriptRules(GlobalRegistry)
	metrics.RegisteredRules.Set(float64(GlobalRegistry.Count()))

	// 验证编排器,概率性评估走外部评估服务
	GlobalOrchestrator = validation.NewOrchestrator(GlobalRegistry, assessor_client.NewClient(), validation.DefaultOrchestratorConfig())

	GlobalAuditService = audit.NewAuditService(DB)
	GlobalDesignService = design.NewService(DB, GlobalOrchestrator, GlobalAuditService)

	// Redis限流器,不可用时降级为不限流
	limiter, err := rate_limiter.NewRedisRateLimiter()
	if err != nil {
		slog.Warn("Redis限流器初始化失败,限流功能降级", "error", err)
	} else {
		GlobalRateLimiter = limiter
	}

	// 定时复验调度器
	GlobalScheduler = revalidation.NewScheduler(GlobalDesignService)
	GlobalScheduler.Start()

	slog.Info("服务初始化完成", "rules", GlobalRegistry.Count())
}

// loadScriptRules 加载数据库中已注册的脚本规则
func loadScriptRules(registry *validation.Registry) {
	var records []models.ScriptRuleRecord
	if err := DB.Find(&records).Error; err != nil {
		slog.Warn("加载脚本规则失败", "error", err)
		return
	}

	for _, record := range records {
		meta := validation.Metadata{
			ID:          record.RuleID,
			Name:        record.Name,
			Description: record.Description,
			Category:    models.RuleCategory(record.Category),
			Severity:    models.RuleSeverity(record.Severity),
			Tags:        record.Tags,
		}
		rule, err := validation.NewScriptRule(meta, record.Script)
		if err != nil {
			slog.Warn("脚本规则编译失败,跳过", "rule_id", record.RuleID, "error", err)
			continue
		}
		if !record.IsEnabled {
			rule.Disable()
		}
		registry.Register(rule)
	}

	if len(records) > 0 {
		slog.Info("脚本规则加载完成", "count", len(records))
	}
}
