/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供服务健康状态和依赖组件状态检查
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 提供简单的健康检查接口，用于容器健康检查和负载均衡
 * @dependencies net/http, gorm.io/gorm
 * @refs dev_docs/model.md
 */

package controllers

import (
	"net/http"
	"time"

	"netdesign-service/service/validation"

	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// HealthController 健康检查控制器
type HealthController struct {
	db       *gorm.DB
	registry *validation.Registry
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(db *gorm.DB, registry *validation.Registry) *HealthController {
	return &HealthController{db: db, registry: registry}
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"2.0.0"`
	Service   string    `json:"service" example:"netdesign-service"`
}

// DetailedHealthResponse 详细健康检查响应结构
type DetailedHealthResponse struct {
	Status     string            `json:"status" example:"ok"`
	Timestamp  time.Time         `json:"timestamp"`
	Version    string            `json:"version" example:"2.0.0"`
	Service    string            `json:"service" example:"netdesign-service"`
	Components map[string]string `json:"components"`
	RuleCount  int               `json:"rule_count" example:"53"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   validation.ValidationVersion,
		Service:   "netdesign-service",
	}

	render.JSON(w, r, response)
}

// HealthDetailed 详细健康检查
// @Summary 详细健康检查
// @Description 检查服务及其依赖组件的健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} DetailedHealthResponse
// @Router /health/detailed [get]
func (c *HealthController) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"database": "ok",
	}
	status := "ok"

	if c.db != nil {
		if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
			components["database"] = "unavailable"
			status = "degraded"
		}
	} else {
		components["database"] = "not_configured"
	}

	ruleCount := 0
	if c.registry != nil {
		ruleCount = c.registry.Count()
	}

	render.JSON(w, r, DetailedHealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Version:    validation.ValidationVersion,
		Service:    "netdesign-service",
		Components: components,
		RuleCount:  ruleCount,
	})
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务是否就绪
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   validation.ValidationVersion,
		Service:   "netdesign-service",
	}

	render.JSON(w, r, response)
}
