/*
 * @module api/routes
 * @description API路由配置模块,负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范,统一错误处理和响应格式;管理接口需API密钥认证
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"netdesign-service/api/controllers"
	apimiddleware "netdesign-service/api/middleware"
	"netdesign-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController(service.DB, service.GlobalRegistry)
	r.Get("/health", healthController.Health)
	r.Get("/health/detailed", healthController.HealthDetailed)
	r.Get("/ready", healthController.Ready)

	rateLimit := apimiddleware.NewRateLimitMiddleware(service.GlobalRateLimiter)
	apiKeyAuth := apimiddleware.NewApiKeyAuthMiddleware(service.DB)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit.Limit)

		// 设计验证
		r.Route("/validation", func(r chi.Router) {
			validationController := controllers.NewValidationController(service.GlobalDesignService)
			r.Post("/validate", validationController.Validate)
			r.Post("/validate-by-id/{designID}", validationController.ValidateByID)
			r.Get("/results/{validationID}", validationController.GetResult)
			r.Get("/history/{designID}", validationController.History)
		})

		// 设计管理
		r.Route("/designs", func(r chi.Router) {
			designController := controllers.NewDesignController(service.GlobalDesignService)
			r.Post("/", designController.CreateDesign)
			r.Get("/", designController.ListDesigns)
			r.Get("/{designID}", designController.GetDesign)
			r.Delete("/{designID}", designController.DeleteDesign)
		})

		// 规则管理,需API密钥认证
		r.Route("/admin", func(r chi.Router) {
			r.Use(apiKeyAuth.Authenticate)

			ruleAdminController := controllers.NewRuleAdminController(service.GlobalRegistry, service.DB)
			r.Route("/rules", func(r chi.Router) {
				r.Get("/", ruleAdminController.ListRules)
				r.Get("/statistics", ruleAdminController.Statistics)
				r.Post("/script", ruleAdminController.CreateScriptRule)
				r.Post("/{ruleID}/enable", ruleAdminController.EnableRule)
				r.Post("/{ruleID}/disable", ruleAdminController.DisableRule)
				r.Post("/category/{category}/enable", ruleAdminController.EnableCategory)
				r.Post("/category/{category}/disable", ruleAdminController.DisableCategory)
			})
		})
	})
}
