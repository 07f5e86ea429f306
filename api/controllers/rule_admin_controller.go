/*
 * @module api/controllers/rule_admin_controller
 * @description 规则管理控制器,提供规则列表、统计、启停及脚本规则注册等管理接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 管理接口需通过API密钥认证;启停操作按类别返回实际变更数量
 * @dependencies netdesign-service/service/validation, github.com/go-chi/chi/v5
 * @refs api/middleware/api_key_auth.go
 */

package controllers

import (
	"net/http"

	"netdesign-service/service/models"
	"netdesign-service/service/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RuleAdminController 规则管理控制器
type RuleAdminController struct {
	registry *validation.Registry
	db       *gorm.DB
}

// NewRuleAdminController 创建规则管理控制器实例
func NewRuleAdminController(registry *validation.Registry, db *gorm.DB) *RuleAdminController {
	return &RuleAdminController{registry: registry, db: db}
}

// RuleInfo 规则信息视图
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity"`
	Tags        []string `json:"tags"`
	Enabled     bool     `json:"enabled"`
}

func ruleInfo(rule validation.Rule) RuleInfo {
	meta := rule.Metadata()
	return RuleInfo{
		ID:          meta.ID,
		Name:        meta.Name,
		Description: meta.Description,
		Category:    string(meta.Category),
		Severity:    string(meta.Severity),
		Tags:        meta.Tags,
		Enabled:     rule.IsEnabled(),
	}
}

// ListRules 获取规则列表
// @Summary 获取规则列表
// @Description 获取已注册的全部验证规则,可按类别过滤
// @Tags 规则管理
// @Produce json
// @Param category query string false "规则类别" Enums(capacity,topology,protocol,security,compliance)
// @Success 200 {object} APIResponse{data=[]RuleInfo} "获取成功"
// @Router /admin/rules [get]
func (c *RuleAdminController) ListRules(w http.ResponseWriter, r *http.Request) {
	var rules []validation.Rule
	if category := r.URL.Query().Get("category"); category != "" {
		rules = c.registry.ByCategory(models.RuleCategory(category))
	} else {
		rules = c.registry.All()
	}

	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, ruleInfo(rule))
	}

	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "获取规则列表成功", Data: infos})
}

// Statistics 获取规则统计
// @Summary 获取规则统计
// @Description 获取规则总数、启停分布、类别与严重级别分布
// @Tags 规则管理
// @Produce json
// @Success 200 {object} APIResponse{data=validation.RegistryStatistics} "获取成功"
// @Router /admin/rules/statistics [get]
func (c *RuleAdminController) Statistics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "获取规则统计成功", Data: c.registry.Statistics()})
}

// EnableRule 启用规则
// @Summary 启用规则
// @Description 按规则ID启用规则
// @Tags 规则管理
// @Produce json
// @Param ruleID path string true "规则ID"
// @Success 200 {object} APIResponse "启用成功"
// @Failure 404 {object} APIResponse "规则不存在"
// @Router /admin/rules/{ruleID}/enable [post]
func (c *RuleAdminController) EnableRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "ruleID")
	if !c.registry.EnableRule(ruleID) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "规则不存在"})
		return
	}
	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "启用规则成功"})
}

// DisableRule 禁用规则
// @Summary 禁用规则
// @Description 按规则ID禁用规则,禁用的规则在验证时被跳过
// @Tags 规则管理
// @Produce json
// @Param ruleID path string true "规则ID"
// @Success 200 {object} APIResponse "禁用成功"
// @Failure 404 {object} APIResponse "规则不存在"
// @Router /admin/rules/{ruleID}/disable [post]
func (c *RuleAdminController) DisableRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "ruleID")
	if !c.registry.DisableRule(ruleID) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "规则不存在"})
		return
	}
	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "禁用规则成功"})
}

// EnableCategory 按类别启用规则
// @Summary 按类别启用规则
// @Description 启用指定类别下的全部规则,返回实际状态变更的规则数
// @Tags 规则管理
// @Produce json
// @Param category path string true "规则类别"
// @Success 200 {object} APIResponse{data=int} "启用成功"
// @Router /admin/rules/category/{category}/enable [post]
func (c *RuleAdminController) EnableCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	changed := c.registry.EnableCategory(models.RuleCategory(category))
	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "按类别启用规则成功", Data: changed})
}

// DisableCategory 按类别禁用规则
// @Summary 按类别禁用规则
// @Description 禁用指定类别下的全部规则,返回实际状态变更的规则数
// @Tags 规则管理
// @Produce json
// @Param category path string true "规则类别"
// @Success 200 {object} APIResponse{data=int} "禁用成功"
// @Router /admin/rules/category/{category}/disable [post]
func (c *RuleAdminController) DisableCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	changed := c.registry.DisableCategory(models.RuleCategory(category))
	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "按类别禁用规则成功", Data: changed})
}

// CreateScriptRuleRequest 创建脚本规则请求结构
type CreateScriptRuleRequest struct {
	RuleID      string   `json:"rule_id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Severity    string   `json:"severity"`
	Tags        []string `json:"tags"`
	Script      string   `json:"script" validate:"required"`
}

// CreateScriptRule 注册脚本规则
// @Summary 注册脚本规则
// @Description 提交Go脚本片段注册为自定义验证规则,脚本需提供 Check(design) (bool, float64, string)
// @Tags 规则管理
// @Accept json
// @Produce json
// @Param rule body CreateScriptRuleRequest true "脚本规则定义"
// @Success 201 {object} APIResponse{data=models.ScriptRuleRecord} "注册成功"
// @Failure 400 {object} APIResponse "脚本编译失败或参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /admin/rules/script [post]
func (c *RuleAdminController) CreateScriptRule(w http.ResponseWriter, r *http.Request) {
	var req CreateScriptRuleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求参数格式错误"})
		return
	}

	if req.RuleID == "" || req.Name == "" || req.Script == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "rule_id、name、script 不能为空"})
		return
	}

	severity := req.Severity
	if severity == "" {
		severity = string(models.SeverityWarning)
	}

	meta := validation.Metadata{
		ID:          req.RuleID,
		Name:        req.Name,
		Description: req.Description,
		Category:    models.RuleCategory(req.Category),
		Severity:    models.RuleSeverity(severity),
		Tags:        req.Tags,
	}

	rule, err := validation.NewScriptRule(meta, req.Script)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "脚本编译失败: " + err.Error()})
		return
	}

	record := &models.ScriptRuleRecord{
		RuleID:      req.RuleID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Severity:    severity,
		Tags:        pq.StringArray(req.Tags),
		Script:      req.Script,
		IsEnabled:   true,
		CreatedBy:   "admin",
	}

	if c.db != nil {
		if err := c.db.WithContext(r.Context()).Create(record).Error; err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "保存脚本规则失败"})
			return
		}
	}

	c.registry.Register(rule)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, APIResponse{Status: http.StatusCreated, Msg: "注册脚本规则成功", Data: record})
}
