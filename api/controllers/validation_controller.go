/*
 * @module api/controllers/validation_controller
 * @description 网络设计验证控制器,提供设计验证、按ID验证、验证结果查询等API接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式,未知验证模式返回400
 * @dependencies netdesign-service/service/design, github.com/go-chi/chi/v5
 * @refs dev_docs/model.md
 */

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"netdesign-service/service/design"
	"netdesign-service/service/models"
	"netdesign-service/service/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ValidationController 网络设计验证控制器
type ValidationController struct {
	designService *design.Service
}

// NewValidationController 创建验证控制器实例
func NewValidationController(designService *design.Service) *ValidationController {
	return &ValidationController{designService: designService}
}

// ValidateRequest 验证请求结构
type ValidateRequest struct {
	Design               *models.NetworkDesign `json:"design" validate:"required"`
	ValidationMode       string                `json:"validation_mode"`
	IncludeLLMValidation *bool                 `json:"include_llm_validation"`
	CustomRules          []string              `json:"custom_rules"`
	SkipRules            []string              `json:"skip_rules"`
}

// Validate 验证网络设计
// @Summary 验证网络设计
// @Description 对提交的网络设计文档执行确定性规则验证与概率性评估
// @Tags 验证
// @Accept json
// @Produce json
// @Param mode query string false "验证模式" Enums(strict,standard,lenient) default(standard)
// @Param request body ValidateRequest true "网络设计文档"
// @Success 200 {object} APIResponse{data=models.ValidationResult} "验证完成"
// @Failure 400 {object} APIResponse "请求参数错误或验证模式未知"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/validate [post]
func (c *ValidationController) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求参数格式错误"})
		return
	}

	if req.Design == nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "缺少设计文档"})
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = req.ValidationMode
	}

	valReq := &models.ValidationRequest{
		ValidationMode:       mode,
		IncludeLLMValidation: req.IncludeLLMValidation,
		CustomRules:          req.CustomRules,
		SkipRules:            req.SkipRules,
	}

	result, err := c.designService.Validate(r.Context(), req.Design, valReq, "api")
	if err != nil {
		if errors.Is(err, validation.ErrInvalidMode) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
			return
		}
		if result != nil {
			// 验证完成但结果持久化失败,仍返回结果
			render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "验证完成,结果保存失败", Data: result})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "验证执行失败"})
		return
	}

	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "验证完成", Data: result})
}

// ValidateByID 按设计ID验证
// @Summary 按设计ID验证
// @Description 对已登记的网络设计执行验证
// @Tags 验证
// @Accept json
// @Produce json
// @Param designID path string true "设计ID"
// @Param mode query string false "验证模式" Enums(strict,standard,lenient) default(standard)
// @Success 200 {object} APIResponse{data=models.ValidationResult} "验证完成"
// @Failure 400 {object} APIResponse "验证模式未知"
// @Failure 404 {object} APIResponse "设计不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/validate-by-id/{designID} [post]
func (c *ValidationController) ValidateByID(w http.ResponseWriter, r *http.Request) {
	designID := chi.URLParam(r, "designID")

	valReq := &models.ValidationRequest{
		DesignID:       designID,
		ValidationMode: r.URL.Query().Get("mode"),
	}

	result, err := c.designService.ValidateByID(r.Context(), designID, valReq, "api")
	if err != nil {
		switch {
		case errors.Is(err, design.ErrDesignNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "设计不存在"})
		case errors.Is(err, validation.ErrInvalidMode):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		default:
			if result != nil {
				render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "验证完成,结果保存失败", Data: result})
				return
			}
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "验证执行失败"})
		}
		return
	}

	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "验证完成", Data: result})
}

// GetResult 获取验证结果
// @Summary 获取验证结果
// @Description 根据验证ID查询完整验证结果
// @Tags 验证
// @Produce json
// @Param validationID path string true "验证ID"
// @Success 200 {object} APIResponse{data=models.ValidationResult} "获取成功"
// @Failure 404 {object} APIResponse "验证记录不存在"
// @Router /validation/results/{validationID} [get]
func (c *ValidationController) GetResult(w http.ResponseWriter, r *http.Request) {
	validationID := chi.URLParam(r, "validationID")

	result, err := c.designService.GetValidationResult(r.Context(), validationID)
	if err != nil {
		if errors.Is(err, design.ErrValidationNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "验证记录不存在"})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "获取验证结果失败"})
		return
	}

	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "获取验证结果成功", Data: result})
}

// History 获取验证历史
// @Summary 获取验证历史
// @Description 分页获取指定设计的历史验证记录
// @Tags 验证
// @Produce json
// @Param designID path string true "设计ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.ValidationRecord} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /validation/history/{designID} [get]
func (c *ValidationController) History(w http.ResponseWriter, r *http.Request) {
	designID := chi.URLParam(r, "designID")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	records, total, err := c.designService.History(r.Context(), designID, page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "获取验证历史失败"})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取验证历史成功",
		Data:   records,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}
