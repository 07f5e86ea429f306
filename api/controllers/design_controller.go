/*
 * @module api/controllers/design_controller
 * @description 网络设计管理控制器,提供设计登记、查询、列表、删除等API接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式
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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// DesignController 网络设计管理控制器
type DesignController struct {
	designService *design.Service
}

// NewDesignController 创建设计管理控制器实例
func NewDesignController(designService *design.Service) *DesignController {
	return &DesignController{designService: designService}
}

// CreateDesign 登记网络设计
// @Summary 登记网络设计
// @Description 登记新的网络设计文档,用于后续按ID验证与定时复验
// @Tags 设计管理
// @Accept json
// @Produce json
// @Param design body models.NetworkDesign true "网络设计文档"
// @Success 201 {object} APIResponse{data=models.NetworkDesignRecord} "登记成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /designs [post]
func (c *DesignController) CreateDesign(w http.ResponseWriter, r *http.Request) {
	var req models.NetworkDesign
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求参数格式错误"})
		return
	}

	if req.DesignName == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "设计名称不能为空"})
		return
	}

	operator := r.Header.Get("X-Operator")
	if operator == "" {
		operator = "api"
	}

	record, err := c.designService.CreateDesign(r.Context(), &req, operator)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "登记网络设计失败"})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, APIResponse{Status: http.StatusCreated, Msg: "登记网络设计成功", Data: record})
}

// GetDesign 获取网络设计
// @Summary 获取网络设计
// @Description 根据设计ID获取设计文档
// @Tags 设计管理
// @Produce json
// @Param designID path string true "设计ID"
// @Success 200 {object} APIResponse{data=models.NetworkDesign} "获取成功"
// @Failure 404 {object} APIResponse "设计不存在"
// @Router /designs/{designID} [get]
func (c *DesignController) GetDesign(w http.ResponseWriter, r *http.Request) {
	designID := chi.URLParam(r, "designID")

	doc, err := c.designService.GetDesign(r.Context(), designID)
	if err != nil {
		if errors.Is(err, design.ErrDesignNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "设计不存在"})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "获取网络设计失败"})
		return
	}

	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "获取网络设计成功", Data: doc})
}

// ListDesigns 获取设计列表
// @Summary 获取设计列表
// @Description 分页获取已登记的有效网络设计
// @Tags 设计管理
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse{data=[]models.NetworkDesignRecord} "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /designs [get]
func (c *DesignController) ListDesigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	records, total, err := c.designService.ListDesigns(r.Context(), page, size)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "获取设计列表失败"})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取设计列表成功",
		Data:   records,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// DeleteDesign 删除网络设计
// @Summary 删除网络设计
// @Description 归档指定的网络设计,归档后不再参与定时复验
// @Tags 设计管理
// @Produce json
// @Param designID path string true "设计ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 404 {object} APIResponse "设计不存在"
// @Router /designs/{designID} [delete]
func (c *DesignController) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	designID := chi.URLParam(r, "designID")

	operator := r.Header.Get("X-Operator")
	if operator == "" {
		operator = "api"
	}

	if err := c.designService.DeleteDesign(r.Context(), designID, operator); err != nil {
		if errors.Is(err, design.ErrDesignNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "设计不存在"})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "删除网络设计失败"})
		return
	}

	render.JSON(w, r, APIResponse{Status: http.StatusOK, Msg: "删除网络设计成功"})
}
