/*
 * @module assessor_client
 * @description 概率性评估服务的 HTTP 客户端,由验证编排器作为评估轨道调用
 * @architecture 客户端封装 - 包级 URL 支持环境变量与测试替换
 * @documentReference dev_docs/requirements.md
 * @stateFlow 构造请求 -> 调用评估服务 -> 解析评估结果
 * @rules 请求携带调用方上下文,超时与降级由编排器控制
 * @dependencies net/http, netdesign-service/service/models
 * @refs service/validation/orchestrator
 */

package assessor_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"netdesign-service/service/models"
)

var AssessorUrl = "http://netdesign-assessor:8090"
var client = &http.Client{
	Timeout: 30 * time.Second,
}

func init() {
	if envUrl := os.Getenv("ASSESSOR_URL"); envUrl != "" {
		AssessorUrl = envUrl
	}
}

// SetAssessorUrl 设置评估服务的 URL（用于测试）
func SetAssessorUrl(url string) {
	AssessorUrl = url
}

// GetAssessorUrl 获取当前评估服务的 URL
func GetAssessorUrl() string {
	return AssessorUrl
}

// designSummary 评估服务只需要设计的概要视图,不发送完整组件与连接清单
type designSummary struct {
	DesignID                string                 `json:"design_id"`
	DesignName              string                 `json:"design_name"`
	NetworkType             models.NetworkType     `json:"network_type"`
	SecurityLevel           models.SecurityLevel   `json:"security_level"`
	TopologyType            models.TopologyType    `json:"topology_type"`
	Layers                  int                    `json:"layers"`
	RedundancyLevel         models.RedundancyLevel `json:"redundancy_level"`
	HasSinglePointOfFailure bool                   `json:"has_single_point_of_failure"`
	ComponentCount          int                    `json:"component_count"`
	ConnectionCount         int                    `json:"connection_count"`
	DesignRationale         string                 `json:"design_rationale,omitempty"`
	KeyFeatures             []string               `json:"key_features,omitempty"`
}

func summarize(design *models.NetworkDesign) designSummary {
	return designSummary{
		DesignID:                design.DesignID,
		DesignName:              design.DesignName,
		NetworkType:             design.NetworkType,
		SecurityLevel:           design.SecurityLevel,
		TopologyType:            design.Topology.TopologyType,
		Layers:                  design.Topology.Layers,
		RedundancyLevel:         design.Topology.RedundancyLevel,
		HasSinglePointOfFailure: design.Topology.HasSinglePointOfFailure,
		ComponentCount:          len(design.Components),
		ConnectionCount:         len(design.Connections),
		DesignRationale:         design.DesignRationale,
		KeyFeatures:             design.KeyFeatures,
	}
}

// assessRequest 评估请求体
type assessRequest struct {
	Design              designSummary                         `json:"design_summary"`
	DeterministicResult *models.DeterministicValidationResult `json:"deterministic_result,omitempty"`
}

// assessResponse 评估服务响应体
type assessResponse struct {
	Status string                      `json:"status"`
	Msg    string                      `json:"msg"`
	Data   *models.LLMValidationResult `json:"data"`
}

// Client 评估服务客户端,实现 validation.Assessor
type Client struct{}

// NewClient 创建评估客户端
func NewClient() *Client {
	return &Client{}
}

// Assess 请求评估服务对设计做概率性评估
func (c *Client) Assess(ctx context.Context, design *models.NetworkDesign, det *models.DeterministicValidationResult) (*models.LLMValidationResult, error) {
	body, err := json.Marshal(assessRequest{Design: summarize(design), DeterministicResult: det})
	if err != nil {
		return nil, fmt.Errorf("构造评估请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, AssessorUrl+"/api/v1/assess", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("评估服务返回状态码 %d", resp.StatusCode)
	}

	var assessResp assessResponse
	if err = json.NewDecoder(resp.Body).Decode(&assessResp); err != nil {
		return nil, fmt.Errorf("解析评估响应失败: %w", err)
	}
	if assessResp.Data == nil {
		return nil, fmt.Errorf("评估响应为空: %s", assessResp.Msg)
	}

	result := assessResp.Data
	if result.OverallScore < 0 || result.OverallScore > 1 {
		return nil, fmt.Errorf("评估得分 %f 超出 [0,1] 区间", result.OverallScore)
	}
	return result, nil
}
