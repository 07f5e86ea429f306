/*
 * @module service/models/validation_result
 * @description 验证结果模型,包括单条规则结果、确定性汇总、LLM评估与最终组合结果
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规则执行 -> 分类汇总 -> 双轨组合 -> 持久化
 * @rules 分数统一在 [0,1] 区间,严重级别固定四档
 * @dependencies time
 * @refs service/validation
 */

package models

import "time"

// RuleCategory 规则类别
type RuleCategory string

const (
	CategoryCapacity   RuleCategory = "capacity"
	CategoryTopology   RuleCategory = "topology"
	CategoryProtocol   RuleCategory = "protocol"
	CategorySecurity   RuleCategory = "security"
	CategoryCompliance RuleCategory = "compliance"
)

// RuleSeverity 严重级别
type RuleSeverity string

const (
	SeverityInfo     RuleSeverity = "info"
	SeverityWarning  RuleSeverity = "warning"
	SeverityError    RuleSeverity = "error"
	SeverityCritical RuleSeverity = "critical"
)

// RuleValidationResult 单条规则的执行结果
type RuleValidationResult struct {
	RuleID             string                 `json:"rule_id"`
	RuleName           string                 `json:"rule_name"`
	Category           RuleCategory           `json:"category"`
	Severity           RuleSeverity           `json:"severity"`
	Passed             bool                   `json:"passed"`
	Score              float64                `json:"score"`
	Message            string                 `json:"message"`
	Details            map[string]interface{} `json:"details,omitempty"`
	Recommendation     string                 `json:"recommendation,omitempty"`
	AffectedComponents []string               `json:"affected_components,omitempty"`
	ExecutionTimeMs    float64                `json:"execution_time_ms"`
}

// ValidationIssue 从失败规则提炼出的问题条目
type ValidationIssue struct {
	IssueID            string       `json:"issue_id"`
	Category           RuleCategory `json:"category"`
	Severity           RuleSeverity `json:"severity"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	AffectedComponents []string     `json:"affected_components,omitempty"`
	Recommendation     string       `json:"recommendation,omitempty"`
	RuleID             string       `json:"rule_id"`
}

// DeterministicValidationResult 确定性规则轨道的汇总结果
type DeterministicValidationResult struct {
	OverallScore       float64                 `json:"overall_score"`
	Passed             bool                    `json:"passed"`
	CapacityResults    []*RuleValidationResult `json:"capacity_results"`
	TopologyResults    []*RuleValidationResult `json:"topology_results"`
	ProtocolResults    []*RuleValidationResult `json:"protocol_results"`
	SecurityResults    []*RuleValidationResult `json:"security_results"`
	ComplianceResults  []*RuleValidationResult `json:"compliance_results"`
	CriticalIssues     []*ValidationIssue      `json:"critical_issues"`
	Errors             []*ValidationIssue      `json:"errors"`
	Warnings           []*ValidationIssue      `json:"warnings"`
	TotalRulesExecuted int                     `json:"total_rules_executed"`
	RulesPassed        int                     `json:"rules_passed"`
	RulesFailed        int                     `json:"rules_failed"`
	ExecutionTimeMs    float64                 `json:"execution_time_ms"`
}

// LLMValidationResult 概率性评估轨道的结果
type LLMValidationResult struct {
	OverallScore          float64  `json:"overall_score"`
	Confidence            float64  `json:"confidence"`
	EdgeCaseAnalysis      string   `json:"edge_case_analysis,omitempty"`
	ContextualAssessment  string   `json:"contextual_assessment,omitempty"`
	BestPracticeEvaluation string  `json:"best_practice_evaluation,omitempty"`
	Concerns              []string `json:"concerns,omitempty"`
	Risks                 []string `json:"risks,omitempty"`
	Opportunities         []string `json:"opportunities,omitempty"`
	Recommendations       []string `json:"recommendations,omitempty"`
	AlternativeApproaches []string `json:"alternative_approaches,omitempty"`
	ModelUsed             string   `json:"model_used,omitempty"`
	TokensUsed            int      `json:"tokens_used,omitempty"`
	FallbackUsed          bool     `json:"fallback_used,omitempty"`
}

// ValidationResult 最终组合结果
type ValidationResult struct {
	ValidationID         string                         `json:"validation_id"`
	DesignID             string                         `json:"design_id"`
	OverallScore         float64                        `json:"overall_score"`
	DeterministicScore   float64                        `json:"deterministic_score"`
	LLMScore             float64                        `json:"llm_score"`
	DeterministicResult  *DeterministicValidationResult `json:"deterministic_result,omitempty"`
	LLMResult            *LLMValidationResult           `json:"llm_result,omitempty"`
	Passed               bool                           `json:"passed"`
	ValidationThreshold  float64                        `json:"validation_threshold"`
	AllIssues            []*ValidationIssue             `json:"all_issues"`
	CriticalCount        int                            `json:"critical_count"`
	ErrorCount           int                            `json:"error_count"`
	WarningCount         int                            `json:"warning_count"`
	Summary              string                         `json:"summary"`
	Explanation          string                         `json:"explanation,omitempty"`
	KeyFindings          []string                       `json:"key_findings,omitempty"`
	Recommendations      []string                       `json:"recommendations,omitempty"`
	RequiredChanges      []string                       `json:"required_changes,omitempty"`
	OptionalImprovements []string                       `json:"optional_improvements,omitempty"`
	ValidatedAt          time.Time                      `json:"validated_at"`
	ValidatedBy          string                         `json:"validated_by"`
	ValidationVersion    string                         `json:"validation_version"`
}

// ValidationRequest 验证请求参数
type ValidationRequest struct {
	DesignID             string   `json:"design_id,omitempty"`
	ValidationMode       string   `json:"validation_mode,omitempty"`
	IncludeLLMValidation *bool    `json:"include_llm_validation,omitempty"`
	CustomRules          []string `json:"custom_rules,omitempty"`
	SkipRules            []string `json:"skip_rules,omitempty"`
}

// IncludeLLM 是否启用概率性评估轨道,默认启用
func (r *ValidationRequest) IncludeLLM() bool {
	if r == nil || r.IncludeLLMValidation == nil {
		return true
	}
	return *r.IncludeLLMValidation
}
