/*
 * @module service/validation/script_rule
 * @description 脚本规则,管理端提交的 Go 片段经 yaegi 解释后包装为标准规则
 * @architecture 解释器模式 - 脚本注册时编译一次,执行时复用编译结果
 * @documentReference dev_docs/requirements.md
 * @stateFlow 脚本提交 -> 编译校验 -> 包装注册 -> 流水线执行
 * @rules 脚本必须提供 Check(design map[string]interface{}) (bool, float64, string) 入口
 * @dependencies github.com/traefik/yaegi
 * @refs service/validation/registry
 */

package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"netdesign-service/service/models"
)

// scriptCheckFunc 脚本规则入口函数签名
type scriptCheckFunc func(design map[string]interface{}) (bool, float64, string)

// ScriptRule 由 Go 脚本驱动的自定义规则
type ScriptRule struct {
	BaseRule
	check scriptCheckFunc
}

// NewScriptRule 编译脚本并包装为规则,脚本非法时返回错误
func NewScriptRule(meta Metadata, script string) (*ScriptRule, error) {
	check, err := compileScript(script)
	if err != nil {
		return nil, err
	}
	return &ScriptRule{BaseRule: NewBaseRule(meta), check: check}, nil
}

// compileScript 用 yaegi 编译脚本,要求脚本提供 Check 入口函数
func compileScript(script string) (scriptCheckFunc, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	wrapped := fmt.Sprintf(`
package main

import (
	"fmt"
	"strings"
	"math"
)

// 必须提供一个 Check 函数作为入口
func Check(design map[string]interface{}) (bool, float64, string) {
%s
}
`, script)

	if _, err := i.Eval(wrapped); err != nil {
		return nil, fmt.Errorf("脚本编译失败: %w", err)
	}

	v, err := i.Eval("Check")
	if err != nil {
		return nil, fmt.Errorf("脚本缺少 Check 函数: %w", err)
	}
	check, ok := v.Interface().(func(map[string]interface{}) (bool, float64, string))
	if !ok {
		return nil, fmt.Errorf("Check 函数签名必须是 func(map[string]interface{}) (bool, float64, string)")
	}
	return check, nil
}

func (r *ScriptRule) Validate(_ context.Context, design *models.NetworkDesign) *models.RuleValidationResult {
	start := time.Now()
	res := NewResult(r.Metadata())

	// 设计文档经 JSON 转换为通用 map,避免脚本依赖内部类型
	raw, err := json.Marshal(design)
	if err != nil {
		res.Passed = false
		res.Score = 0
		res.Severity = models.SeverityError
		res.Message = fmt.Sprintf("设计文档序列化失败: %v", err)
		return FinishResult(res, start)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		res.Passed = false
		res.Score = 0
		res.Severity = models.SeverityError
		res.Message = fmt.Sprintf("设计文档转换失败: %v", err)
		return FinishResult(res, start)
	}

	passed, score, message := r.check(doc)
	res.Passed = passed
	res.Score = score
	res.Message = message
	return FinishResult(res, start)
}
