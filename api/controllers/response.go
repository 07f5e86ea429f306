package controllers

// APIResponse 统一API响应结构,status字段与HTTP状态码一致
type APIResponse struct {
	Status int         `json:"status" example:"200"`
	Msg    string      `json:"msg" example:"验证完成"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse 分页响应结构,用于验证历史与设计列表查询
type PaginatedResponse struct {
	Status int         `json:"status" example:"200"`
	Msg    string      `json:"msg" example:"获取成功"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"42"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"10"`
}
