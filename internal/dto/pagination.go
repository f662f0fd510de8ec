package dto

// ── 分页请求 ──

// PageQuery 通用 limit / offset 分页参数
type PageQuery struct {
	Limit  int `form:"limit"  binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// GetLimit 获取每页数量，未传时使用各接口默认值
func (p *PageQuery) GetLimit(def int) int {
	if p.Limit <= 0 {
		return def
	}
	return p.Limit
}

// GetOffset 获取偏移量
func (p *PageQuery) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// ParseBoolFilter 将 "true"/"false" 解析为三态过滤条件，其余取值视为不过滤
func ParseBoolFilter(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
