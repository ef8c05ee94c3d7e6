package model

// Pagination 分页描述，由后端在每次查询时重新计算
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NewPagination 规范化请求页码：page_size 缺省为 20、上限 100；
// page 小于 1 取 1，超过总页数时取最后一页，空结果集固定为第 1 页
func NewPagination(page, pageSize int, total int64) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if page < 1 {
		page = 1
	}
	if totalPages == 0 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// QuestionPage GET /questions/ 的响应
type QuestionPage struct {
	Questions  []Question `json:"questions"`
	Pagination Pagination `json:"pagination"`
}
