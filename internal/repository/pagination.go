package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数。pageSize <= 0 视为关闭分页，返回全量查询，
// 调用方（handler 层）已做归一化，这里只兜底非法值。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
