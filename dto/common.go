package dto

// PaginationQuery là query params phân trang chung
type PaginationQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
