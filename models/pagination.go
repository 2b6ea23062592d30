package models

// PageMeta describes one page of a listing projection.
type PageMeta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPageMeta(page, pageSize int, totalItems int64) PageMeta {
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	return PageMeta{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && totalItems > 0,
	}
}
