package dto

import "Blogstone/internal/pkg/util"

// PageDetails 分页信息，Next / Previous 为页码或 false
type PageDetails struct {
	TotalRecords int64     `json:"totalRecords"`
	TotalPages   int64     `json:"totalPages"`
	Page         int64     `json:"page"`
	Limit        int64     `json:"limit"`
	Pages        PageLinks `json:"pages"`
}

type PageLinks struct {
	Next     any `json:"next"`
	Previous any `json:"previous"`
}

func NewPageDetails(total, page, limit int64) *PageDetails {
	totalPages := util.TotalPages(total, limit)

	links := PageLinks{Next: false, Previous: false}
	if page < totalPages {
		links.Next = page + 1
	}
	if page > 1 {
		links.Previous = page - 1
	}

	return &PageDetails{
		TotalRecords: total,
		TotalPages:   totalPages,
		Page:         page,
		Limit:        limit,
		Pages:        links,
	}
}
