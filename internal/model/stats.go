package model

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total rows at the given limit.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// StatsResponse is the admin dashboard summary.
type StatsResponse struct {
	TotalVideos    int `json:"totalVideos"`
	PendingVideos  int `json:"pendingVideos"`
	ApprovedVideos int `json:"approvedVideos"`
	RejectedVideos int `json:"rejectedVideos"`
	FeaturedVideos int `json:"featuredVideos"`
	TotalCreators  int `json:"totalCreators"`
	TotalRatings   int `json:"totalRatings"`
}
