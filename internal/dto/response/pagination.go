package response

import "movie-reservation/pkg/utils"

type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// Paginate slices one page out of the full result set.
func Paginate[T any](all []T, page, perPage int) *PaginatedResponse[T] {
	return &PaginatedResponse[T]{
		Data: utils.PageOf(all, page, perPage),
		Pagination: PaginationMeta{
			Total:      int64(len(all)),
			Page:       page,
			PerPage:    perPage,
			TotalPages: utils.CalculateTotalPages(int64(len(all)), perPage),
		},
	}
}
