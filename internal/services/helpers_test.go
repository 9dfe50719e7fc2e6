package services

import "configly/internal/pagination"

func pageRequest(page, size int) pagination.PageRequest {
	return pagination.PageRequest{Page: page, PageSize: size}
}
