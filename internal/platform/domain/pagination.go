package domain

// CurrencyUSD is the only currency bookings are priced in.
const CurrencyUSD = "USD"

// PaginatedResult is one page of items plus the total count.
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginatedResult wraps items with paging metadata.
func NewPaginatedResult[T any](items []T, total int64, page, limit int) PaginatedResult[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	if items == nil {
		items = []T{}
	}
	return PaginatedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Paginate slices an in-memory result set to the requested page.
func Paginate[T any](items []T, page, limit int) PaginatedResult[T] {
	if page < 1 {
		page = 1
	}
	total := int64(len(items))
	if limit < 1 {
		return NewPaginatedResult(items, total, page, limit)
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return NewPaginatedResult([]T{}, total, page, limit)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return NewPaginatedResult(items[start:end], total, page, limit)
}
