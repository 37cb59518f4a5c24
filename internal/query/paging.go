package query

import "math"

// MetaData describes where a page sits in the full filtered collection.
// It is serialized into the X-Pagination response header.
type MetaData struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// NewMetaData computes page totals; totalPages is ceil(totalCount/pageSize)
// and zero for an empty collection.
func NewMetaData(totalCount int, pageNumber, pageSize uint) MetaData {
	if pageSize == 0 {
		pageSize = 1
	}
	size := int(min(pageSize, math.MaxInt))
	totalPages := totalCount / size
	if totalCount%size != 0 {
		totalPages++
	}
	current := int(min(pageNumber, math.MaxInt))
	return MetaData{
		CurrentPage: current,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalCount:  totalCount,
		HasPrevious: current > 1,
		HasNext:     current < totalPages,
	}
}

// PagedList is one page of items plus its metadata.
type PagedList[T any] struct {
	Items    []T      `json:"items"`
	MetaData MetaData `json:"metaData"`
}

// NewPagedList wraps an already sliced page, e.g. one fetched with LIMIT/OFFSET.
func NewPagedList[T any](items []T, totalCount int, pageNumber, pageSize uint) PagedList[T] {
	if items == nil {
		items = []T{}
	}
	return PagedList[T]{Items: items, MetaData: NewMetaData(totalCount, pageNumber, pageSize)}
}

// ToPagedList slices source (already filtered and sorted) to page pageNumber.
// A page past the end yields no items but keeps accurate totals.
func ToPagedList[T any](source []T, pageNumber, pageSize uint) PagedList[T] {
	if pageNumber == 0 {
		pageNumber = 1
	}
	if pageSize == 0 {
		pageSize = 1
	}
	total := len(source)
	// compare page counts first so huge page numbers cannot wrap the offset
	pages := pageNumber - 1
	if pages > uint(total)/pageSize || pages*pageSize >= uint(total) {
		return NewPagedList([]T{}, total, pageNumber, pageSize)
	}
	skip := pages * pageSize
	end := skip + min(pageSize, uint(total)-skip)
	items := make([]T, end-skip)
	copy(items, source[skip:end])
	return NewPagedList(items, total, pageNumber, pageSize)
}

// Offset is the number of records skipped before page p, saturated at
// math.MaxInt64 (the largest OFFSET Postgres accepts).
func (p Parameters) Offset() uint64 {
	if p.PageNumber == 0 || p.PageSize == 0 {
		return 0
	}
	pages := uint64(p.PageNumber - 1)
	if pages > math.MaxInt64/uint64(p.PageSize) {
		return math.MaxInt64
	}
	return pages * uint64(p.PageSize)
}
