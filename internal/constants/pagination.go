package constants

// Pagination Query Parameters
const (
	QueryParamPage     = "page"
	QueryParamLimit    = "limit"
	QueryParamQuery    = "query"
	QueryParamSortBy   = "sortBy"
	QueryParamSortType = "sortType"
	QueryParamUserID   = "userId"
	QueryParamTags     = "tags"
	QueryParamSearch   = "q"
)

// Default Pagination Values (as strings for query parsing)
const (
	DefaultPage     = "1"
	DefaultLimit    = "10"
	DefaultSortBy   = "createdAt"
	DefaultSortType = OrderDesc
)

// Pagination Limits (as integers for validation)
const (
	MinPage       = 1
	MaxPage       = 10000
	MinLimit      = 1
	MaxLimit      = 100
	DefaultOffset = 0
)

// ClampPage keeps page inside [MinPage, MaxPage] so page*limit can never overflow an offset.
func ClampPage(page int) int {
	return min(max(page, MinPage), MaxPage)
}

// PageOffset is the row offset of a clamped page.
func PageOffset(page, limit int) int {
	return (ClampPage(page) - 1) * limit
}

// Sort Orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)
