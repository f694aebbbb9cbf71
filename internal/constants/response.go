package constants

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ApiResponse is the success envelope every endpoint answers with.
type ApiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ApiError is the failure envelope. Errors carries per-field validation details when present.
type ApiError struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Errors     any    `json:"errors,omitempty"`
}

// Pagination Parameters Struct - Core pagination only
type PaginationParams struct {
	Page   int // Page number from user request (default: 1)
	Limit  int // Limit per page from user request (default: 10)
	Offset int // Calculated offset (page - 1) * limit
}

// ParsePaginationParams parses basic pagination parameters (page, limit only)
func ParsePaginationParams(c *gin.Context) PaginationParams {
	pageStr := c.DefaultQuery(QueryParamPage, DefaultPage)
	limitStr := c.DefaultQuery(QueryParamLimit, DefaultLimit)

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	page = ClampPage(page)
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: PageOffset(page, limit),
	}
}

// TotalPages rounds total/limit up; zero rows still yields zero pages.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Response Format Functions
func BuildSuccessResponse(statusCode int, data any, message string) ApiResponse {
	if data == nil {
		data = gin.H{}
	}
	return ApiResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

func BuildErrorResponse(statusCode int, message string, details any) ApiError {
	return ApiError{
		StatusCode: statusCode,
		Data:       nil,
		Message:    message,
		Success:    false,
		Errors:     details,
	}
}
