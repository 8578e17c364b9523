// Package response содержит единый конверт ответа API.
package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope - все ответы API имеют эту форму
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    *string     `json:"message"`
	Data       interface{} `json:"data"`
}

// New собирает конверт; success вычисляется из статуса
func New(status int, message string, data interface{}) Envelope {
	env := Envelope{
		Success:    status >= 200 && status < 400,
		StatusCode: status,
		Data:       data,
	}
	if message != "" {
		env.Message = &message
	}
	return env
}

// JSON пишет конверт в ответ
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, New(status, message, data))
}

// AbortJSON пишет конверт и останавливает цепочку middleware
func AbortJSON(c *gin.Context, status int, message string, data interface{}) {
	c.AbortWithStatusJSON(status, New(status, message, data))
}

// PagedResult - страница результатов для списков
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
}

// NewPaged гарантирует непустой массив items в JSON
func NewPaged[T any](items []T, total int64, page, size int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{Items: items, Total: total, PageNumber: page, PageSize: size}
}
