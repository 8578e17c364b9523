package dto

// PageQuery - параметры пагинации ?pageNumber=&pageSize=
type PageQuery struct {
	PageNumber int `form:"pageNumber" json:"pageNumber" validate:"omitempty,gte=1"`
	PageSize   int `form:"pageSize" json:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize подставляет значения по умолчанию
func (q PageQuery) Normalize() PageQuery {
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}
