package apimodels

const (
	statusSuccess = "success"
	statusFail    = "fail"

	defaultPageSize = 20
	maxPageSize     = 200
)

type Response struct {
	Status  string      `json:"status"`            // success/fail
	Message string      `json:"message,omitempty"` // текст ошибки для пользователя
	Data    interface{} `json:"data,omitempty"`
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count"` // всего записей по фильтру
}

func NewError(message string) Response {
	return Response{
		Status:  statusFail,
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: statusSuccess,
		Data:   data,
	}
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: NewResponse(data),
		RowCount: rowCount,
	}
}

type Pagination struct {
	Limit int `json:"limit" validate:"gte=0"` // записей на странице, не больше 200
	Page  int `json:"page" validate:"gte=0"`  // страница с 1
}

func (r Pagination) Validate() error {
	return ValidateStruct(r)
}

func (r Pagination) GetPage() (page, limit int) {
	page = max(r.Page, 1)
	limit = r.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	return page, min(limit, maxPageSize)
}

// GetOffset смещение и размер страницы для запроса к БД
func (r Pagination) GetOffset() (offset, limit int) {
	page, limit := r.GetPage()
	return (page - 1) * limit, limit
}
