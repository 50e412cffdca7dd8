package handler

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// NewFailureResponse reports a request that was understood but could not be
// completed, along with the partial result.
func NewFailureResponse(message string, data interface{}) *Response {
	return &Response{
		Status:  "error",
		Message: message,
		Data:    data,
	}
}
