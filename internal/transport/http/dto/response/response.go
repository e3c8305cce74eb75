package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope of every successful API reply.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse carries a stable error code plus a message safe to show.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

func MessageResponse(message string) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Error:   err,
		Details: details,
	}
}
