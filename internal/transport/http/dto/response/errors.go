package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  StatusError,
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  StatusError,
		Error:   "authentication_failed",
		Details: "Invalid email or password",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Status: StatusError,
		Error:  "authentication_required",
	}

	ErrAdminRequired = ErrorResponse{
		Status: StatusError,
		Error:  "admin_access_required",
	}

	ErrNotFound = ErrorResponse{
		Status: StatusError,
		Error:  "not_found",
	}

	ErrSlugExists = ErrorResponse{
		Status:  StatusError,
		Error:   "slug_exists",
		Details: "A post with this title already exists",
	}

	ErrTooManyRequests = ErrorResponse{
		Status:  StatusError,
		Error:   "too_many_requests",
		Details: "Too many requests, please try again later",
	}

	ErrFileTooLarge = ErrorResponse{
		Status: StatusError,
		Error:  "file_too_large",
	}

	ErrUnsupportedMediaType = ErrorResponse{
		Status: StatusError,
		Error:  "unsupported_media_type",
	}

	ErrInternal = ErrorResponse{
		Status:  StatusError,
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
