package schemas

// CustomError is the error payload returned to clients
// Message is a human-readable description, Code a stable identifier
type CustomError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

var (
	BadRequest = &CustomError{
		Message: "The request body is invalid. Please check the request body and try again.",
		Code:    "ERR-001",
	}
	EmailTaken = &CustomError{
		Message: "The email is already taken. Please try another email.",
		Code:    "ERR-002",
	}
	EmailUnreachable = &CustomError{
		Message: "The email is unreachable. Please try another email.",
		Code:    "ERR-003",
	}
	UserNotVerified = &CustomError{
		Message: "The account has not been activated yet. Please follow the link in the activation mail.",
		Code:    "ERR-004",
	}
	UserAlreadyActivated = &CustomError{
		Message: "The account has already been activated.",
		Code:    "ERR-005",
	}
	InvalidToken = &CustomError{
		Message: "The activation link is invalid or has expired. Please request a new one.",
		Code:    "ERR-006",
	}
	InvalidCredentials = &CustomError{
		Message: "The credentials are invalid. Please check the credentials and try again.",
		Code:    "ERR-007",
	}
	MissingCredential = &CustomError{
		Message: "No token provided.",
		Code:    "ERR-008",
	}
	Unauthorized = &CustomError{
		Message: "You are not authorized. Please sign in and try again.",
		Code:    "ERR-009",
	}
	UserNotFound = &CustomError{
		Message: "The user was not found. Please check the email and try again.",
		Code:    "ERR-010",
	}
	FileNotFound = &CustomError{
		Message: "The file was not found.",
		Code:    "ERR-011",
	}
	FileForbidden = &CustomError{
		Message: "You are not allowed to access this file.",
		Code:    "ERR-012",
	}
	FileTooLarge = &CustomError{
		Message: "The file is too large.",
		Code:    "ERR-013",
	}
	FileTypeNotAllowed = &CustomError{
		Message: "The file type is not allowed.",
		Code:    "ERR-014",
	}
	DatabaseError = &CustomError{
		Message: "A database error occurred. Please try again later.",
		Code:    "ERR-015",
	}
	StorageError = &CustomError{
		Message: "The file storage is not available. Please try again later.",
		Code:    "ERR-016",
	}
	InternalServerError = &CustomError{
		Message: "An internal server error occurred. Please try again later.",
		Code:    "ERR-017",
	}
)
