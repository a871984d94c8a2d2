package dto

// Notice levels mirror notify.Level*.
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is the user-facing outcome message attached to mutating responses.
type Notice struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
