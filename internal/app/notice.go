package app

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a non-fatal message for the UI. Load problems produce warnings
// and failed writes produce errors; neither stops the session.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}
