package models

// NoticeLevel classifies notices shown to the operator.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the user-facing notification attached to console responses.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Title string      `json:"title"`
	Text  string      `json:"text,omitempty"`
}

// Success builds a success notice.
func Success(title, text string) *Notice {
	return &Notice{Level: NoticeSuccess, Title: title, Text: text}
}

// Warning builds a warning notice.
func Warning(title, text string) *Notice {
	return &Notice{Level: NoticeWarning, Title: title, Text: text}
}

// Failure builds an error notice.
func Failure(title, text string) *Notice {
	return &Notice{Level: NoticeError, Title: title, Text: text}
}

// OutboundMessage is a text notification pushed to an external channel.
type OutboundMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
}
