package models

// DefaultChannel is used by the channel endpoint when the request carries no canal.
const DefaultChannel = "canal1"

type PublishRequest struct {
	Email    string `json:"email" validate:"required"`
	Mensagem string `json:"mensagem" validate:"required"`
	Canal    string `json:"canal,omitempty"`
}

type PublishResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// QueueMessage is the content stored in the queue for every published message.
type QueueMessage struct {
	Email string `json:"email"`
	Msg   string `json:"msg"`
}
