package models

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of an assistant conversation. Turns live only in
// the session buffer of a single connection and are never persisted.
type ChatMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
