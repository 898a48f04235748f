package conversation

import "github.com/tidwall/gjson"

// GeminiAdapter parses Gemini conversation exports.
type GeminiAdapter struct{}

// Platform implements Adapter.
func (a *GeminiAdapter) Platform() Platform {
	return PlatformGemini
}

// Parse implements Adapter.
func (a *GeminiAdapter) Parse(data []byte) ([]Conversation, error) {
	return decodeExport(data, a.conversation)
}

func (a *GeminiAdapter) conversation(obj gjson.Result) Conversation {
	conv := Conversation{
		ID:        identifier(obj, "conversation_id", "id", "uuid"),
		Title:     text(first(obj, "title", "name")),
		Platform:  PlatformGemini,
		Messages:  make([]Message, 0),
		CreatedAt: timestamp(obj, "created_at", "created"),
		UpdatedAt: timestamp(obj, "updated_at", "updated"),
		Metadata:  raw(obj),
	}

	each(first(obj, "messages", "items", "history"), func(n gjson.Result) {
		if msg, ok := a.message(n); ok {
			conv.Messages = append(conv.Messages, msg)
		}
	})
	return conv
}

func (a *GeminiAdapter) message(data gjson.Result) (Message, bool) {
	var body string
	if parts := data.Get("parts"); parts.IsArray() {
		if p := parts.Get("0.text"); p.Type == gjson.String {
			body = p.Str
		}
	}
	if body == "" {
		body = content(first(data, "text", "content"))
	}
	if body == "" {
		return Message{}, false
	}

	return Message{
		Role:      geminiRole(text(first(data, "role", "author.role"))),
		Content:   body,
		Timestamp: timestamp(data, "created_at", "timestamp", "created"),
		Metadata:  raw(data),
	}, true
}

func geminiRole(role string) Role {
	switch role {
	case "user", "human":
		return RoleUser
	case "model", "assistant", "gemini":
		return RoleAssistant
	default:
		return RoleSystem
	}
}
