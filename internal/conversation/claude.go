package conversation

import "github.com/tidwall/gjson"

// ClaudeAdapter parses Claude conversation exports.
type ClaudeAdapter struct{}

// Platform implements Adapter.
func (a *ClaudeAdapter) Platform() Platform {
	return PlatformClaude
}

// Parse implements Adapter.
func (a *ClaudeAdapter) Parse(data []byte) ([]Conversation, error) {
	return decodeExport(data, a.conversation)
}

func (a *ClaudeAdapter) conversation(obj gjson.Result) Conversation {
	conv := Conversation{
		ID:        identifier(obj, "uuid", "id", "conversation_uuid"),
		Title:     text(first(obj, "title", "name")),
		Platform:  PlatformClaude,
		Messages:  make([]Message, 0),
		CreatedAt: timestamp(obj, "created_at", "created"),
		UpdatedAt: timestamp(obj, "updated_at", "updated"),
		Metadata:  raw(obj),
	}

	each(first(obj, "chat_messages", "messages", "items"), func(n gjson.Result) {
		if msg, ok := a.message(n); ok {
			conv.Messages = append(conv.Messages, msg)
		}
	})
	return conv
}

func (a *ClaudeAdapter) message(data gjson.Result) (Message, bool) {
	body := content(first(data, "text", "content"))
	if body == "" {
		return Message{}, false
	}

	return Message{
		Role:      claudeRole(data),
		Content:   body,
		Timestamp: timestamp(data, "created_at", "timestamp", "created"),
		Metadata:  raw(data),
	}, true
}

// claudeRole reads sender.role, a bare "sender" string as written by the
// claude.ai export, then role.
func claudeRole(data gjson.Result) Role {
	role := text(data.Get("sender.role"))
	if role == "" {
		if s := data.Get("sender"); s.Type == gjson.String {
			role = s.Str
		}
	}
	if role == "" {
		role = text(data.Get("role"))
	}

	switch role {
	case "human", "user":
		return RoleUser
	case "assistant", "claude":
		return RoleAssistant
	default:
		return RoleSystem
	}
}
