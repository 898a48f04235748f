package conversation

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ChatGPTAdapter parses ChatGPT conversation exports, including the
// "mapping" node graph used by the official data export.
type ChatGPTAdapter struct{}

// Platform implements Adapter.
func (a *ChatGPTAdapter) Platform() Platform {
	return PlatformChatGPT
}

// Parse implements Adapter.
func (a *ChatGPTAdapter) Parse(data []byte) ([]Conversation, error) {
	return decodeExport(data, a.conversation)
}

func (a *ChatGPTAdapter) conversation(obj gjson.Result) Conversation {
	conv := Conversation{
		ID:        identifier(obj, "id", "conversation_id", "uuid"),
		Title:     text(first(obj, "title", "name")),
		Platform:  PlatformChatGPT,
		Messages:  make([]Message, 0),
		CreatedAt: timestamp(obj, "create_time", "created_at"),
		UpdatedAt: timestamp(obj, "update_time", "updated_at"),
		Metadata:  raw(obj),
	}

	nodes := first(obj, "mapping", "messages", "items")
	var ordered []gjson.Result
	if nodes.IsObject() {
		ordered = mappingOrder(nodes)
	} else {
		each(nodes, func(n gjson.Result) { ordered = append(ordered, n) })
	}

	for _, n := range ordered {
		if msg, ok := a.message(n); ok {
			conv.Messages = append(conv.Messages, msg)
		}
	}
	return conv
}

// mappingOrder returns mapping nodes sorted by their create_time (or
// timestamp), keeping document order for nodes without one.
func mappingOrder(mapping gjson.Result) []gjson.Result {
	nodes := make([]gjson.Result, 0)
	mapping.ForEach(func(_, n gjson.Result) bool {
		if n.IsObject() {
			nodes = append(nodes, n)
		}
		return true
	})

	sortKey := func(n gjson.Result) float64 {
		if v := first(n, "create_time", "timestamp"); v.Type == gjson.Number {
			return v.Num
		}
		return 0
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return sortKey(nodes[i]) < sortKey(nodes[j])
	})
	return nodes
}

func (a *ChatGPTAdapter) message(node gjson.Result) (Message, bool) {
	data := node
	if m := node.Get("message"); m.Exists() {
		// Root nodes of a mapping carry "message": null.
		if !m.IsObject() {
			return Message{}, false
		}
		data = m
	}

	var body string
	if parts := data.Get("content.parts"); parts.IsArray() && len(parts.Array()) > 0 {
		rendered := make([]string, 0, len(parts.Array()))
		for _, p := range parts.Array() {
			rendered = append(rendered, text(p))
		}
		body = strings.Join(rendered, "\n")
	} else if body = content(data.Get("content")); body == "" {
		body = content(data.Get("text"))
	}
	if body == "" {
		return Message{}, false
	}

	return Message{
		Role:      chatGPTRole(text(first(data, "author.role", "role"))),
		Content:   body,
		Timestamp: timestamp(data, "create_time", "timestamp", "created_at"),
		Metadata:  raw(data),
	}, true
}

func chatGPTRole(role string) Role {
	switch role {
	case "user":
		return RoleUser
	case "assistant", "chatgpt", "gpt":
		return RoleAssistant
	default:
		return RoleSystem
	}
}
