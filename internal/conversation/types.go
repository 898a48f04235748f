package conversation

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies the AI assistant product an export came from.
type Platform string

const (
	PlatformChatGPT Platform = "chatgpt"
	PlatformClaude  Platform = "claude"
	PlatformGemini  Platform = "gemini"
	PlatformOther   Platform = "other"
)

// ParsePlatform resolves a platform name case-insensitively.
func ParsePlatform(name string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(name))); p {
	case PlatformChatGPT, PlatformClaude, PlatformGemini, PlatformOther:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
	}
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Conversation is a normalized conversation thread.
// Platform is empty when the source did not identify one.
type Conversation struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	Platform  Platform       `json:"platform,omitempty"`
	Messages  []Message      `json:"messages"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Text returns all message contents joined by a newline. Offsets reported by
// the extraction engine are relative to this buffer.
func (c *Conversation) Text() string {
	switch len(c.Messages) {
	case 0:
		return ""
	case 1:
		return c.Messages[0].Content
	}

	var b strings.Builder
	for i, msg := range c.Messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(msg.Content)
	}
	return b.String()
}

// LastActivity returns the updated time, else the created time, else nil.
func (c *Conversation) LastActivity() *time.Time {
	if c.UpdatedAt != nil {
		return c.UpdatedAt
	}
	return c.CreatedAt
}
