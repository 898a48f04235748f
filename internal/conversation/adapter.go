package conversation

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Adapter converts one platform's export format into conversations.
type Adapter interface {
	// Platform returns the platform this adapter handles.
	Platform() Platform

	// Parse decodes a complete export document. It returns
	// ErrMalformedExport when data is not valid JSON.
	Parse(data []byte) ([]Conversation, error)
}

// adapters is the name table consulted by NewAdapter.
var adapters = map[Platform]func() Adapter{
	PlatformChatGPT: func() Adapter { return &ChatGPTAdapter{} },
	PlatformClaude:  func() Adapter { return &ClaudeAdapter{} },
	PlatformGemini:  func() Adapter { return &GeminiAdapter{} },
}

// NewAdapter returns the adapter registered for a platform name.
func NewAdapter(name string) (Adapter, error) {
	p, err := ParsePlatform(name)
	if err != nil {
		return nil, err
	}
	ctor, ok := adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
	}
	return ctor(), nil
}

// SupportedPlatforms lists the platforms with an adapter.
func SupportedPlatforms() []Platform {
	return []Platform{PlatformChatGPT, PlatformClaude, PlatformGemini}
}

// ParseFile reads an export file and decodes it with the given adapter.
func ParseFile(a Adapter, path string) ([]Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}

	convs, err := a.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s export %s: %w", a.Platform(), path, err)
	}
	return convs, nil
}

// decodeExport resolves the top-level shape of an export and converts every
// conversation object with fn. Accepted shapes are an array, an object with a
// "conversations" or "items" member, or a single conversation object.
func decodeExport(data []byte, fn func(gjson.Result) Conversation) ([]Conversation, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedExport
	}

	root := gjson.ParseBytes(data)
	var items gjson.Result
	switch {
	case root.IsArray():
		items = root
	case root.IsObject():
		if c := root.Get("conversations"); c.Exists() {
			items = c
		} else if c := root.Get("items"); c.Exists() {
			items = c
		} else {
			return []Conversation{fn(root)}, nil
		}
	default:
		return nil, fmt.Errorf("%w: top-level value must be an array or object", ErrMalformedExport)
	}

	convs := make([]Conversation, 0)
	items.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			convs = append(convs, fn(item))
		}
		return true
	})
	return convs, nil
}
