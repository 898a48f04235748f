// Package conversation normalizes chat-history exports from AI assistant
// platforms into a common conversation model.
//
// The package supports:
//   - ChatGPT, Claude and Gemini JSON exports
//   - Top-level arrays, {"conversations": [...]}, {"items": [...]} and single
//     conversation objects
//   - Fallback chains over the field names each platform has used over time
//   - Lenient timestamp parsing (epoch numbers and ISO-8601-like strings)
//
// # Architecture
//
// The main components are:
//   - Conversation and Message: the normalized model consumed by the
//     extraction engine
//   - Adapter: one implementation per Platform, resolved by name with
//     NewAdapter
//   - ParseTimestamp: shared timestamp normalization
//
// # Usage
//
//	adapter, err := conversation.NewAdapter("chatgpt")
//	if err != nil {
//	    return err
//	}
//	convs, err := conversation.ParseFile(adapter, "conversations.json")
//
// Messages whose content resolves to an empty string are dropped. Timestamps
// that cannot be parsed are left nil and never produce an error.
package conversation
