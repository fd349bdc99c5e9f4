package chat

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AssistantIcon is the fixed glyph for assistant messages; FallbackIcon
// is substituted when a stored record carries no icon.
const (
	AssistantIcon = "🤖"
	FallbackIcon  = "👤"
)

// Message is one record of the shared chatroom history. SenderName is
// set for user messages only. The order of records in the store equals
// display order.
type Message struct {
	Role       string `json:"role"`
	Icon       string `json:"icon"`
	Content    string `json:"content"`
	SenderName string `json:"sender_name,omitempty"`
}

// DisplayIcon returns the record's glyph, falling back when absent.
func (m Message) DisplayIcon() string {
	if m.Icon == "" {
		return FallbackIcon
	}
	return m.Icon
}
