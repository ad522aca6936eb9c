package discord

// Component types and button styles used by link buttons.
const (
	ComponentActionRow = 1
	ComponentButton    = 2
	ButtonStyleLink    = 5
)

// Message is a webhook execute payload.
type Message struct {
	Content    string      `json:"content"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []ActionRow `json:"components,omitempty"`
}

// Embed is a rich message block.
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// Field is a name/value pair inside an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// ActionRow holds up to five buttons.
type ActionRow struct {
	Type       int      `json:"type"`
	Components []Button `json:"components"`
}

// Button is a message component. Only link buttons are used.
type Button struct {
	Type  int    `json:"type"`
	Style int    `json:"style"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// LinkButton returns a button that opens url.
func LinkButton(label, url string) Button {
	return Button{Type: ComponentButton, Style: ButtonStyleLink, Label: label, URL: url}
}

// Row wraps buttons in an action row.
func Row(buttons ...Button) ActionRow {
	if buttons == nil {
		buttons = []Button{}
	}
	return ActionRow{Type: ComponentActionRow, Components: buttons}
}
