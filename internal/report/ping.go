package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theballaam96/candyctl/internal/discord"
)

// CommentPing is the Discord message for a new PR comment. An empty
// mention posts without pinging anyone.
func CommentPing(mention, prURL string) string {
	prefix := ""
	if mention != "" {
		prefix = "<@" + mention + "> "
	}
	return prefix + "New PR Comment: " + prURL
}

// LookupMention finds a GitHub login in discord_mapping.json, a JSON
// object of login to Discord user ID. It returns "" when the login is not
// listed.
func LookupMention(mapping []byte, login string) (string, error) {
	var ids map[string]any
	dec := json.NewDecoder(bytes.NewReader(mapping))
	dec.UseNumber()
	if err := dec.Decode(&ids); err != nil {
		return "", fmt.Errorf("parsing discord mapping: %w", err)
	}
	switch id := ids[login].(type) {
	case string:
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return "", nil
	}
}

// maxEmbedDescription is Discord's limit on an embed description.
const maxEmbedDescription = 4096

// CommentMessage is CommentPing plus, when text is set, an embed quoting
// the comment.
func CommentMessage(mention, prURL, user, text string) discord.Message {
	msg := discord.Message{Content: CommentPing(mention, prURL)}
	if text == "" {
		return msg
	}
	if r := []rune(text); len(r) > maxEmbedDescription {
		text = string(r[:maxEmbedDescription-1]) + "…"
	}
	title := "Comment"
	if user != "" {
		title = "Comment from " + user
	}
	msg.Embeds = []discord.Embed{{Title: title, Description: text}}
	return msg
}
