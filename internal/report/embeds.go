package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/discord"
	"github.com/theballaam96/candyctl/internal/submission"
)

const notProvided = "Not Provided"

type actionHeader struct {
	text  string
	color int
}

var actionHeaders = map[string]actionHeader{
	"closed":           {"A pull request was closed", 0xFF0000},
	"ready_for_review": {"A pull request was marked as ready for review", 0xD700A7},
	"reopened":         {"A pull request was reopened", 0x9FD700},
	"edited":           {"A pull request was edited", 0xFCCA03},
	"synchronize":      {"A pull request was synchronized", 0xFCCA03},
	"opened":           {"New Pull Request", 0x03FC0F},
}

// ActionHeader returns the headline and embed colour for a pull request
// event action.
func ActionHeader(action string) (string, int) {
	if h, ok := actionHeaders[action]; ok {
		return h.text, h.color
	}
	return fmt.Sprintf("A pull request action (%s)", action), 0x03FC0F
}

var categoryNames = map[string]string{
	"bgm":        "BGM",
	"events":     "Event",
	"majoritems": "Major Item",
	"minoritems": "Minor Item",
}

// CategoryName expands a category short name. Unknown names are returned
// unchanged.
func CategoryName(short string) string {
	if long, ok := categoryNames[short]; ok {
		return long
	}
	return short
}

// Submission is a pull request as shown to the verifiers.
type Submission struct {
	IsSong    bool
	Submitter string
	PRURL     string
	Record    catalog.Record
	NewGame   bool
	BinaryURL string
	MIDIURL   string
}

// SubmissionMessage renders the verifier notification for a PR event.
func SubmissionMessage(s Submission, action string, now time.Time) discord.Message {
	text, color := ActionHeader(action)
	msg := discord.Message{Content: fmt.Sprintf("%s from %s", text, s.Submitter)}

	if !s.IsSong {
		msg.Components = []discord.ActionRow{discord.Row(discord.LinkButton("Pull Request", s.PRURL))}
		return msg
	}

	r := s.Record
	duration := "0"
	if v, ok := r.Get(catalog.FieldDuration); ok {
		duration = submission.FormatValue(v)
	}
	desc := describe([][2]string{
		{"Game", value(r, catalog.FieldGame)},
		{"Song Name", value(r, catalog.FieldSong)},
		{"Original Composer", value(r, catalog.FieldComposers)},
		{"Converted By", value(r, catalog.FieldConverters)},
		{"Type", value(r, catalog.FieldCategory)},
		{"Tags", value(r, catalog.FieldTags)},
		{"Needs a logo", yesNo(s.NewGame)},
		{"Duration", duration},
		{"Update Notes", value(r, catalog.FieldUpdateNotes)},
		{"Additional Notes", value(r, catalog.FieldAdditionalNotes)},
	})
	msg.Embeds = []discord.Embed{{
		Title:       "New Song Pull Request",
		Color:       color,
		Description: desc,
		Timestamp:   now.UTC().Format(time.RFC3339),
	}}

	var buttons []discord.Button
	for _, b := range []struct{ label, url string }{
		{"Pull Request", s.PRURL},
		{"Binary File", s.BinaryURL},
		{"MIDI File", s.MIDIURL},
		{"YouTube", r.String(catalog.FieldAudio)},
	} {
		if b.url != "" {
			buttons = append(buttons, discord.LinkButton(b.label, b.url))
		}
	}
	msg.Components = []discord.ActionRow{discord.Row(buttons...)}
	return msg
}

// Announcement is a merged song as shown in the public channel.
type Announcement struct {
	Record          catalog.Record
	IsUpdate        bool
	BinaryLink      string
	PreviewAttached bool
}

// AnnouncementMessage renders the public post for a newly appended song.
func AnnouncementMessage(a Announcement, now time.Time) discord.Message {
	r := a.Record
	desc := [][2]string{
		{"Game", value(r, catalog.FieldGame)},
		{"Song Name", value(r, catalog.FieldSong)},
		{"Type", categoryValue(r)},
		{"Tags", value(r, catalog.FieldTags)},
	}
	if r.Has(catalog.FieldUpdateNotes) {
		desc = append(desc, [2]string{"Additional Notes", value(r, catalog.FieldUpdateNotes)})
	}
	prefix := ""
	if a.IsUpdate {
		prefix = ":watermelon: This song is an update\n"
	}

	listen := "No Preview"
	audio := r.String(catalog.FieldAudio)
	switch {
	case a.PreviewAttached:
		listen = "*(Attached)*"
	case audio != "":
		listen = audio
	}

	embed := discord.Embed{
		Title:       value(r, catalog.FieldSong),
		Description: prefix + describe(desc),
		Fields: []discord.Field{
			{Name: "Composer(s)", Value: value(r, catalog.FieldComposers), Inline: true},
			{Name: "Converted By", Value: value(r, catalog.FieldConverters), Inline: true},
			{Name: "Listen", Value: listen, Inline: true},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	var buttons []discord.Button
	if a.BinaryLink != "" {
		buttons = append(buttons, discord.LinkButton("Binary File", a.BinaryLink))
	}
	if !a.PreviewAttached && audio != "" {
		buttons = append(buttons, discord.LinkButton(audioLabel(audio), audio))
	}

	msg := discord.Message{Content: "A new song has been uploaded", Embeds: []discord.Embed{embed}}
	if len(buttons) > 0 {
		msg.Components = []discord.ActionRow{discord.Row(buttons...)}
	}
	return msg
}

func audioLabel(link string) string {
	if strings.Contains(link, "youtube.com") || strings.Contains(link, "youtu.be") {
		return "YouTube"
	}
	return "Preview"
}

func categoryValue(r catalog.Record) string {
	v, ok := r.Get(catalog.FieldCategory)
	if !ok {
		return notProvided
	}
	return CategoryName(submission.FormatValue(v))
}

// value renders a field for display, or "Not Provided".
func value(r catalog.Record, key string) string {
	v, ok := r.Get(key)
	if !ok {
		return notProvided
	}
	s := submission.FormatValue(v)
	if s == "" {
		return notProvided
	}
	return s
}

func describe(pairs [][2]string) string {
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		lines[i] = fmt.Sprintf("**%s**: %s", p[0], p[1])
	}
	return strings.Join(lines, "\n")
}
