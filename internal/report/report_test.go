package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theballaam96/candyctl/internal/catalog"
	"github.com/theballaam96/candyctl/internal/report"
	"github.com/theballaam96/candyctl/internal/submission"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func record(pairs ...any) catalog.Record {
	r := catalog.NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

// --- AnalysisComment ---

func TestAnalysisComment_NotSong(t *testing.T) {
	got, err := report.AnalysisComment(report.Analysis{})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Mornin'",
		"",
		"I've analyzed your pull request and ascertained the following information from it. This will help the verifiers handle your request faster:",
		"> Is Song Upload: No",
		"> Something needs changing: No",
		"",
	}, "\n"), got)
}

func TestAnalysisComment_Song(t *testing.T) {
	a := report.Analysis{
		IsSong: true,
		Record: record("Game", "Mario Kart", "Song", "Rainbow Road", "Binary", "binaries/Mario Kart/Rainbow Road.bin"),
		Validation: submission.Result{
			Missing:       []string{"Category"},
			Unknown:       []string{"Composer"},
			NeedsChanging: true,
		},
		NewGame:      true,
		SimilarGame:  "Mario Kart 2",
		SimilarScore: 0.9166,
	}
	got, err := report.AnalysisComment(a)
	require.NoError(t, err)

	assert.Contains(t, got, "> Has Binary File: Yes\n> Has Preview: No\n")
	assert.Contains(t, got, "> Missing Mandatory Information: Category\n")
	assert.Contains(t, got, "> Headers which I don't understand: Composer\n")
	assert.Contains(t, got, "> Is new game: Yes\n> Detected as Similar to: Mario Kart 2 (Similarity Score: 91%)\n")
	assert.Contains(t, got, "> Something needs changing: YES!!! (PLEASE ENSURE YOU FIX ANY ERRORS SO THIS SAYS NO BEFORE MERGING)\n\n")
	assert.True(t, strings.HasSuffix(got, "Here's what the output will look like:\n```\n{\n    \"Game\": \"Mario Kart\",\n    \"Song\": \"Rainbow Road\",\n    \"Binary\": \"binaries/Mario Kart/Rainbow Road.bin\"\n}\n```"))
}

func TestAnalysisComment_CleanSong(t *testing.T) {
	a := report.Analysis{IsSong: true, Record: record("Game", "Tom & Jerry")}
	got, err := report.AnalysisComment(a)
	require.NoError(t, err)
	assert.Contains(t, got, "> Missing Mandatory Information: None\n")
	assert.Contains(t, got, "> Headers which I don't understand: None\n")
	assert.Contains(t, got, "> Is new game: No\n")
	assert.NotContains(t, got, "Detected as Similar")
	assert.Contains(t, got, "> Something needs changing: No\n")
	assert.Contains(t, got, `"Tom & Jerry"`)
}

// --- SubmissionMessage ---

func TestActionHeader(t *testing.T) {
	tests := []struct {
		action string
		text   string
		color  int
	}{
		{"opened", "New Pull Request", 0x03FC0F},
		{"closed", "A pull request was closed", 0xFF0000},
		{"ready_for_review", "A pull request was marked as ready for review", 0xD700A7},
		{"reopened", "A pull request was reopened", 0x9FD700},
		{"edited", "A pull request was edited", 0xFCCA03},
		{"synchronize", "A pull request was synchronized", 0xFCCA03},
		{"labeled", "A pull request action (labeled)", 0x03FC0F},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			text, color := report.ActionHeader(tt.action)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.color, color)
		})
	}
}

func TestSubmissionMessage_NotSong(t *testing.T) {
	msg := report.SubmissionMessage(report.Submission{Submitter: "candy", PRURL: "https://github.com/o/r/pull/1"}, "opened", now)
	assert.Equal(t, "New Pull Request from candy", msg.Content)
	assert.Empty(t, msg.Embeds)
	require.Len(t, msg.Components, 1)
	require.Len(t, msg.Components[0].Components, 1)
	assert.Equal(t, "Pull Request", msg.Components[0].Components[0].Label)
}

func TestSubmissionMessage_Song(t *testing.T) {
	s := report.Submission{
		IsSong:    true,
		Submitter: "candy",
		PRURL:     "https://github.com/o/r/pull/2",
		Record: record(
			"Game", "Donkey Kong 64",
			"Song", "Fungi Forest",
			"Category", "bgm",
			"Tags", []string{"Forest", "Calm"},
			"Duration", 94.5,
		),
		NewGame:   true,
		BinaryURL: "https://github.com/o/r/raw/abc/x.bin",
	}
	msg := report.SubmissionMessage(s, "closed", now)
	assert.Equal(t, "A pull request was closed from candy", msg.Content)
	require.Len(t, msg.Embeds, 1)
	e := msg.Embeds[0]
	assert.Equal(t, "New Song Pull Request", e.Title)
	assert.Equal(t, 0xFF0000, e.Color)
	assert.Equal(t, "2024-05-01T12:00:00Z", e.Timestamp)
	assert.Equal(t, strings.Join([]string{
		"**Game**: Donkey Kong 64",
		"**Song Name**: Fungi Forest",
		"**Original Composer**: Not Provided",
		"**Converted By**: Not Provided",
		"**Type**: bgm",
		"**Tags**: Forest, Calm",
		"**Needs a logo**: Yes",
		"**Duration**: 94.5",
		"**Update Notes**: Not Provided",
		"**Additional Notes**: Not Provided",
	}, "\n"), e.Description)

	buttons := msg.Components[0].Components
	require.Len(t, buttons, 2)
	assert.Equal(t, "Pull Request", buttons[0].Label)
	assert.Equal(t, "Binary File", buttons[1].Label)
}

// --- AnnouncementMessage ---

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "BGM", report.CategoryName("bgm"))
	assert.Equal(t, "Event", report.CategoryName("events"))
	assert.Equal(t, "Major Item", report.CategoryName("majoritems"))
	assert.Equal(t, "Minor Item", report.CategoryName("minoritems"))
	assert.Equal(t, "fanfare", report.CategoryName("fanfare"))
}

func TestAnnouncementMessage_Update(t *testing.T) {
	a := report.Announcement{
		Record: record(
			"Game", "Foo",
			"Song", "Bar",
			"Category", "events",
			"Composers", "A",
			"Update Notes", "Fixed loop",
			"Audio", "https://youtu.be/abc",
		),
		IsUpdate:   true,
		BinaryLink: "https://github.com/o/r/raw/main/binaries/Foo/Bar%20(REV%201).bin",
	}
	msg := report.AnnouncementMessage(a, now)
	assert.Equal(t, "A new song has been uploaded", msg.Content)
	e := msg.Embeds[0]
	assert.Equal(t, "Bar", e.Title)
	assert.Equal(t, ":watermelon: This song is an update\n"+strings.Join([]string{
		"**Game**: Foo",
		"**Song Name**: Bar",
		"**Type**: Event",
		"**Tags**: Not Provided",
		"**Additional Notes**: Fixed loop",
	}, "\n"), e.Description)
	assert.Equal(t, "A", e.Fields[0].Value)
	assert.Equal(t, "Not Provided", e.Fields[1].Value)
	assert.Equal(t, "https://youtu.be/abc", e.Fields[2].Value)

	buttons := msg.Components[0].Components
	require.Len(t, buttons, 2)
	assert.Equal(t, "Binary File", buttons[0].Label)
	assert.Equal(t, "YouTube", buttons[1].Label)
}

func TestAnnouncementMessage_Attached(t *testing.T) {
	a := report.Announcement{
		Record:          record("Game", "Foo", "Song", "Bar", "Category", "bgm", "Audio", "https://github.com/o/r/raw/main/previews/Foo/Bar.mp3"),
		BinaryLink:      "https://x/b.bin",
		PreviewAttached: true,
	}
	msg := report.AnnouncementMessage(a, now)
	e := msg.Embeds[0]
	assert.False(t, strings.HasPrefix(e.Description, ":watermelon:"))
	assert.NotContains(t, e.Description, "Additional Notes")
	assert.Equal(t, "*(Attached)*", e.Fields[2].Value)
	require.Len(t, msg.Components[0].Components, 1)
}

func TestAnnouncementMessage_NoPreview(t *testing.T) {
	msg := report.AnnouncementMessage(report.Announcement{Record: record("Song", "Bar")}, now)
	assert.Equal(t, "No Preview", msg.Embeds[0].Fields[2].Value)
	assert.Empty(t, msg.Components)
}

// --- Ping ---

func TestCommentPing(t *testing.T) {
	assert.Equal(t, "<@1234> New PR Comment: https://x/pull/1", report.CommentPing("1234", "https://x/pull/1"))
	assert.Equal(t, "New PR Comment: https://x/pull/1", report.CommentPing("", "https://x/pull/1"))
}

func TestLookupMention(t *testing.T) {
	mapping := []byte(`{"candy": "123456789012345678", "kong": 987654321098765432}`)
	id, err := report.LookupMention(mapping, "candy")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", id)

	id, err = report.LookupMention(mapping, "kong")
	require.NoError(t, err)
	assert.Equal(t, "987654321098765432", id)

	id, err = report.LookupMention(mapping, "nobody")
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = report.LookupMention([]byte("nope"), "candy")
	assert.Error(t, err)
}

func TestCommentMessage(t *testing.T) {
	msg := report.CommentMessage("", "https://x/pull/1", "candy", "Looks good")
	assert.Equal(t, "New PR Comment: https://x/pull/1", msg.Content)
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "Comment from candy", msg.Embeds[0].Title)

	long := report.CommentMessage("", "u", "", strings.Repeat("a", 5000))
	assert.Len(t, []rune(long.Embeds[0].Description), 4096)

	assert.Empty(t, report.CommentMessage("", "u", "candy", "").Embeds)
}
