package discord_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theballaam96/candyctl/internal/discord"
)

type capture struct {
	query       string
	contentType string
	body        []byte
}

func newServer(t *testing.T, status int) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.query = r.URL.RawQuery
		c.contentType = r.Header.Get("Content-Type")
		c.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		if status >= 300 {
			w.Write([]byte(`{"message": "Invalid Form Body"}`)) //nolint:errcheck
		}
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestExecute_PlainMessage(t *testing.T) {
	srv, got := newServer(t, http.StatusNoContent)
	err := discord.New().Execute(context.Background(), srv.URL+"/api/webhooks/1/abc", discord.Message{Content: "hello"})
	require.NoError(t, err)

	assert.Empty(t, got.query)
	assert.Equal(t, "application/json", got.contentType)
	assert.JSONEq(t, `{"content":"hello"}`, string(got.body))
}

func TestExecute_WithComponents(t *testing.T) {
	srv, got := newServer(t, http.StatusOK)
	msg := discord.Message{
		Content: "New Pull Request from candy",
		Embeds: []discord.Embed{{
			Title:  "Fungi Forest",
			Color:  0x03FC0F,
			Fields: []discord.Field{{Name: "Composer(s)", Value: "Grant Kirkhope", Inline: true}},
		}},
		Components: []discord.ActionRow{discord.Row(discord.LinkButton("Pull Request", "https://github.com/o/r/pull/1"))},
	}
	require.NoError(t, discord.New().Execute(context.Background(), srv.URL, msg))

	assert.Contains(t, got.query, "wait=true")
	assert.Contains(t, got.query, "with_components=true")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got.body, &decoded))
	rows := decoded["components"].([]any)
	row := rows[0].(map[string]any)
	assert.EqualValues(t, 1, row["type"])
	button := row["components"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 2, button["type"])
	assert.EqualValues(t, 5, button["style"])
	assert.Equal(t, "Pull Request", button["label"])
}

func TestExecute_ErrorStatus(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest)
	err := discord.New().Execute(context.Background(), srv.URL, discord.Message{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Invalid Form Body")
}

func TestExecute_NoWebhook(t *testing.T) {
	err := discord.New().Execute(context.Background(), "", discord.Message{})
	assert.ErrorIs(t, err, discord.ErrNoWebhook)
}

func TestUpload(t *testing.T) {
	srv, got := newServer(t, http.StatusOK)
	data := []byte("ID3\x03\x00\x00\x00\x00\x00\x00audio")
	err := discord.New().Upload(context.Background(), srv.URL, `Fungi"Forest.mp3`, "", data)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(got.contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.Equal(t, discord.Boundary, params["boundary"])

	mr := multipart.NewReader(bytes.NewReader(got.body), params["boundary"])
	part, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "audio/mpeg", part.Header.Get("Content-Type"))
	content, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, data, content)
	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, `FungiForest(Day).wav`, discord.AttachmentName(`Fungi Forest "(Day)"`, "wav"))
	assert.Equal(t, "Song.mp3", discord.AttachmentName("Song", ""))
}
