package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theballaam96/candyctl/internal/github"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *github.Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	c, err := github.New("test-token", server.URL)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestGetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{
			"number":   7,
			"body":     "IS SONG - DO NOT DELETE THIS LINE\r\nGame: Foo",
			"html_url": "https://github.com/o/r/pull/7",
			"state":    "closed",
			"merged":   true,
			"user":     map[string]any{"login": "candy"},
			"labels":   []map[string]any{{"name": "batch-merge-ignore"}},
		})
	})
	c := newTestClient(t, mux)

	pr, err := c.GetPullRequest(context.Background(), "o", "r", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "candy", pr.Author)
	assert.True(t, pr.Merged)
	assert.True(t, pr.HasLabel("batch-merge-ignore"))
	assert.False(t, pr.HasLabel("other"))
	assert.Contains(t, pr.Body, "Game: Foo")
}

func TestGetPullRequest_UnknownAuthor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"number": 1})
	})
	pr, err := newTestClient(t, mux).GetPullRequest(context.Background(), "o", "r", 1)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", pr.Author)
}

func TestGetPullRequest_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/404", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"message": "Not Found"})
	})
	_, err := newTestClient(t, mux).GetPullRequest(context.Background(), "o", "r", 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, github.ErrNotFound))
}

func TestListFiles_Paginates(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/3/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, []map[string]any{{"filename": "b.bin", "raw_url": "https://x/b.bin"}})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/pulls/3/files?page=2>; rel="next"`, server.URL))
		writeJSON(w, []map[string]any{
			{"filename": "a.bin", "raw_url": "https://x/a.bin", "status": "added"},
			{"filename": "a.mid", "raw_url": "https://x/a.mid"},
		})
	})
	server = httptest.NewServer(mux)
	defer server.Close()
	c, err := github.New("", server.URL)
	require.NoError(t, err)

	files, err := c.ListFiles(context.Background(), "o", "r", 3)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, github.File{Name: "a.bin", RawURL: "https://x/a.bin", Status: "added"}, files[0])
	assert.Equal(t, "b.bin", files[2].Name)
}

func TestListRecentlyClosed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "closed", q.Get("state"))
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("direction"))
		writeJSON(w, []map[string]any{
			{"number": 9, "merged_at": "2024-01-02T00:00:00Z"},
			{"number": 8},
			{"number": 7},
		})
	})
	prs, err := newTestClient(t, mux).ListRecentlyClosed(context.Background(), "o", "r", 2)
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, 9, prs[0].Number)
	assert.True(t, prs[0].Merged)
	assert.False(t, prs[1].Merged)
}

func TestCreateComment(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"id": 1})
	})
	err := newTestClient(t, mux).CreateComment(context.Background(), "o", "r", 5, "Mornin'")
	require.NoError(t, err)
	assert.Equal(t, "Mornin'", got["body"])
}

func TestCreateComment_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, map[string]any{"message": "Resource not accessible"})
	})
	err := newTestClient(t, mux).CreateComment(context.Background(), "o", "r", 5, "x")
	assert.ErrorIs(t, err, github.ErrForbidden)
}

func TestGetFileContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/contents/discord_mapping.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		writeJSON(w, map[string]any{
			"type":     "file",
			"name":     "discord_mapping.json",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(`{"candy":"1234"}`)),
		})
	})
	data, err := newTestClient(t, mux).GetFileContent(context.Background(), "o", "r", "discord_mapping.json", "main")
	require.NoError(t, err)
	assert.JSONEq(t, `{"candy":"1234"}`, string(data))
}

func TestSplitRepo(t *testing.T) {
	owner, repo, err := github.SplitRepo("theballaam96/candys-shop")
	require.NoError(t, err)
	assert.Equal(t, "theballaam96", owner)
	assert.Equal(t, "candys-shop", repo)

	for _, bad := range []string{"", "noslash", "/r", "o/", "a/b/c"} {
		_, _, err := github.SplitRepo(bad)
		assert.Error(t, err, bad)
	}
}
