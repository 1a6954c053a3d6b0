package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleTextStripsMarkup(t *testing.T) {
	page := `<html><head><title>ignored</title><style>body { color: red }</style></head>
<body><script>var x = 1;</script><h1>Acme Robotics</h1><p>Warehouse automation.</p></body></html>`

	text, err := VisibleText(page)

	require.NoError(t, err)
	assert.Contains(t, text, "Acme Robotics")
	assert.Contains(t, text, "Warehouse automation.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color: red")
}

func TestCleanResultURLDecodesRedirect(t *testing.T) {
	raw := "//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.example%2Fabout&rut=abc"

	assert.Equal(t, "https://acme.example/about", cleanResultURL(raw))
}

func TestCleanResultURLPassesThroughDirect(t *testing.T) {
	assert.Equal(t, "https://acme.example", cleanResultURL("https://acme.example"))
	assert.Equal(t, "", cleanResultURL(""))
}

func TestParseResultURLs(t *testing.T) {
	page := `<html><body>
<div class="result results_links">
  <a class="result__a" href="https://first.example">First</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fsecond.example">Second</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://third.example">Third</a>
</div>
</body></html>`

	urls, err := parseResultURLs(page, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://first.example", "https://second.example"}, urls)
}

func TestFetchTextTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>" + strings.Repeat("word ", 1000) + "</p></body></html>"))
	}))
	defer srv.Close()

	c := NewClient()
	text, err := c.FetchText(context.Background(), srv.URL, 100)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 100)
	assert.Contains(t, text, "word")
}

func TestFetchTextNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.FetchText(context.Background(), srv.URL, 100)

	assert.Error(t, err)
}
