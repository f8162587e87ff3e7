package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, data interface{}) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, nil))
	return buf.String()
}

func TestIndexShowsLoginState(t *testing.T) {
	out := render(t, PageIndex, IndexData{LoggedIn: true, HomeScreen: true})
	assert.Contains(t, out, `action="/logout"`)
	assert.NotContains(t, out, `href="/signup"`)

	out = render(t, PageIndex, IndexData{})
	assert.Contains(t, out, `href="/signup"`)
}

func TestUserPageEscapesProfile(t *testing.T) {
	out := render(t, PageUser, UserData{Username: "alice", Profile: "<script>x</script>"})
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, `action="/profile"`)

	out = render(t, PageUser, UserData{Username: "alice", Profile: "No profile set", IsSelf: true})
	assert.Contains(t, out, `action="/profile"`)
	assert.Contains(t, out, "No profile set")
}

func TestAdminPageLinks(t *testing.T) {
	out := render(t, PageAdmin, AdminData{Users: []string{"bob"}, Admins: []string{"carol"}})
	assert.Contains(t, out, `action="/admin/add/bob"`)
	assert.Contains(t, out, `action="/admin/remove/carol"`)
}

func TestErrorPage(t *testing.T) {
	out := render(t, PageError, ErrorData{Status: 404, Message: "could not find user 'x'"})
	assert.Contains(t, out, "Error 404")
	assert.Contains(t, out, "could not find user &#39;x&#39;")
}

func TestUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", nil, nil))
}

func TestStylesheetEmbedded(t *testing.T) {
	assert.Contains(t, string(Stylesheet()), "body")
}
