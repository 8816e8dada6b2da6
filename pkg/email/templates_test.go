package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.GenerateShareRouteEmailHTML(TemplateData{
		Name:  "Olena",
		Title: "Weekend <in> Lviv",
		Link:  "https://trips.example.com/shared/abc",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Olena shared a trip with you")
	assert.Contains(t, html, `href="https://trips.example.com/shared/abc"`)
	assert.Contains(t, html, "Weekend &lt;in&gt; Lviv", "titles are escaped")

	html, err = tm.GenerateWelcomeEmailHTML(TemplateData{Name: "Taras", Link: "https://trips.example.com/wizard"})
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome, Taras!")
}
