package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	WelcomeTmpl    *template.Template
	ShareRouteTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	welcomeTmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return nil, err
	}

	shareTmpl, err := template.New("shareRoute").Parse(shareRouteTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateManager{
		WelcomeTmpl:    welcomeTmpl,
		ShareRouteTmpl: shareTmpl,
	}, nil
}

// TemplateData holds the dynamic data for an email template.
type TemplateData struct {
	Name  string
	Link  string
	Title string
}

// GenerateWelcomeEmailHTML executes the welcome template with the provided data.
func (tm *TemplateManager) GenerateWelcomeEmailHTML(data TemplateData) (string, error) {
	var body bytes.Buffer
	if err := tm.WelcomeTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// GenerateShareRouteEmailHTML executes the shared route template.
func (tm *TemplateManager) GenerateShareRouteEmailHTML(data TemplateData) (string, error) {
	var body bytes.Buffer
	if err := tm.ShareRouteTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Welcome to Route Planner</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Welcome, {{.Name}}!</h2>
	<p>Your account is ready. Start planning your first trip here:</p>
	<p><a href="{{.Link}}">Plan a trip</a></p>
</body>
</html>
`

const shareRouteTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>{{.Title}}</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>{{.Name}} shared a trip with you</h2>
	<p><strong>{{.Title}}</strong></p>
	<p><a href="{{.Link}}">Open the route</a></p>
	<p>Anyone with this link can view the route.</p>
</body>
</html>
`
