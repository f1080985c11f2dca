package view

import "html/template"

// LandingPageData feeds the public landing page.
type LandingPageData struct {
	Title        string
	DashboardURL string
	SignInURL    string
}

var landingPageTmpl = template.Must(template.New("landing_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{if .Title}}{{.Title}}{{else}}Link Shortener{{end}}</title>
	<style>` + pageStyle + `
		main {
			min-height: 100vh;
			display: flex;
			flex-direction: column;
			align-items: center;
			justify-content: center;
			gap: 32px;
			padding: 0 16px;
			text-align: center;
		}
		h1 { font-size: 2.4rem; margin: 0; }
		.actions { display: flex; gap: 16px; flex-wrap: wrap; justify-content: center; }
	</style>
</head>
<body>
	<main>
		<div>
			<h1>{{if .Title}}{{.Title}}{{else}}Link Shortener{{end}}</h1>
			<p class="muted">Create short, memorable links in seconds</p>
		</div>
		<div class="actions">
			<a class="button primary" href="{{.DashboardURL}}">Get Started</a>
			{{if .SignInURL}}<a class="button" href="{{.SignInURL}}">Sign in</a>{{end}}
		</div>
	</main>
</body>
</html>
`))

// RenderLandingPage returns the landing page markup.
func RenderLandingPage(data LandingPageData) (string, error) {
	if data.DashboardURL == "" {
		data.DashboardURL = "/dashboard"
	}
	return render(landingPageTmpl, data)
}
