package view

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/sifan077/shortlink/internal/app/model"
)

// DashboardLink is one row on the dashboard.
type DashboardLink struct {
	ShortCode   string
	ShortURL    string
	TargetURL   string
	CreatedDate string
	CreatedTime string
}

// DashboardPageData feeds the owner's dashboard.
type DashboardPageData struct {
	Links []DashboardLink
}

func (d DashboardPageData) CountLabel() string {
	if len(d.Links) == 1 {
		return "1 link"
	}
	return strconv.Itoa(len(d.Links)) + " links"
}

// NewDashboardPageData converts stored links, keeping their order.
func NewDashboardPageData(baseURL string, links []model.Link, loc *time.Location) DashboardPageData {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]DashboardLink, 0, len(links))
	for _, l := range links {
		created := l.CreatedAt.In(loc)
		rows = append(rows, DashboardLink{
			ShortCode:   l.ShortCode,
			ShortURL:    ShortURL(baseURL, l.ShortCode),
			TargetURL:   l.TargetURL,
			CreatedDate: created.Format("2006-01-02"),
			CreatedTime: created.Format("15:04:05"),
		})
	}
	return DashboardPageData{Links: rows}
}

// ShortURL joins the public base URL and a code.
func ShortURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/" + code
}

var dashboardPageTmpl = template.Must(template.New("dashboard_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>Your Shortened Links</title>
	<style>` + pageStyle + `
		.wrap { max-width: 960px; margin: 0 auto; padding: 48px 16px; }
		h1 { font-size: 2rem; margin: 0 0 6px; }
		.list { display: flex; flex-direction: column; gap: 12px; margin-top: 28px; }
		.code {
			display: inline-block;
			padding: 4px 12px;
			border-radius: 8px;
			background: rgba(125, 211, 252, 0.15);
			font-family: "JetBrains Mono", ui-monospace, monospace;
			font-weight: 600;
			text-decoration: none;
		}
		.target { margin-left: 12px; font-size: 0.9rem; word-break: break-all; }
		.meta { margin: 10px 0 0; font-size: 0.75rem; }
		.empty { text-align: center; padding: 48px; }
	</style>
</head>
<body>
	<div class="wrap">
		<h1>Your Shortened Links</h1>
		<p class="muted">{{.CountLabel}}</p>
		{{if .Links}}
		<div class="list">
			{{range .Links}}
			<div class="card">
				<a class="code" href="{{.ShortURL}}">{{.ShortCode}}</a>
				<a class="target" href="{{.TargetURL}}" target="_blank" rel="noopener noreferrer">{{.TargetURL}}</a>
				<p class="meta muted">Created {{.CreatedDate}} at {{.CreatedTime}}</p>
			</div>
			{{end}}
		</div>
		{{else}}
		<div class="card empty">
			<p class="muted">No shortened links yet. Create one to get started!</p>
		</div>
		{{end}}
	</div>
</body>
</html>
`))

// RenderDashboardPage returns the dashboard markup.
func RenderDashboardPage(data DashboardPageData) (string, error) {
	return render(dashboardPageTmpl, data)
}
