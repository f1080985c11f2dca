package view

import (
	"bytes"
	"html/template"
)

const pageStyle = `
	:root {
		--bg: #090a0f;
		--card: rgba(255, 255, 255, 0.05);
		--border: rgba(255, 255, 255, 0.15);
		--text: #e7ecff;
		--muted: #a1acc5;
		--accent: #7dd3fc;
		--accent-strong: #38bdf8;
		font-family: "Inter", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
	}
	* { box-sizing: border-box; }
	body {
		margin: 0;
		min-height: 100vh;
		background: radial-gradient(circle at 20% 20%, #111827, #030712 60%);
		color: var(--text);
	}
	a { color: var(--accent); }
	a:hover { color: var(--accent-strong); }
	.card {
		background: var(--card);
		border: 1px solid var(--border);
		border-radius: 18px;
		padding: 24px 28px;
		backdrop-filter: blur(18px);
	}
	.muted { color: var(--muted); }
	.button {
		display: inline-block;
		padding: 12px 22px;
		border-radius: 12px;
		border: 1px solid var(--accent);
		text-decoration: none;
		font-weight: 600;
	}
	.button.primary { background: var(--accent); color: #030712; }
`

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
