// Package views embeds the page templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed *.html
var FS embed.FS

// Parse loads every embedded template with the shared helper functions.
func Parse() (*template.Template, error) {
	return template.New("layout").Funcs(Funcs()).ParseFS(FS, "*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"yen":   Yen,
		"stars": Stars,
		"img":   imgURL,
	}
}

// Yen formats an amount as yen with thousands separators and no decimals.
func Yen(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	n := len(s)
	neg := false
	if n > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
		n--
	}
	if n > 3 {
		rem := n % 3
		if rem == 0 {
			rem = 3
		}
		out := s[:rem]
		for i := rem; i < n; i += 3 {
			out += "," + s[i:i+3]
		}
		s = out
	}
	if neg {
		s = "-" + s
	}
	return "¥" + s
}

// Stars renders a 1..5 rating as filled and hollow stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func imgURL(u string) string {
	s := strings.TrimSpace(u)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return strings.ReplaceAll(s, " ", "%20")
}
