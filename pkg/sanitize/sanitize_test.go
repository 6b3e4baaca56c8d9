package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"  Nova Bolsa 2024 ":                 "Nova Bolsa 2024",
		"Ciência & Tecnologia":               "Ciência & Tecnologia",
		"<b>UFC</b>":                         "UFC",
		"<script>alert(1)</script>Edital":    "Edital",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTMLKeepsFormattingDropsScripts(t *testing.T) {
	got := HTML(`<p>Olá <strong>mundo</strong></p><script>alert(1)</script><a href="x" onclick="evil()">link</a>`)
	if !strings.Contains(got, "<strong>mundo</strong>") {
		t.Errorf("formatting lost: %s", got)
	}
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("active content kept: %s", got)
	}
}
