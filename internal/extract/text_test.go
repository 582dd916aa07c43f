package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_PrefersArticle(t *testing.T) {
	page := `<html><head><title>T</title><script>var x = 1;</script></head>
<body>
<nav>Home | World | Politics</nav>
<article>
  <h1>Parliament passes bill</h1>
  <p>The bill   passed on Tuesday.</p>
  <p>Opposition <b>walked out</b>.</p>
  <aside>Related: other story</aside>
</article>
<footer>Copyright</footer>
</body></html>`

	text, err := VisibleText(page)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}

	want := "Parliament passes bill\nThe bill passed on Tuesday.\nOpposition walked out ."
	if text != want {
		t.Errorf("unexpected text:\n%q\nwant\n%q", text, want)
	}
}

func TestVisibleText_WholeBodyFallback(t *testing.T) {
	text, err := VisibleText(`<div><p>One</p><style>.a{}</style><p>Two</p></div>`)
	if err != nil {
		t.Fatalf("VisibleText failed: %v", err)
	}
	if text != "One\nTwo" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestVisibleText_SkipsScripts(t *testing.T) {
	text, _ := VisibleText(`<main><script>alert(1)</script><noscript>enable js</noscript><p>Story</p></main>`)
	if strings.Contains(text, "alert") || strings.Contains(text, "enable js") {
		t.Errorf("script content leaked: %q", text)
	}
}
