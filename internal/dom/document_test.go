package dom

import (
	"strings"
	"testing"
)

const page = `<!DOCTYPE html>
<html><head><title>host</title></head>
<body>
  <div class="main">content</div>
  <div class="sidebar card"><p id="first">existing</p></div>
  <div role="complementary"></div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		wantErr bool
	}{
		{in: "#aside", name: "#aside"},
		{in: " .site-aside ", name: ".site-aside"},
		{in: `[role="complementary"]`, name: `[role="complementary"]`},
		{in: "div > p", name: "div > p"},
		{in: "", wantErr: true},
		{in: "#", wantErr: true},
		{in: "[=x]", wantErr: true},
		{in: "div >", wantErr: true},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSelector(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSelector(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if sel.Name != tt.name {
			t.Errorf("ParseSelector(%q).Name = %q, want %q", tt.in, sel.Name, tt.name)
		}
	}
}

func TestPrependToInsertsAsFirstChild(t *testing.T) {
	doc := mustParse(t, page)

	ok, err := doc.PrependTo(ByClass("sidebar"), `<div id="w"><span id="inner">hi</span></div><em id="second"></em>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected sidebar to match")
	}

	out := doc.String()
	w := strings.Index(out, `id="w"`)
	second := strings.Index(out, `id="second"`)
	first := strings.Index(out, `id="first"`)
	if w < 0 || second < 0 || first < 0 || !(w < second && second < first) {
		t.Fatalf("unexpected order in rendered document:\n%s", out)
	}
	if got, _ := doc.Text("inner"); got != "hi" {
		t.Fatalf("expected inner text %q, got %q", "hi", got)
	}
}

func TestPrependToNoMatch(t *testing.T) {
	doc := mustParse(t, page)

	ok, err := doc.PrependTo(ByID("aside"), `<div id="w"></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
	if doc.Exists("w") {
		t.Fatal("nothing should have been inserted")
	}
}

func TestParsedSelectorsMatch(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="aside" class="sidebar widget"><div class="card"></div></div></body></html>`)

	tests := []struct {
		in   string
		want bool
	}{
		{".sidebar.widget", true},
		{"div.sidebar", true},
		{"#aside .card", true},
		{"#aside > .card", true},
		{"aside, .card", true},
		{"[role=complementary]", false},
		{".sidebar.missing", false},
		{"span.card", false},
	}

	for _, tt := range tests {
		sel, err := ParseSelector(tt.in)
		if err != nil {
			t.Errorf("ParseSelector(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got := doc.Matches(sel); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAttrSelectorMatches(t *testing.T) {
	doc := mustParse(t, page)
	if !doc.Matches(ByAttr("role", "complementary")) {
		t.Fatal("expected role selector to match")
	}
	if doc.Matches(ByAttr("role", "navigation")) {
		t.Fatal("unexpected match")
	}
}

func TestSetTextAndClasses(t *testing.T) {
	doc := mustParse(t, `<html><body><span id="s" class="a clock-loading b">old <b>bold</b></span></body></html>`)

	if !doc.SetText("s", "new") {
		t.Fatal("expected SetText to find element")
	}
	if got, _ := doc.Text("s"); got != "new" {
		t.Fatalf("expected text %q, got %q", "new", got)
	}

	if !doc.RemoveClass("s", "clock-loading") {
		t.Fatal("expected RemoveClass to find element")
	}
	if doc.HasClass("s", "clock-loading") {
		t.Fatal("class should have been removed")
	}
	if !doc.HasClass("s", "a") || !doc.HasClass("s", "b") {
		t.Fatal("other classes should be kept")
	}

	if doc.SetText("missing", "x") || doc.RemoveClass("missing", "a") {
		t.Fatal("mutations on missing elements must report false")
	}
}

func TestRemoveAndCount(t *testing.T) {
	doc := mustParse(t, page)
	if doc.Count("first") != 1 {
		t.Fatalf("expected one element, got %d", doc.Count("first"))
	}
	if !doc.Remove("first") {
		t.Fatal("expected removal")
	}
	if doc.Remove("first") {
		t.Fatal("second removal should report false")
	}
	if doc.Count("first") != 0 {
		t.Fatal("element should be gone")
	}
}

func TestEnsureStylesheetOnce(t *testing.T) {
	doc := mustParse(t, page)

	for i := 0; i < 3; i++ {
		inserted, err := doc.EnsureStylesheet("css", "/css/x.css")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inserted != (i == 0) {
			t.Fatalf("call %d: inserted=%v", i, inserted)
		}
	}
	if doc.Count("css") != 1 {
		t.Fatalf("expected one stylesheet link, got %d", doc.Count("css"))
	}
	if !strings.Contains(doc.String(), `href="/css/x.css"`) {
		t.Fatal("link href not rendered")
	}
}

func TestGlobalsAndEvents(t *testing.T) {
	doc := mustParse(t, page)
	if doc.HasGlobal("pjax") {
		t.Fatal("global should be absent")
	}
	doc.SetGlobal("pjax")
	if !doc.HasGlobal("pjax") {
		t.Fatal("global should be present")
	}

	var calls []int
	doc.AddEventListener("pjax:complete", func() { calls = append(calls, 1) })
	doc.AddEventListener("pjax:complete", func() { calls = append(calls, 2) })

	if n := doc.Dispatch("pjax:complete"); n != 2 {
		t.Fatalf("expected 2 listeners, got %d", n)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("unexpected call order: %v", calls)
	}
	if n := doc.Dispatch("other"); n != 0 {
		t.Fatalf("expected no listeners, got %d", n)
	}
}
