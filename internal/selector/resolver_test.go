package selector

import (
	"errors"
	"testing"
)

const samplePage = `
<html>
<body>
  <h1 class="pr-new-br">Akıllı Telefon 128 GB Siyah</h1>
  <div class="price">
    <span class="prc-dsc">12.499,90 TL</span>
  </div>
  <div class="rating" data-score="4.6">4.6</div>
  <div class="reviews">
    <div class="comment"><p>Harika ürün, çok memnun kaldım</p><span class="stars">5</span></div>
    <div class="comment"><p>Kargo yavaştı ama ürün güzel</p><span class="stars">4</span></div>
    <div class="comment"><p></p></div>
  </div>
</body>
</html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestResolveCascade(t *testing.T) {
	doc := mustParse(t, samplePage)

	tests := []struct {
		name       string
		candidates []Locator
		minLen     int
		want       string
		wantOK     bool
	}{
		{
			name: "first candidate wins",
			candidates: []Locator{
				CSS("h1.pr-new-br"),
				CSS("h1"),
			},
			minLen: 3,
			want:   "Akıllı Telefon 128 GB Siyah",
			wantOK: true,
		},
		{
			name: "falls past missing selector",
			candidates: []Locator{
				CSS("h1.does-not-exist"),
				CSS("span.prc-dsc"),
			},
			minLen: 1,
			want:   "12.499,90 TL",
			wantOK: true,
		},
		{
			name: "falls past invalid xpath",
			candidates: []Locator{
				XPath("//h1[@class=broken"),
				CSS("div.rating"),
			},
			minLen: 1,
			want:   "4.6",
			wantOK: true,
		},
		{
			name: "xpath candidate",
			candidates: []Locator{
				XPath(`//h1[@class="pr-new-br"]`),
			},
			minLen: 1,
			want:   "Akıllı Telefon 128 GB Siyah",
			wantOK: true,
		},
		{
			name: "attribute extraction",
			candidates: []Locator{
				CSSAttr("div.rating", "data-score"),
			},
			minLen: 1,
			want:   "4.6",
			wantOK: true,
		},
		{
			name: "minLen rejects short match",
			candidates: []Locator{
				CSS("div.rating"),
			},
			minLen: 10,
			wantOK: false,
		},
		{
			name: "exhausted cascade",
			candidates: []Locator{
				CSS("div.nope"),
				XPath(`//div[@id="missing"]`),
			},
			minLen: 1,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(doc, tt.candidates, tt.minLen)
			if ok != tt.wantOK {
				t.Fatalf("Resolve ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	doc := mustParse(t, samplePage)

	scopes, ok := ResolveAll(doc, []Locator{
		CSS("div.missing"),
		CSS("div.comment"),
	})
	if !ok {
		t.Fatal("ResolveAll found nothing")
	}
	if len(scopes) != 3 {
		t.Fatalf("got %d scopes, want 3", len(scopes))
	}

	// Sub-resolution inside the first container.
	text, ok := Resolve(scopes[0], []Locator{CSS("p")}, 1)
	if !ok || text != "Harika ürün, çok memnun kaldım" {
		t.Errorf("sub-resolve text = %q ok=%v", text, ok)
	}
	stars, ok := Resolve(scopes[0], []Locator{CSS("span.stars")}, 1)
	if !ok || stars != "5" {
		t.Errorf("sub-resolve stars = %q ok=%v", stars, ok)
	}

	if _, ok := ResolveAll(doc, []Locator{CSS("div.missing")}); ok {
		t.Error("ResolveAll reported ok for empty match set")
	}
}

func TestDocumentLookupErrNoMatch(t *testing.T) {
	doc := mustParse(t, samplePage)
	_, err := doc.Lookup(CSS("section.absent"))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
	_, err = doc.Lookup(XPath(`//section[@class="absent"]`))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("xpath err = %v, want ErrNoMatch", err)
	}
}
