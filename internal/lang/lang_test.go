package lang

import (
	"encoding/json"
	"testing"
)

func TestCodeAndDisplayName(t *testing.T) {
	tests := []struct {
		lang    Language
		code    string
		english string
		native  string
	}{
		{Zh, "zh", "chinese", "中文"},
		{En, "en", "english", "English"},
		{Ja, "ja", "japanese", "日本語"},
		{Ko, "ko", "korean", "한국어"},
		{Auto, "auto", "auto", "auto"},
	}

	for _, tc := range tests {
		// Repeated calls must be stable.
		for i := 0; i < 3; i++ {
			if got := tc.lang.Code(); got != tc.code {
				t.Fatalf("%v.Code() = %q, want %q", tc.lang, got, tc.code)
			}
			if got := tc.lang.DisplayName(English); got != tc.english {
				t.Fatalf("%v.DisplayName(English) = %q, want %q", tc.lang, got, tc.english)
			}
			if got := tc.lang.DisplayName(Native); got != tc.native {
				t.Fatalf("%v.DisplayName(Native) = %q, want %q", tc.lang, got, tc.native)
			}
		}
	}
}

func TestDisplayNameIgnoresConventionCase(t *testing.T) {
	if got := Ja.DisplayName("Native"); got != "日本語" {
		t.Fatalf("Ja.DisplayName(\"Native\") = %q", got)
	}
	if got := Ja.DisplayName("bogus"); got != "japanese" {
		t.Fatalf("unknown convention should fall back to English, got %q", got)
	}
}

func TestEveryLanguageHasCodeAndName(t *testing.T) {
	for _, l := range All() {
		if l.Code() == "" || l.DisplayName(English) == "" || l.DisplayName(Native) == "" {
			t.Fatalf("language %d is missing a code or display name", int(l))
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" JA ")
	if err != nil || got != Ja {
		t.Fatalf("Parse(JA) = %v, %v; want ja", got, err)
	}
	if _, err := Parse("fr"); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestIsTarget(t *testing.T) {
	if Auto.IsTarget() {
		t.Fatal("auto must not be a valid target")
	}
	if !Zh.IsTarget() {
		t.Fatal("zh should be a valid target")
	}
	if Language(0).IsTarget() {
		t.Fatal("zero value should not be a valid target")
	}
}

func TestJSONUsesCodes(t *testing.T) {
	var payload struct {
		To Language `json:"to"`
	}
	if err := json.Unmarshal([]byte(`{"to":"ko"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.To != Ko {
		t.Fatalf("expected ko, got %v", payload.To)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"to":"ko"}` {
		t.Fatalf("unexpected json: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"to":"xx"}`), &payload); err == nil {
		t.Fatal("expected unknown code to fail")
	}
}

func TestParseConvention(t *testing.T) {
	if c, err := ParseConvention(""); err != nil || c != English {
		t.Fatalf("empty convention = %q, %v; want english", c, err)
	}
	if c, err := ParseConvention("Native"); err != nil || c != Native {
		t.Fatalf("Native convention = %q, %v", c, err)
	}
	if _, err := ParseConvention("klingon"); err == nil {
		t.Fatal("expected error for unknown convention")
	}
}
