package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if fallback := GetCatalog("missing-locale"); fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if got := GetCatalog("pt-BR").Locale(); got != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", got)
	}
}

func TestFormatGameNotFound(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en-US", want: "Game g1 was not found."},
		{locale: "pt-BR", want: "O jogo g1 não foi encontrado."},
	}
	for _, tt := range tests {
		got := GetCatalog(tt.locale).Format("GAME_NOT_FOUND", map[string]string{"GameID": "g1"})
		if got != tt.want {
			t.Fatalf("%s Format = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{"code": "hello {{.Name}}"})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if got := cat.Format("code", nil); got != "hello " {
		t.Fatalf("Format = %q, want missing metadata rendered empty", got)
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{"code": "{{ if .Name }}"})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
