package reference

import "testing"

func TestNormalizeBook(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"Isaia", "is"},
		{"is", "is"},
		{"IS", "is"},
		{"Is.", "is"},
		{"  salmi ", "sal"},
		{"Salmo", "sal"},
		{"Vangelo di Giovanni", "gv"},
		{"Lettera ai Romani", "rm"},
		{"Lettera agli Efesini", "ef"},
		{"I Corinzi", "1cor"},
		{"II Corinzi", "2cor"},
		{"1cor", "1cor"},
		{"1 Corinzi", "1cor"},
		{"Isaia capitolo", "is"},
		{"Giosuè", "gs"},
		{"Ecclesiaste", "qo"},
		{"Atti degli Apostoli", "at"},
		{"Cantico dei Cantici", "ct"},
	}

	for _, tt := range tests {
		got, ok := NormalizeBook(tt.token)
		if !ok {
			t.Errorf("NormalizeBook(%q): expected %q, got no match", tt.token, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeBook(%q): expected %q, got %q", tt.token, tt.want, got)
		}
	}
}

func TestNormalizeBook_Unknown(t *testing.T) {
	for _, token := range []string{"", "pinco", "libro dei segreti", "123", "capitolo"} {
		if got, ok := NormalizeBook(token); ok {
			t.Errorf("NormalizeBook(%q): expected no match, got %q", token, got)
		}
	}
}

func TestNormalizeBook_Idempotent(t *testing.T) {
	// Resolving an already-normalized token gives the same canonical key.
	for _, token := range []string{"Isaia", "Vangelo di Giovanni", "I Corinzi", "Salmo"} {
		first, ok := NormalizeBook(token)
		if !ok {
			t.Fatalf("NormalizeBook(%q): unexpected miss", token)
		}
		second, ok := NormalizeBook(first)
		if !ok || second != first {
			t.Errorf("NormalizeBook not idempotent for %q: %q -> %q", token, first, second)
		}
	}
}
