package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/langaas500/Hvemistua/internal/avatar"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Ola  ", "Ola"},
		{"Ola   Nordmann", "Ola Nordmann"},
		{"", ""},
		{"   ", ""},
		{"Abcdefghijklmnopqrstuvwxyz", "Abcdefghijklmnopqrst"},
		{"a\u030ase", "\u00e5se"},
	}
	for _, tt := range tests {
		if got := normalizeName(tt.in, MaxNameLength); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldNameNorwegian(t *testing.T) {
	if foldName("ØYVIND") != foldName("øyvind") {
		t.Error("Ø and ø should fold together")
	}
	if foldName("Ærlig") != foldName("ærlig") {
		t.Error("Æ and æ should fold together")
	}
	if foldName("Ola") == foldName("Ole") {
		t.Error("different names folded together")
	}
}

func TestJoin(t *testing.T) {
	s := newTestSession(t, 1)
	seen := make(map[string]bool)
	for i := 0; i < MaxPlayers; i++ {
		before := len(s.Players())
		tok, av, err := s.Join(fmt.Sprintf("Spiller %d", i))
		if err != nil {
			t.Fatalf("Join %d: %v", i, err)
		}
		if len(s.Players()) != before+1 {
			t.Fatalf("Join %d did not grow the roster", i)
		}
		if seen[tok] {
			t.Fatalf("Join %d reused token %q", i, tok)
		}
		seen[tok] = true
		if !avatar.Valid(av) {
			t.Errorf("Join %d assigned unknown avatar %q", i, av)
		}
	}
	_, _, err := s.Join("Nummer tretten")
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("13th Join: %v, want ErrRoomFull", err)
	}
	if AsError(err).Kind != KindCapacity {
		t.Errorf("Kind %q, want capacity", AsError(err).Kind)
	}
}

func TestJoin_Errors(t *testing.T) {
	s := newTestSession(t, 1)
	if _, _, err := s.Join("  "); !errors.Is(err, ErrNameEmpty) {
		t.Errorf("blank name: %v, want ErrNameEmpty", err)
	}
	joinAll(t, s, "Kari")
	if _, _, err := s.Join(" kari "); !errors.Is(err, ErrNameTaken) {
		t.Errorf("same name other case: %v, want ErrNameTaken", err)
	}
	if got := s.Players(); len(got) != 1 || got[0].Name != "Kari" {
		t.Errorf("Players %+v, want only Kari", got)
	}
}

func TestJoin_PreservesOrder(t *testing.T) {
	s := newTestSession(t, 1)
	joinAll(t, s, "Ola", "Kari", "Nora")
	got := s.Players()
	for i, want := range []string{"Ola", "Kari", "Nora"} {
		if got[i].Name != want {
			t.Errorf("Players[%d] %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestValidateToken(t *testing.T) {
	s := newTestSession(t, 1)
	tok, av, err := s.Join("Ola")
	if err != nil {
		t.Fatal(err)
	}
	info := s.ValidateToken(tok)
	if !info.Valid || info.Name != "Ola" || info.AvatarID != av {
		t.Fatalf("ValidateToken %+v, want Ola/%s", info, av)
	}
	s.Leave(tok)
	if s.ValidateToken(tok).Valid {
		t.Error("token still valid after Leave")
	}
	if s.ValidateToken("").Valid {
		t.Error("empty token valid")
	}
}

func TestSetAvatar(t *testing.T) {
	s := newTestSession(t, 1)
	tok := joinAll(t, s, "Ola")[0]

	if err := s.SetAvatar("nope", "fox"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unknown token: %v, want ErrInvalidToken", err)
	}
	if err := s.SetAvatar(tok, "dragon"); !errors.Is(err, ErrInvalidAvatar) {
		t.Errorf("unknown avatar: %v, want ErrInvalidAvatar", err)
	}
	if err := s.SetAvatar(tok, "moose"); err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if got := s.ValidateToken(tok).AvatarID; got != "moose" {
		t.Errorf("token avatar %q, want moose", got)
	}
	if got := s.Players()[0].AvatarID; got != "moose" {
		t.Errorf("roster avatar %q, want moose", got)
	}
}
