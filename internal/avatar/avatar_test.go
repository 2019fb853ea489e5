package avatar

import (
	"math/rand"
	"testing"
)

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range All() {
		if a.ID == "" || a.Emoji == "" {
			t.Errorf("incomplete avatar %+v", a)
		}
		if seen[a.ID] {
			t.Errorf("duplicate avatar id %q", a.ID)
		}
		seen[a.ID] = true
	}
	if len(seen) < 12 {
		t.Errorf("catalog has %d avatars, want at least one per seat (12)", len(seen))
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("fox")
	if !ok {
		t.Fatal("Lookup(fox) not found")
	}
	if a.Emoji != "🦊" {
		t.Errorf("fox emoji %q", a.Emoji)
	}
	if _, ok := Lookup("dragon"); ok {
		t.Error("Lookup(dragon) should fail")
	}
	if Valid("") {
		t.Error("empty id should be invalid")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	list := All()
	list[0].ID = "changed"
	if !Valid("fox") || All()[0].ID == "changed" {
		t.Error("All should not expose the backing slice")
	}
}

func TestRandomReturnsCatalogID(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		if id := Random(rng); !Valid(id) {
			t.Fatalf("Random returned unknown id %q", id)
		}
	}
}
