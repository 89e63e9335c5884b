package tool

import "testing"

func TestRegistryRegisterGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&Definition{ID: "pencil"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got := r.Get("pencil"); got == nil || got.ID != "pencil" {
		t.Errorf("Get(pencil) = %v, want pencil definition", got)
	}
	if !r.Has("pencil") {
		t.Error("Has(pencil) should be true")
	}
	if r.Has("pen") {
		t.Error("Has(pen) should be false")
	}
}

func TestRegistryValidation(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(nil); err != ErrNilDefinition {
		t.Errorf("Register(nil) error = %v, want ErrNilDefinition", err)
	}
	if err := r.Register(&Definition{}); err != ErrEmptyID {
		t.Errorf("Register(empty id) error = %v, want ErrEmptyID", err)
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()

	r.Register(&Definition{ID: "pen", Metadata: Metadata{Label: "old"}})
	r.Register(&Definition{ID: "pen", Metadata: Metadata{Label: "new"}})

	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	if got := r.Get("pen").Metadata.Label; got != "new" {
		t.Errorf("replaced definition label = %q, want new", got)
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&Definition{ID: "select"})
	r.Register(&Definition{ID: "pan"})

	r.Unregister("select")

	if r.Get("select") != nil {
		t.Error("Get() should return nil after Unregister")
	}
	all := r.All()
	if len(all) != 1 || all[0].ID != "pan" {
		t.Errorf("All() = %v, want [pan]", all)
	}

	// Unknown id is a no-op.
	r.Unregister("never-registered")
	if r.Count() != 1 {
		t.Errorf("Count() after no-op unregister = %d, want 1", r.Count())
	}
}

func TestRegistryOrderPreserved(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"select", "pan", "pencil", "text"} {
		r.Register(&Definition{ID: id})
	}

	want := []string{"select", "pan", "pencil", "text"}
	ids := r.IDs()
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}
	for i, def := range r.All() {
		if def.ID != want[i] {
			t.Fatalf("All() order mismatch at %d: got %s, want %s", i, def.ID, want[i])
		}
	}
}

func TestRegistrySnapshotMemoized(t *testing.T) {
	r := NewRegistry()
	r.Register(&Definition{ID: "a"})

	first := r.All()
	second := r.All()
	if &first[0] != &second[0] {
		t.Error("All() should return the memoized snapshot between mutations")
	}

	r.Register(&Definition{ID: "b"})
	third := r.All()
	if len(third) != 2 {
		t.Errorf("All() after mutation = %d entries, want 2", len(third))
	}
}

func TestRegistryOnChange(t *testing.T) {
	r := NewRegistry()

	calls := 0
	cancel := r.OnChange(func() { calls++ })

	r.Register(&Definition{ID: "a"})
	r.Unregister("a")
	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}

	cancel()
	cancel() // idempotent
	r.Register(&Definition{ID: "b"})
	if calls != 2 {
		t.Errorf("listener called after cancel: %d, want 2", calls)
	}
}
