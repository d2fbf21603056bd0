package cache

import "testing"

func TestVariantsOrderedSlowestFirst(t *testing.T) {
	vs := Variants()
	if len(vs) != 3 {
		t.Fatalf("got %d variants, want 3", len(vs))
	}
	for i := 1; i < len(vs); i++ {
		if vs[i].Value <= vs[i-1].Value {
			t.Errorf("variant %d (%v) not faster than %d (%v)", i, vs[i].Value, i-1, vs[i-1].Value)
		}
	}
	if !vs[len(vs)-1].IsDefault() {
		t.Error("last variant is not the default")
	}
}

func TestVariantsReturnsCopy(t *testing.T) {
	vs := Variants()
	vs[0].Suffix = "_mutated"
	if Variants()[0].Suffix == "_mutated" {
		t.Error("mutating the returned slice changed the variant set")
	}
}

func TestDefaultVariant(t *testing.T) {
	d := DefaultVariant()
	if d.Value != 1.0 || d.Suffix != "_default" || d.Label != "x1.0" {
		t.Errorf("DefaultVariant = %+v", d)
	}
	if !d.IsDefault() {
		t.Error("DefaultVariant().IsDefault() = false")
	}
}
