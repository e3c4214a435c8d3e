package normalize

import "testing"

func TestKey_StripsPrefixAndExtension(t *testing.T) {
	cases := map[string]string{
		"BSGSifc-114.glb":      "ifc-114",
		"ifc-114":              "ifc-114",
		"ifc-114.GLB":          "ifc-114",
		"  bsgsIFC-114.glb  ":  "ifc-114",
		"models/BSGSifc-9.glb": "ifc-9",
	}
	for in, want := range cases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKey_BlankInput(t *testing.T) {
	if got := Key(""); got != "" {
		t.Errorf("Key(\"\") = %q, want empty", got)
	}
	if got := Key("   "); got != "" {
		t.Errorf("Key(blank) = %q, want empty", got)
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []string{"BSGSifc-114.glb", "ifc-114", "members/bsgscol-2.glb", "plain"}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Errorf("Key not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestKey_LastPathSegment(t *testing.T) {
	if got := Key(`C:\exports\BSGSbeam-7.glb`); got != "beam-7" {
		t.Errorf("Key(windows path) = %q, want beam-7", got)
	}
	if got := Key("a/b/c/bsgsx.glb"); got != "x" {
		t.Errorf("Key(nested path) = %q, want x", got)
	}
}

func TestNormalizer_CustomPrefix(t *testing.T) {
	n := New("acme")
	if got := n.Key("ACMEtruss-1.glb"); got != "truss-1" {
		t.Errorf("Key = %q, want truss-1", got)
	}
	// Default prefix is not stripped with a custom normalizer.
	if got := n.Key("bsgstruss-1.glb"); got != "bsgstruss-1" {
		t.Errorf("Key = %q, want bsgstruss-1", got)
	}
}
