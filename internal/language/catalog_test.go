package language

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize("FR"); got != "fr" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := Normalize("French"); got != "fr" {
		t.Fatalf("display name did not resolve to code: %q", got)
	}
	if got := Normalize("zh-cn"); got != "zh-CN" {
		t.Fatalf("regional code did not canonicalize: %q", got)
	}
	if got := Normalize("Chinese (Traditional)"); got != "zh-TW" {
		t.Fatalf("regional name did not resolve: %q", got)
	}
	if got := Normalize("Klingon"); got != "klingon" {
		t.Fatalf("unknown input must pass through lower-cased, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"EN", "French", "zh-CN", "zh-cn", "Klingon", "", "  de "}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName("de"); got != "German" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := DisplayName("xx"); got != "xx" {
		t.Fatalf("unknown code must echo back, got %q", got)
	}
}

func TestCatalogCodesUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for _, entry := range List() {
		if _, dup := seen[entry.Code]; dup {
			t.Fatalf("duplicate catalog code %q", entry.Code)
		}
		seen[entry.Code] = struct{}{}
		if Normalize(entry.Code) != entry.Code {
			t.Fatalf("code %q is not canonical under Normalize", entry.Code)
		}
		if Normalize(entry.Name) != entry.Code {
			t.Fatalf("name %q does not resolve to %q", entry.Name, entry.Code)
		}
	}
}

func TestBaseCode(t *testing.T) {
	t.Parallel()

	if got := BaseCode("zh-CN"); got != "zh" {
		t.Fatalf("unexpected base code: %q", got)
	}
	if got := BaseCode("en"); got != "en" {
		t.Fatalf("unexpected base code: %q", got)
	}
}
