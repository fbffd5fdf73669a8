package spoilage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupResolvesFoodNames(t *testing.T) {
	cats := DefaultCategories()
	cases := map[string]string{
		"Hilsa Fish":        "Meat & Fish",
		"  hilsa   FISH ":   "Meat & Fish",
		"Fresh hilsa":       "Meat & Fish",
		"RICE":              "Grains & Dry",
		"Miniket rice 5kg":  "Grains & Dry",
		"Eggplant":          "Vegetables",
		"Duck eggs":         "Eggs",
		"Palong Shak":       "Leafy Greens",
		"Mishti doi":        "Dairy",
		"Chicken biryani":   "Cooked Food",
		"Dragon fruit jam":  "Vegetables",
		"":                  "Vegetables",
		"Unknown exotic xy": "Vegetables",
	}
	for name, want := range cases {
		if got := cats.Lookup(name).Name; got != want {
			t.Errorf("Lookup(%q)=%q want %q", name, got, want)
		}
	}
	if cats.Fallback() != "Vegetables" {
		t.Fatalf("unexpected fallback %q", cats.Fallback())
	}
}

func TestParseCategoriesValidates(t *testing.T) {
	cases := map[string]string{
		"empty": `fallback: Vegetables`,
		"unknown fallback": `
fallback: Nope
categories:
  - name: Vegetables
    temperature_sensitivity: 0.5
    humidity_sensitivity: 0.5
`,
		"bad sensitivity": `
fallback: Vegetables
categories:
  - name: Vegetables
    temperature_sensitivity: 1.5
    humidity_sensitivity: 0.5
`,
		"unknown food category": `
fallback: Vegetables
categories:
  - name: Vegetables
    temperature_sensitivity: 0.5
    humidity_sensitivity: 0.5
foods:
  rice: Grains
`,
		"not yaml": `{{{`,
	}
	for name, doc := range cases {
		if _, err := ParseCategories([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCategoriesFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	doc := `
fallback: Staples
categories:
  - name: Staples
    temperature_sensitivity: 0.3
    humidity_sensitivity: 0.3
    base_shelf_life_days: 30
    storage_tips: [Keep dry.]
foods:
  rice: Staples
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(categoriesEnv, path)

	cats, err := LoadCategories(nil)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	if got := cats.Lookup("Hilsa").Name; got != "Staples" {
		t.Fatalf("expected fallback Staples, got %q", got)
	}

	t.Setenv(categoriesEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadCategories(nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
