package spoilage

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

const categoriesEnv = "FOOD_CATEGORIES_YAML"

//go:embed categories.yaml
var embeddedCategories []byte

// CategoryProfile describes how strongly weather affects a family of foods.
type CategoryProfile struct {
	Name                   string   `yaml:"name" json:"name"`
	TemperatureSensitivity float64  `yaml:"temperature_sensitivity" json:"temperature_sensitivity"`
	HumiditySensitivity    float64  `yaml:"humidity_sensitivity" json:"humidity_sensitivity"`
	BaseShelfLifeDays      int      `yaml:"base_shelf_life_days" json:"base_shelf_life_days"`
	StorageTips            []string `yaml:"storage_tips" json:"storage_tips"`
}

type categoryFile struct {
	Fallback   string            `yaml:"fallback"`
	Categories []CategoryProfile `yaml:"categories"`
	Foods      map[string]string `yaml:"foods"`
}

// Categories is the immutable food-name -> profile table.
type Categories struct {
	profiles map[string]CategoryProfile
	foods    map[string]string
	// keywords sorted longest first so "hilsa fish" wins over "fish".
	keywords []string
	fallback string
}

// ParseCategories decodes and validates a YAML category table.
func ParseCategories(data []byte) (*Categories, error) {
	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("categories: no categories defined")
	}

	c := &Categories{
		profiles: make(map[string]CategoryProfile, len(file.Categories)),
		foods:    make(map[string]string, len(file.Foods)),
		fallback: strings.TrimSpace(file.Fallback),
	}
	for _, p := range file.Categories {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("categories: profile without name")
		}
		if p.TemperatureSensitivity < 0 || p.TemperatureSensitivity > 1 ||
			p.HumiditySensitivity < 0 || p.HumiditySensitivity > 1 {
			return nil, fmt.Errorf("categories: %s sensitivities must be within [0,1]", p.Name)
		}
		if _, dup := c.profiles[p.Name]; dup {
			return nil, fmt.Errorf("categories: duplicate profile %q", p.Name)
		}
		c.profiles[p.Name] = p
	}
	if _, ok := c.profiles[c.fallback]; !ok {
		return nil, fmt.Errorf("categories: fallback %q is not a defined category", c.fallback)
	}
	for food, category := range file.Foods {
		key := normalizeFoodName(food)
		if key == "" {
			continue
		}
		if _, ok := c.profiles[category]; !ok {
			return nil, fmt.Errorf("categories: food %q maps to unknown category %q", food, category)
		}
		c.foods[key] = category
		c.keywords = append(c.keywords, key)
	}
	sort.Slice(c.keywords, func(i, j int) bool {
		if len(c.keywords[i]) != len(c.keywords[j]) {
			return len(c.keywords[i]) > len(c.keywords[j])
		}
		return c.keywords[i] < c.keywords[j]
	})
	return c, nil
}

// LoadCategories reads the table from FOOD_CATEGORIES_YAML when set, otherwise the embedded copy.
func LoadCategories(log *logger.Logger) (*Categories, error) {
	data := embeddedCategories
	if path := strings.TrimSpace(os.Getenv(categoriesEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		data = raw
		if log != nil {
			log.Info("Loading food categories from file", "path", path)
		}
	}
	return ParseCategories(data)
}

// DefaultCategories parses the embedded table. It panics on a broken build.
func DefaultCategories() *Categories {
	c, err := ParseCategories(embeddedCategories)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a food name to its profile. Exact names win, then the longest
// keyword appearing as whole words in the name; anything else gets the fallback profile.
func (c *Categories) Lookup(foodName string) CategoryProfile {
	key := normalizeFoodName(foodName)
	if category, ok := c.foods[key]; ok {
		return c.profiles[category]
	}
	if key != "" {
		padded := " " + key + " "
		for _, kw := range c.keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return c.profiles[c.foods[kw]]
			}
		}
	}
	return c.profiles[c.fallback]
}

// Profile returns a category by name.
func (c *Categories) Profile(name string) (CategoryProfile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

func (c *Categories) Fallback() string { return c.fallback }

func normalizeFoodName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
