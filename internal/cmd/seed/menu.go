package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

// Menu is the seed file layout.
type Menu struct {
	Categories []MenuCategory `yaml:"categories"`
}

// MenuCategory is one category and the products it holds.
type MenuCategory struct {
	Name         string        `yaml:"name"`
	DisplayOrder int           `yaml:"displayOrder"`
	Products     []MenuProduct `yaml:"products"`
}

// MenuProduct is one product entry.
type MenuProduct struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	PriceInCents int64  `yaml:"priceInCents"`
	ImageURL     string `yaml:"imageUrl"`
	Ingredients  string `yaml:"ingredients"`
	Unavailable  bool   `yaml:"unavailable"`
}

// LoadMenu reads a menu file, or the embedded menu when path is empty.
func LoadMenu(path string) (Menu, error) {
	data := defaultMenu
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Menu{}, fmt.Errorf("read menu %s: %w", path, err)
		}
		data = raw
	}
	return ParseMenu(data)
}

// ParseMenu decodes and validates a menu document.
func ParseMenu(data []byte) (Menu, error) {
	var menu Menu
	if err := yaml.Unmarshal(data, &menu); err != nil {
		return Menu{}, fmt.Errorf("parse menu: %w", err)
	}
	if len(menu.Categories) == 0 {
		return Menu{}, fmt.Errorf("menu has no categories")
	}
	seen := map[string]bool{}
	for _, category := range menu.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return Menu{}, fmt.Errorf("menu category name is required")
		}
		for _, product := range category.Products {
			name := strings.TrimSpace(product.Name)
			if name == "" {
				return Menu{}, fmt.Errorf("category %q: product name is required", category.Name)
			}
			if product.PriceInCents <= 0 {
				return Menu{}, fmt.Errorf("product %q: price must be positive", name)
			}
			if seen[name] {
				return Menu{}, fmt.Errorf("product %q listed twice", name)
			}
			seen[name] = true
		}
	}
	return menu, nil
}
