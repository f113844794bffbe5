// Package seed parses seed command flags and loads the menu into the
// restaurant store.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	entrypoint "github.com/Tiago21221/brasa-e-lenha/internal/platform/cmd"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath   string `env:"BRASA_SEED_DB_PATH" envDefault:"data/restaurant.db"`
	MenuPath string `env:"BRASA_SEED_MENU"`
	List     bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.MenuPath, "menu", cfg.MenuPath, "menu YAML file (default: embedded menu)")
	fs.BoolVar(&cfg.List, "list", false, "print the menu without writing it")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Result counts what a seed run changed.
type Result struct {
	Categories      int
	ProductsCreated int
	ProductsSkipped int
}

// Run loads the menu and writes it to the store.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	menu, err := LoadMenu(cfg.MenuPath)
	if err != nil {
		return err
	}

	if cfg.List {
		for _, category := range menu.Categories {
			fmt.Fprintf(out, "%s\n", category.Name)
			for _, product := range category.Products {
				fmt.Fprintf(out, "  %-55s %6d\n", product.Name, product.PriceInCents)
			}
		}
		return nil
	}

	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("db path is required")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open restaurant store: %w", err)
	}
	defer store.Close()

	result, err := Apply(ctx, domain.NewMenuService(store, nil), menu)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d categories, %d products created, %d already present\n",
		result.Categories, result.ProductsCreated, result.ProductsSkipped)
	return nil
}

// Apply upserts categories and creates the products missing by name.
func Apply(ctx context.Context, menuService *domain.MenuService, menu Menu) (Result, error) {
	existing, err := menuService.ListProducts(ctx, domain.ProductQuery{})
	if err != nil {
		return Result{}, fmt.Errorf("list products: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, product := range existing {
		present[product.Name] = true
	}

	var result Result
	for _, entry := range menu.Categories {
		category, err := menuService.EnsureCategory(ctx, entry.Name, entry.DisplayOrder)
		if err != nil {
			return result, fmt.Errorf("ensure category %q: %w", entry.Name, err)
		}
		result.Categories++

		for _, item := range entry.Products {
			name := strings.TrimSpace(item.Name)
			if present[name] {
				result.ProductsSkipped++
				continue
			}
			available := !item.Unavailable
			price := item.PriceInCents
			input := domain.ProductInput{
				CategoryID:  &category.ID,
				Name:        &name,
				Description: &item.Description,
				PriceCents:  &price,
				ImageURL:    &item.ImageURL,
				Ingredients: &item.Ingredients,
				Available:   &available,
			}
			if _, err := menuService.CreateProduct(ctx, input); err != nil {
				return result, fmt.Errorf("create product %q: %w", name, err)
			}
			present[name] = true
			result.ProductsCreated++
		}
	}
	return result, nil
}
