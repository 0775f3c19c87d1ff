package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/logging"
)

// Runner creates fake catalog data against a running backend. It needs
// credentials with admin or vendor rights.
type Runner struct {
	Config    *Config
	API       *client.Client
	Logger    *logging.Logger
	generator *Generator
}

// Report counts what a run created.
type Report struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Inventory  int `json:"inventory"`
	Customers  int `json:"customers"`
	Failed     int `json:"failed"`
}

func NewRunner(cfg *Config, api *client.Client, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		Config:    cfg,
		API:       api,
		Logger:    logger,
		generator: NewGenerator(cfg.Seed, cfg.Price),
	}
}

// Run seeds categories, then their products in batches, then stock records
// and customer accounts. Authorization failures stop the run; other per-item
// failures are counted and skipped.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	log := r.Logger.With(logging.Operation("seed"))
	log.InfoContext(ctx, "starting catalog seeder",
		"categories", r.Config.Categories,
		"products_per_category", r.Config.ProductsPerCategory,
		"batch_size", r.Config.BatchSize,
		"customers", r.Config.Customers,
	)

	report := &Report{}
	for i := 0; i < r.Config.Categories; i++ {
		category, err := r.API.Categories.Add(ctx, r.generator.Category())
		if err != nil {
			if fatal(err) {
				return report, fmt.Errorf("create category: %w", err)
			}
			log.WarnContext(ctx, "category create failed", logging.Error(err))
			report.Failed += 1 + r.Config.ProductsPerCategory
			continue
		}
		report.Categories++

		products, err := r.seedProducts(ctx, category.ID, report)
		if err != nil {
			return report, err
		}
		if r.Config.Inventory {
			if err := r.seedInventory(ctx, products, report); err != nil {
				return report, err
			}
		}
	}

	for i := 0; i < r.Config.Customers; i++ {
		if _, err := r.API.Users.Register(ctx, r.generator.Customer()); err != nil {
			if fatal(err) {
				return report, fmt.Errorf("register customer: %w", err)
			}
			log.WarnContext(ctx, "customer registration failed", logging.Error(err))
			report.Failed++
			continue
		}
		report.Customers++
	}

	log.InfoContext(ctx, "seeding complete",
		"categories", report.Categories,
		"products", report.Products,
		"inventory", report.Inventory,
		"customers", report.Customers,
		"failed", report.Failed,
	)
	return report, nil
}

func (r *Runner) seedProducts(ctx context.Context, categoryID int64, report *Report) ([]client.Product, error) {
	var created []client.Product
	batch := make([]client.ProductInput, 0, r.Config.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		products, err := r.API.Products.AddBulk(ctx, batch)
		if err != nil {
			if fatal(err) {
				return fmt.Errorf("create products: %w", err)
			}
			r.Logger.WarnContext(ctx, "product batch failed", "size", len(batch), logging.Error(err))
			report.Failed += len(batch)
		} else {
			report.Products += len(products)
			created = append(created, products...)
		}
		batch = batch[:0]
		return nil
	}

	for i := 0; i < r.Config.ProductsPerCategory; i++ {
		batch = append(batch, r.generator.Product(categoryID))
		if len(batch) >= r.Config.BatchSize {
			if err := flush(); err != nil {
				return created, err
			}
		}
	}
	return created, flush()
}

func (r *Runner) seedInventory(ctx context.Context, products []client.Product, report *Report) error {
	for _, p := range products {
		if _, err := r.API.Inventory.Add(ctx, r.generator.Inventory(p.ID)); err != nil {
			if fatal(err) {
				return fmt.Errorf("create inventory: %w", err)
			}
			r.Logger.WarnContext(ctx, "inventory create failed", "product_id", p.ID, logging.Error(err))
			report.Failed++
			continue
		}
		report.Inventory++
	}
	return nil
}

func fatal(err error) bool {
	return errors.Is(err, client.ErrAuth) ||
		errors.Is(err, client.ErrTransport) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
