package seeder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config controls how much fake catalog data is generated.
type Config struct {
	Categories          int        `mapstructure:"categories" yaml:"categories"`
	ProductsPerCategory int        `mapstructure:"products_per_category" yaml:"products_per_category"`
	BatchSize           int        `mapstructure:"batch_size" yaml:"batch_size"`
	Customers           int        `mapstructure:"customers" yaml:"customers"`
	Inventory           bool       `mapstructure:"inventory" yaml:"inventory"`
	Seed                int64      `mapstructure:"seed" yaml:"seed"`
	Price               PriceRange `mapstructure:"price" yaml:"price"`
}

type PriceRange struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// LoadConfig loads configuration with cascade: explicit path > ./seed.yaml >
// $SHOPCTL_CONFIG_DIR/seed.yaml > defaults. SHOPCTL_SEED_* variables
// override file values.
func LoadConfig(configPath, configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("seed")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHOPCTL_SEED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if configDir != "" {
			v.AddConfigPath(configDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if configPath == "" || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading seed config: %w", err)
			}
			return nil, fmt.Errorf("seed config %s not found", filepath.Clean(configPath))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling seed config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("seed config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("categories", 5)
	v.SetDefault("products_per_category", 10)
	v.SetDefault("batch_size", 25)
	v.SetDefault("customers", 0)
	v.SetDefault("inventory", true)
	v.SetDefault("seed", 0)
	v.SetDefault("price.min", 1.0)
	v.SetDefault("price.max", 500.0)
}

func (c *Config) Validate() error {
	if c.Categories < 0 || c.ProductsPerCategory < 0 || c.Customers < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.Price.Min <= 0 {
		return fmt.Errorf("price.min must be greater than 0")
	}
	if c.Price.Max < c.Price.Min {
		return fmt.Errorf("price.max (%.2f) is below price.min (%.2f)", c.Price.Max, c.Price.Min)
	}
	return nil
}

// TotalProducts is the number of products a full run creates.
func (c *Config) TotalProducts() int {
	return c.Categories * c.ProductsPerCategory
}
