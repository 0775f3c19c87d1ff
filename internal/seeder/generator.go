package seeder

import (
	"fmt"
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/smartshop/shopctl/internal/client"
)

// Generator produces fake catalog records. With the same seed it produces
// the same sequence.
type Generator struct {
	faker      *gofakeit.Faker
	price      PriceRange
	categories map[string]int
	skus       int
}

// NewGenerator returns a Generator. A seed of 0 picks a random one.
func NewGenerator(seed int64, price PriceRange) *Generator {
	return &Generator{
		faker:      gofakeit.New(seed),
		price:      price,
		categories: make(map[string]int),
	}
}

// Category returns a category with a name not handed out before.
func (g *Generator) Category() client.CategoryInput {
	base := titleCase(g.faker.ProductCategory())
	g.categories[base]++
	name := base
	if n := g.categories[base]; n > 1 {
		name = fmt.Sprintf("%s %d", base, n)
	}
	return client.CategoryInput{
		Name:        name,
		Description: g.faker.Sentence(8),
	}
}

func (g *Generator) Product(categoryID int64) client.ProductInput {
	g.skus++
	sku := fmt.Sprintf("SKU-%s-%04d", strings.ToUpper(g.faker.LetterN(3)), g.skus)
	return client.ProductInput{
		Name:        g.faker.ProductName(),
		Description: g.faker.ProductDescription(),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/400/400", sku),
		CategoryID:  categoryID,
		SKU:         sku,
		Price:       roundCents(g.faker.Price(g.price.Min, g.price.Max)),
	}
}

func (g *Generator) Inventory(productID int64) client.InventoryInput {
	return client.InventoryInput{
		ProductID: productID,
		Quantity:  g.faker.Number(0, 250),
		Location:  fmt.Sprintf("Warehouse %s", g.faker.City()),
	}
}

// Customer returns a registration for a fake customer account.
func (g *Generator) Customer() client.RegisterRequest {
	first, last := g.faker.FirstName(), g.faker.LastName()
	return client.RegisterRequest{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s.%d@example.com", emailPart(first), emailPart(last), g.faker.Number(100, 999)),
		Password:  g.faker.Password(true, true, true, false, false, 12),
		Role:      client.RoleCustomer,
	}
}

// emailPart keeps the ASCII letters of a name, lower-cased.
func emailPart(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
