package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedCupSizes(ctx, pool)
	seedIngredients(ctx, pool)
	seedTaxRates(ctx, pool)
	seedFixedItems(ctx, pool)
	seedPersonalizations(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedCupSizes(ctx context.Context, pool *pgxpool.Pool) {
	sizes := []struct {
		Name       string
		BasePrice  string
		Multiplier string
	}{
		{"Piccolo", "2.50", "1.00"},
		{"Medio", "3.50", "1.00"},
		{"Grande", "5.00", "1.30"},
	}

	fmt.Println("Seeding cup sizes...")
	for _, s := range sizes {
		_, err := pool.Exec(ctx, `
			INSERT INTO cup_sizes (name, base_price, multiplier)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING;
		`, s.Name, s.BasePrice, s.Multiplier)
		if err != nil {
			log.Printf("Failed to seed cup size %s: %v", s.Name, err)
		}
	}
}

func seedIngredients(ctx context.Context, pool *pgxpool.Pool) {
	ingredients := []struct {
		Name  string
		Price string
	}{
		{"Espresso", "1.00"},
		{"Latte", "0.80"},
		{"Cioccolato", "1.20"},
		{"Panna", "0.90"},
		{"Caramello", "1.10"},
		{"Menta", "0.70"},
		{"Vaniglia", "0.80"},
		{"Nocciola", "1.00"},
	}

	fmt.Println("Seeding ingredients...")
	for _, ing := range ingredients {
		_, err := pool.Exec(ctx, `
			INSERT INTO ingredients (name, added_price, available)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (name) DO NOTHING;
		`, ing.Name, ing.Price)
		if err != nil {
			log.Printf("Failed to seed ingredient %s: %v", ing.Name, err)
		}
	}
}

func seedTaxRates(ctx context.Context, pool *pgxpool.Pool) {
	rates := []struct {
		Name       string
		Percentage string
	}{
		{"IVA ordinaria", "22.00"},
		{"IVA ridotta", "10.00"},
		{"IVA minima", "4.00"},
	}

	fmt.Println("Seeding tax rates...")
	for _, r := range rates {
		_, err := pool.Exec(ctx, `
			INSERT INTO tax_rates (name, percentage)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING;
		`, r.Name, r.Percentage)
		if err != nil {
			log.Printf("Failed to seed tax rate %s: %v", r.Name, err)
		}
	}
}

func seedFixedItems(ctx context.Context, pool *pgxpool.Pool) {
	items := []struct {
		Name  string
		Kind  string
		Price string
	}{
		{"Acqua naturale", "standard-beverage", "1.00"},
		{"Coca Cola", "standard-beverage", "2.50"},
		{"Succo d'arancia", "standard-beverage", "3.00"},
		{"Birra artigianale", "standard-beverage", "4.50"},
		{"Tiramisu", "dessert", "4.00"},
		{"Panna cotta", "dessert", "3.50"},
		{"Cannolo", "dessert", "3.00"},
	}

	fmt.Println("Seeding fixed price items...")
	for _, it := range items {
		_, err := pool.Exec(ctx, `
			INSERT INTO fixed_price_items (name, kind, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (name, kind) DO NOTHING;
		`, it.Name, it.Kind, it.Price)
		if err != nil {
			log.Printf("Failed to seed item %s: %v", it.Name, err)
		}
	}
}

func seedPersonalizations(ctx context.Context, pool *pgxpool.Pool) {
	personalizations := map[string][]string{
		"Mocha classica": {"Espresso", "Cioccolato", "Latte"},
		"Caffe con panna": {"Espresso", "Panna"},
		"Caramel dream":  {"Espresso", "Caramello", "Panna"},
	}

	fmt.Println("Seeding personalizations...")
	for name, ingredients := range personalizations {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO personalizations (name) VALUES ($1) RETURNING id;
		`, name).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed personalization %s: %v", name, err)
			continue
		}
		for _, ing := range ingredients {
			_, err := pool.Exec(ctx, `
				INSERT INTO personalization_items (personalization_id, ingredient_id, quantity)
				SELECT $1, id, 1 FROM ingredients WHERE name = $2
				ON CONFLICT DO NOTHING;
			`, id, ing)
			if err != nil {
				log.Printf("Failed to link ingredient %s to %s: %v", ing, name, err)
			}
		}
	}
}
