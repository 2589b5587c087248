// Command migrate bootstraps the analytics schema and optionally seeds the
// orders table from a CSV export:
//
//	DATABASE_URL=postgres://... migrate [orders.csv]
package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/ingest"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/store"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping: %v", err)
	}
	log.Println("Connected to database")

	ctx := context.Background()
	st := store.New(db)
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	log.Println("Schema up to date")

	if len(os.Args) > 1 {
		path := os.Args[1]
		recs, err := ingest.ReadOrdersFile(path)
		if err != nil {
			log.Fatalf("load %s: %v", path, err)
		}
		if err := st.SaveOrders(ctx, recs); err != nil {
			log.Fatalf("seed orders: %v", err)
		}
		log.Printf("Seeded %d orders from %s", len(recs), path)
	}
}
