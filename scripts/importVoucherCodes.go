package main

import (
	"context"
	"encoding/csv"
	"log"
	"os"
	"time"

	"vportal/config"
	"vportal/remotestore"
	"vportal/repository"
	"vportal/workflow"
)

// Imports a CSV of voucher codes straight into the remote pool, for initial
// loads too big for the upload endpoint. Usage:
//
//	go run ./scripts <file.csv>
func main() {
	config.LoadConfig()

	path := "VoucherCodes.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	log.Printf("CSV Headers: %v", records[0])
	log.Printf("Total rows to import: %d", len(records)-1)

	store := remotestore.New(
		config.AppConfig.RemoteStoreURL,
		config.AppConfig.RemoteStoreAnonKey,
		config.AppConfig.RemoteStoreServiceKey,
	)
	if !store.Enabled() {
		log.Fatal("Remote table store is not configured")
	}

	engine := workflow.NewEngine(
		repository.NewVoucherRequestRepo(store),
		repository.NewVoucherCodeRepo(store),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := engine.ImportVoucherCodes(ctx, records[0], records[1:])
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", result.Inserted)
	log.Printf("Skipped: %d", result.Skipped)
}
