package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"leadmanager/internal/database"
	"leadmanager/internal/domain/lead"
)

func ptr(s string) *string { return &s }

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "leads.db"
	}
	reset := len(os.Args) > 1 && os.Args[1] == "--reset"

	if err := run(dsn, reset); err != nil {
		log.Fatal(err)
	}
}

func run(dsn string, reset bool) error {
	db, err := database.Connect(dsn)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Println("close database:", err)
		}
	}()

	log.Println("Running AutoMigrate...")
	if err := lead.Migrate(db); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	if reset {
		log.Println("Cleaning old leads...")
		if err := db.Exec("DELETE FROM leads").Error; err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	followUp := time.Now().UTC().AddDate(0, 0, 7).Format(time.DateOnly)

	demo := []lead.CreateLeadRequest{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "5551234567", Status: "New", Source: "Website"},
		{Name: "Bob Smith", Email: "bob.smith@example.com", Phone: "5559876543", Status: "Contacted", Source: "Referral", Notes: "Asked for pricing", FollowUpDate: ptr(followUp)},
		{Name: "Carol White", Email: "carol@example.org", Phone: "5550001111", Status: "Qualified", Source: "Social Media", AssignedTo: "sales-1"},
		{Name: "David Brown", Email: "david.brown@example.net", Phone: "5552223333", Status: "Lost", Source: "Advertisement", Notes: "Went with a competitor"},
		{Name: "Eve Davis", Email: "eve@example.com", Phone: "5554445555", Status: "Confirmed", Source: "Email", AssignedTo: "sales-2"},
		{Name: "Frank Miller", Email: "frank@example.com", Phone: "5556667777", Status: "Cancelled", Source: "Other"},
	}

	svc := lead.NewService(lead.NewRepository(db))
	ctx := context.Background()

	created := 0
	for i := range demo {
		l, err := svc.Create(ctx, &demo[i])
		if errors.Is(err, lead.ErrEmailExists) {
			log.Printf("skip %s: already exists", demo[i].Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("create %s: %w", demo[i].Email, err)
		}
		created++
		log.Printf("lead created: %s <%s> [%s]", l.Name, l.Email, l.Status)
	}

	log.Printf("Seed completed: %d leads created", created)
	return nil
}
