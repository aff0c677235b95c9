// Command seed prepares the gateway's MongoDB report archive. It creates
// the indexes and copies reports archived by the terminal client from its
// SQLite file to a gateway login.
package main

import (
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/repository"
	"context"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	source := flag.String("sqlite", cfg.HistoryDB, "terminal client archive to import")
	from := flag.String("from", "local", "owner of the reports in the SQLite archive")
	to := flag.String("to", "", "gateway session key to import the reports for (required)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Server.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Server.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Report indexes ready")

	if *to == "" {
		return
	}

	archive, err := repository.NewSQLiteReportRepo(*source)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *source, err)
	}
	defer archive.Close()

	records, err := archive.ListByOwner(ctx, *from, 0)
	if err != nil {
		log.Fatalf("Failed to read archive: %v", err)
	}

	reports := repository.NewReportRepo(db)
	for _, record := range records {
		record.Owner = *to
		if err := reports.Save(ctx, record); err != nil {
			log.Fatalf("Failed to import session %d: %v", record.SessionID, err)
		}
		log.Printf("Imported session %d (%.1f, %s)", record.SessionID, record.Report.OverallScore, record.Report.FinalVerdict)
	}
	log.Printf("Imported %d reports for %s", len(records), *to)
}
