// Package main provides a tool to seed the catalog with tools from a JSON
// file.
//
// The file holds an array of tool entries (title, caption, image, link,
// category). Entries whose title already exists are skipped, so reseeding
// an existing database is safe.
//
// Usage:
//
//	DATA_PATH=~/AIPortal/data go run ./cmd/seed -file tools.json
package main

import (
	"context"
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aiportalapp/aiportal-server/internal/domain"
	"github.com/aiportalapp/aiportal-server/internal/id"
	"github.com/aiportalapp/aiportal-server/internal/store"
)

var seedFile = flag.String("file", "tools.json", "Path to the JSON file with tool entries")

type seedTool struct {
	Title    string              `json:"title"`
	Caption  string              `json:"caption"`
	Image    string              `json:"image"`
	Link     string              `json:"link"`
	Category domain.CategoryList `json:"category"`
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/AIPortal/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	data, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var entries []seedTool
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}
	if len(entries) == 0 {
		log.Fatal("Seed file contains no tools")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	existing, err := s.AllTools(ctx)
	if err != nil {
		log.Fatalf("Failed to list existing tools: %v", err)
	}
	existingTitles := make(map[string]bool, len(existing))
	for _, tool := range existing {
		existingTitles[tool.Title] = true
	}

	created, skipped := 0, 0
	for _, entry := range entries {
		if entry.Title == "" || entry.Link == "" {
			fmt.Printf("  Skipping entry with missing title or link: %+v\n", entry)
			skipped++
			continue
		}
		if existingTitles[entry.Title] {
			skipped++
			continue
		}

		tool := &domain.Tool{
			ID:       id.MustGenerate("tool"),
			Title:    entry.Title,
			Caption:  entry.Caption,
			Image:    entry.Image,
			Link:     entry.Link,
			Category: entry.Category,
		}
		tool.InitTimestamps()

		if err := s.CreateTool(ctx, tool); err != nil {
			log.Printf("Failed to create %q: %v", entry.Title, err)
			continue
		}
		created++
	}

	fmt.Printf("\nSeed complete: %d created, %d skipped\n", created, skipped)
	fmt.Println("The server rebuilds the search index from the store on next start.")
}
