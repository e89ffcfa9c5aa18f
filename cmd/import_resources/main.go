package main

import (
	"fmt"
	"os"

	"community-elibrary/library"

	jsoniter "github.com/json-iterator/go"
)

// manifestEntry mirrors one resource in the import manifest.
type manifestEntry struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Subject     string `json:"subject"`
	Language    string `json:"language"`
	FilePath    string `json:"file_path"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// import_resources bulk-loads a JSON manifest of resources into the catalog:
//
//	import_resources [manifest.json]
func main() {
	manifestPath := "resources.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading manifest: %v\n", err)
		os.Exit(1)
	}

	var entries []manifestEntry
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing manifest: %v\n", err)
		os.Exit(1)
	}

	lib, err := library.New(library.LoadConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	fmt.Printf("Importing %d resources from %s...\n", len(entries), manifestPath)

	successCount := 0
	errorCount := 0
	for _, e := range entries {
		fmt.Printf("Importing: %s by %s... ", e.Title, e.Author)
		id, err := lib.AddResource(e.Title, e.Author, e.Subject, e.Language, e.FilePath, e.Category, e.Description)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("OK (ID: %s)\n", id)
		successCount++
	}

	fmt.Printf("\nImport complete: %d succeeded, %d failed\n", successCount, errorCount)
	if errorCount > 0 {
		os.Exit(1)
	}
}
