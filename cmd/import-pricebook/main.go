// import-pricebook parses a local Michigan price book feed file and prints
// its summary statistics. Useful for smoke-testing a feed file before
// uploading it to the backend.
//
// Usage:
//
//	go run ./cmd/import-pricebook <feed-file>
package main

import (
	"fmt"
	"os"

	"github.com/greatlakespos/pricebook_backend/models"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: import-pricebook <feed-file>")
		os.Exit(1)
	}

	content, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	result := models.LoadPriceBook(string(content))
	s := result.Summary

	fmt.Printf("records:         %d\n", s.TotalRecords)
	fmt.Printf("unique brands:   %d\n", s.UniqueBrands)
	fmt.Printf("unique vendors:  %d\n", s.UniqueVendors)
	fmt.Printf("avg shelf price: $%s\n", s.AvgShelfPrice.StringFixed(2))

	nonNumeric := 0
	for _, r := range result.Records {
		if !r.ShelfPrice.Numeric {
			nonNumeric++
		}
	}
	if nonNumeric > 0 {
		fmt.Printf("rows with non-numeric shelf price: %d\n", nonNumeric)
	}
}
