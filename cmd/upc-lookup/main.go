// upc-lookup resolves barcodes against a local price book feed file using
// the same exact-then-normalized matching as the backend. Debugging aid for
// feed UPC issues ("why doesn't this bottle scan?").
//
// Usage:
//
//	go run ./cmd/upc-lookup -file pricebook.txt 012345 00088076184961
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/greatlakespos/pricebook_backend/models"
)

func main() {
	file := flag.String("file", "", "price book feed file")
	flag.Parse()

	if *file == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: upc-lookup -file <feed-file> <barcode> [<barcode>...]")
		os.Exit(1)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", *file, err)
		os.Exit(1)
	}

	result := models.LoadPriceBook(string(content))
	catalog := models.NewCatalog()
	catalog.ReplaceAll(result.Records)
	fmt.Printf("loaded %d records\n\n", result.Summary.TotalRecords)

	for _, barcode := range flag.Args() {
		record := catalog.FindByBarcode(barcode)
		if record == nil {
			fmt.Printf("%s: no match (normalized %s)\n", barcode, models.NormalizeUPC(barcode))
			continue
		}
		fmt.Printf("%s: %s %s  code=%s  upc1=%s  upc2=%s  shelf=%s\n",
			barcode, record.BrandName, record.BottleSize, record.LiquorCode,
			record.UPCCode1, record.UPCCode2, record.ShelfPrice.Display())
	}
}
