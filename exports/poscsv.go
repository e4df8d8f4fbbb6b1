package exports

import (
	"fmt"
	"strings"

	"github.com/greatlakespos/pricebook_backend/models"
)

// The label-printing tool ingests a fixed 28-column CSV. Only the first nine
// columns carry data; the rest are padding it requires:
//
//	 1  UPC, always wrapped in double quotes
//	 2  item name (brand + bottle size with spaces stripped)
//	 3  shelf price in integer cents
//	 4  formatted shelf price
//	 5  department, literal "Liquor"
//	 6  quantity, literal "1"
//	 7  liquor code with leading zeros stripped ("0" when empty)
//	 8  tax flag, literal "0"
//	 9  discount flag, literal "0"
//	10-28  reserved, empty
const posColumnCount = 28

// csvField strips characters that would break the tool's naive comma
// splitting; it does not honor quoted fields outside column 1.
func csvField(value string) string {
	value = strings.ReplaceAll(value, ",", " ")
	value = strings.ReplaceAll(value, "\"", "")
	return strings.TrimSpace(value)
}

func posItemName(product *models.LiquorRecord) string {
	size := strings.ReplaceAll(product.BottleSize, " ", "")
	name := strings.TrimSpace(product.BrandName + " " + size)
	return csvField(name)
}

func posRow(item *models.ScanEventDetail, name string) []string {
	product := item.Product
	row := make([]string, posColumnCount)
	row[0] = "\"" + csvField(item.ScannedBarcode) + "\""
	row[1] = name
	row[2] = fmt.Sprint(product.ShelfPrice.Cents())
	row[3] = csvField(product.ShelfPrice.Display())
	row[4] = "Liquor"
	row[5] = "1"
	row[6] = models.NormalizeUPC(product.LiquorCode)
	row[7] = "0"
	row[8] = "0"
	return row
}

// BuildPOSLabelCSV renders one row per scan event with a catalog-linked
// product. When registry is non-nil, a custom name wins over the brand name;
// the lookup tries the scanned barcode first, then the catalog's UPC columns.
func BuildPOSLabelCSV(items []*models.ScanEventDetail, registry *models.CustomNameRegistry) (string, error) {
	var b strings.Builder
	rows := 0
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		name := posItemName(item.Product)
		if registry != nil {
			if custom, ok := lookupCustomName(registry, item); ok {
				name = csvField(custom)
			}
		}
		b.WriteString(strings.Join(posRow(item, name), ","))
		b.WriteString("\r\n")
		rows++
	}
	if rows == 0 {
		return "", ErrNoRecords
	}
	return b.String(), nil
}

func lookupCustomName(registry *models.CustomNameRegistry, item *models.ScanEventDetail) (string, bool) {
	if name, ok := registry.Lookup(item.ScannedBarcode); ok {
		return name, true
	}
	if name, ok := registry.Lookup(item.Product.UPCCode1); ok {
		return name, true
	}
	if name, ok := registry.Lookup(item.Product.UPCCode2); ok {
		return name, true
	}
	return "", false
}
