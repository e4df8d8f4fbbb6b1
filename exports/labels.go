package exports

import (
	"html/template"
	"strings"

	"github.com/greatlakespos/pricebook_backend/models"
)

// Labels are sized for 2.625in x 1in shelf stock (30-up letter sheets). The
// barcode line renders through a Code 39 font, so the scanned value is
// wrapped in the asterisk start/stop characters the symbology needs.
const labelsTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Shelf Labels</title>
<style>
body { font-family: Arial, sans-serif; margin: 0.5in 0.1875in; }
.labels { display: flex; flex-wrap: wrap; }
.label {
  width: 2.625in; height: 1in; padding: 2px 6px; box-sizing: border-box;
  overflow: hidden; text-align: center; page-break-inside: avoid;
}
.label .brand { font-size: 10pt; font-weight: bold; white-space: nowrap; overflow: hidden; }
.label .barcode { font-family: 'Libre Barcode 39', cursive; font-size: 26pt; line-height: 1; }
.label .price { font-size: 12pt; font-weight: bold; }
.label .was { font-size: 7pt; color: #555; }
.label .code { font-size: 7pt; color: #555; }
{{if .Print}}
@page { margin: 0.5in 0.1875in; }
{{else}}
body { background: #eee; }
.label { background: #fff; outline: 1px dashed #bbb; margin: 2px; }
{{end}}
</style>
</head>
<body{{if .Print}} onload="window.print()"{{end}}>
<div class="labels">
{{range .Labels}}<div class="label">
<div class="brand">{{.Name}}</div>
<div class="barcode">*{{.Barcode}}*</div>
<div class="price">{{.Price}}{{if .WasPrice}} <span class="was">was {{.WasPrice}}</span>{{end}}</div>
<div class="code">{{.LiquorCode}}</div>
</div>
{{end}}</div>
</body>
</html>
`

var labelsTemplate = template.Must(template.New("labels").Parse(labelsTemplateText))

type labelData struct {
	Name       string
	Barcode    string
	Price      string
	WasPrice   string
	LiquorCode string
}

type labelsPage struct {
	Print  bool
	Labels []labelData
}

// BuildLabelsHTML renders a printable label document for every scan event
// with a resolved product. print selects the print stylesheet and auto-print;
// otherwise the preview variant shows label outlines on screen.
func BuildLabelsHTML(items []*models.ScanEventDetail, print bool) (string, error) {
	page := labelsPage{Print: print}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		p := item.Product
		label := labelData{
			Name:       strings.TrimSpace(p.BrandName + " " + p.BottleSize),
			Barcode:    item.ScannedBarcode,
			Price:      p.ShelfPrice.Display(),
			LiquorCode: p.LiquorCode,
		}
		if p.OriginalShelfPrice != nil {
			label.WasPrice = p.OriginalShelfPrice.Display()
		}
		page.Labels = append(page.Labels, label)
	}
	if len(page.Labels) == 0 {
		return "", ErrNoRecords
	}

	var b strings.Builder
	if err := labelsTemplate.Execute(&b, page); err != nil {
		return "", err
	}
	return b.String(), nil
}
