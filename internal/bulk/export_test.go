package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
)

func TestExportProductsRoundTripsImportLayout(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	csvData := strings.Join([]string{
		"name,sku,brand,category,subcategory,tags,variants,prices,isBestSeller",
		"Dog Food,PF-1001,Acme,Pets,Dogs,grain-free,Size:Large|Size:Small,Lahore:1200:999,true",
		"Cat Food,PF-1002,Acme,Pets,,,,Karachi:800,false",
	}, "\n")
	if _, err := svc.ImportProducts(ctx, strings.NewReader(csvData)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var out bytes.Buffer
	if err := svc.ExportProducts(ctx, &out); err != nil {
		t.Fatalf("export: %v", err)
	}

	rows, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(rows[0]) != len(productColumns) {
		t.Fatalf("header has %d columns, want %d", len(rows[0]), len(productColumns))
	}
	// Two variant rows for the first product plus one plain row.
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 data rows, got %d", len(rows))
	}
	head := newHeader(rows[0])

	byVariant := make(map[string][]string)
	var plain []string
	for _, row := range rows[1:] {
		if head.get(row, "sku") == "PF-1001" {
			byVariant[head.get(row, "variants")] = row
		} else {
			plain = row
		}
	}

	large, ok := byVariant["Size:Large"]
	if !ok {
		t.Fatalf("missing Size:Large row, got variants %v", byVariant)
	}
	if _, ok := byVariant["Size:Small"]; !ok {
		t.Fatalf("missing Size:Small row, got variants %v", byVariant)
	}
	if head.get(large, "brand") != "Acme" || head.get(large, "category") != "Pets" {
		t.Fatalf("unexpected taxonomy cells: %v", large)
	}
	if head.get(large, "subcategory") != "Dogs" {
		t.Fatalf("expected subcategory name resolved, got %q", head.get(large, "subcategory"))
	}
	if head.get(large, "tags") != "grain-free" {
		t.Fatalf("unexpected tags cell %q", head.get(large, "tags"))
	}
	if got := head.get(large, "prices"); got != "Lahore:1200.00:999.00" {
		t.Fatalf("unexpected prices cell %q", got)
	}
	if head.get(large, "isBestSeller") != "true" {
		t.Fatalf("expected best seller true, got %q", head.get(large, "isBestSeller"))
	}
	if head.get(large, "variation_id") == "" {
		t.Fatal("expected variation id populated for variant rows")
	}

	if plain == nil {
		t.Fatal("missing row for product without variants")
	}
	if head.get(plain, "variants") != "" || head.get(plain, "variation_id") != "" {
		t.Fatalf("plain product must leave variant cells blank: %v", plain)
	}
	if got := head.get(plain, "prices"); got != "Karachi:800.00" {
		t.Fatalf("unexpected prices cell %q", got)
	}
}
