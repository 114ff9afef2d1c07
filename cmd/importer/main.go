// importer carga un catálogo de materiales desde un CSV y lo inserta en lotes.
//
// Uso: go run ./cmd/importer <items.csv>
//
// Columnas esperadas (con cabecera):
//
//	item_code,name,description,category,subcategory,unit_of_measure,
//	current_stock,reorder_level,minimum_stock,standard_cost,warehouse_location,project_id
//
// Categorías y unidades se aceptan como texto libre y se normalizan al enum.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	appstock "github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/infrastructure/postgres"
	"github.com/velocityfibre/fibreflow-stock/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: importer <items.csv>")
		os.Exit(1)
	}
	csvPath := os.Args[1]

	rows, err := readRows(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	itemRepo := postgres.NewStockItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	catalog := appstock.NewCatalogUseCase(itemRepo, movementRepo, nil)

	actor := appstock.Actor{ID: "importer", Name: "CSV Importer"}
	report, err := catalog.ImportItems(ctx, rows, actor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Items creados: %d\n", report.Created)
	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
	if len(report.Errors) > 0 {
		os.Exit(2)
	}
}

func readRows(path string) ([]appstock.ItemImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 12

	// Cabecera
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}

	var rows []appstock.ItemImportRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, appstock.ItemImportRow{
			ItemCode:          record[0],
			Name:              record[1],
			Description:       record[2],
			Category:          record[3],
			Subcategory:       record[4],
			UnitOfMeasure:     record[5],
			CurrentStock:      parseDecimal(record[6]),
			ReorderLevel:      parseDecimal(record[7]),
			MinimumStock:      parseDecimal(record[8]),
			StandardCost:      parseDecimal(record[9]),
			WarehouseLocation: record[10],
			ProjectID:         record[11],
		})
	}
	return rows, nil
}

// parseDecimal tolera celdas vacías o ilegibles: cuentan como cero y la
// validación por fila del caso de uso decide si la fila pasa.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
