// Package export writes the three record sets of a run to tabular outputs:
// a multi-sheet XLSX workbook or timestamped JSON files.
package export

import (
	"fmt"

	"github.com/maltedev/luluka-scraper/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	categoriesSheet  = "Categories"
	productListSheet = "Product List"
	productsSheet    = "Products"
)

// WriteXLSX writes the result as a workbook with one sheet per record set.
func WriteXLSX(result *models.Result, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeCategories(f, result.Categories); err != nil {
		return err
	}
	if err := writeProductList(f, result.Products); err != nil {
		return err
	}
	if err := writeProducts(f, result.Details); err != nil {
		return err
	}

	// Drop excelize's default sheet so the workbook opens on Categories.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeCategories(f *excelize.File, categories []models.Category) error {
	rows := [][]interface{}{{"Category", "Link"}}
	for _, c := range categories {
		rows = append(rows, []interface{}{c.Name, c.URL})
	}
	return writeSheet(f, categoriesSheet, rows)
}

func writeProductList(f *excelize.File, products []models.ProductRef) error {
	rows := [][]interface{}{{"Category", "Product", "Link"}}
	for _, p := range products {
		rows = append(rows, []interface{}{p.Category, p.Name, p.URL})
	}
	return writeSheet(f, productListSheet, rows)
}

func writeProducts(f *excelize.File, details []models.ProductDetail) error {
	rows := [][]interface{}{{
		"Category", "Ref", "Product", "Type", "Product Variant",
		"Variant", "Price", "Availability", "Description", "Link",
	}}
	for _, d := range details {
		rows = append(rows, []interface{}{
			d.Category, d.Ref, d.Product, d.Type, d.VariantName,
			d.VariantGroup, d.Price, d.Availability, d.Description, d.URL,
		})
	}
	return writeSheet(f, productsSheet, rows)
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, name, err)
		}
	}
	return nil
}
