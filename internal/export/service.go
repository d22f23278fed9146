package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
)

// Service produces XLSX bytes for catalog exports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportCatalogXLSX renders the catalog as a workbook: one Recipes sheet
// with the full recipe table, plus an Unmatched sheet when chapters list
// recipes the pipeline never extracted.
func (s *Service) ExportCatalogXLSX(cat *entity.Catalog) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Recipes"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIdx, _ := f.GetSheetIndex("Sheet1"); defaultIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Name",
		"Chapter",
		"Meal Type",
		"Dish Role",
		"Serves",
		"Prep Time",
		"Cook Time",
		"Calories",
		"Protein",
		"Carbs",
		"Fat",
		"Dietary",
		"Ingredients",
		"Instructions",
		"Sub-Recipes",
		"Complete",
		"Source Images",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range cat.Recipes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		subNames := make([]string, 0, len(r.SubRecipes))
		for _, sub := range r.SubRecipes {
			subNames = append(subNames, sub.Name)
		}

		write(1, r.Name)
		write(2, r.Chapter)
		write(3, string(r.MealType))
		write(4, string(r.DishRole))
		write(5, r.Serves)
		write(6, r.PrepTime)
		write(7, r.CookTime)
		write(8, r.Calories)
		write(9, r.Protein)
		write(10, r.Carbs)
		write(11, r.Fat)
		write(12, strings.Join(r.DietaryInfo, ", "))
		write(13, strings.Join(r.Ingredients, "\n"))
		write(14, strings.Join(r.Instructions, "\n"))
		write(15, strings.Join(subNames, ", "))
		write(16, r.IsComplete)
		write(17, strings.Join(r.Sources(), ", "))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // name
	_ = f.SetColWidth(sheet, "B", "B", 22) // chapter
	_ = f.SetColWidth(sheet, "C", "D", 12)
	_ = f.SetColWidth(sheet, "E", "K", 10)
	_ = f.SetColWidth(sheet, "L", "L", 24) // dietary
	_ = f.SetColWidth(sheet, "M", "N", 60) // ingredients, instructions
	_ = f.SetColWidth(sheet, "O", "O", 30)
	_ = f.SetColWidth(sheet, "Q", "Q", 40)

	if cat.Index != nil && len(cat.Index.Unmatched) > 0 {
		const unmatchedSheet = "Unmatched"
		if _, err := f.NewSheet(unmatchedSheet); err != nil {
			return nil, err
		}
		for i, h := range []string{"Name", "Chapter", "Note"} {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(unmatchedSheet, cell, h)
		}
		for i, u := range cat.Index.Unmatched {
			_ = f.SetCellValue(unmatchedSheet, fmt.Sprintf("A%d", i+2), u.Name)
			_ = f.SetCellValue(unmatchedSheet, fmt.Sprintf("B%d", i+2), u.Chapter)
			_ = f.SetCellValue(unmatchedSheet, fmt.Sprintf("C%d", i+2), u.Note)
		}
		_ = f.SetColWidth(unmatchedSheet, "A", "A", 36)
		_ = f.SetColWidth(unmatchedSheet, "B", "B", 22)
		_ = f.SetColWidth(unmatchedSheet, "C", "C", 44)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(cat.Recipes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
