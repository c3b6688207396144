package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordbook/pkg/models"
)

var exportHeader = []any{"word", "translation", "type", "phrase", "phrase translation", "difficulty"}

// Export writes words to an .xlsx file in DefaultParseConfig's layout. A word
// with several translations or phrases spans several rows.
func Export(words []models.Word, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, w := range words {
		lines := max(len(w.Translations), len(w.Phrases), 1)
		for i := 0; i < lines; i++ {
			values := []any{w.Word, "", "", "", "", w.Difficulty}
			if i < len(w.Translations) {
				values[1] = w.Translations[i].Translation
				values[2] = w.Translations[i].Type
			}
			if i < len(w.Phrases) {
				values[3] = w.Phrases[i].Phrase
				values[4] = w.Phrases[i].Translation
			}
			cellName, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cellName, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
