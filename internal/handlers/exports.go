package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

// utf8BOM добавляется в начало CSV-файла, чтобы Excel корректно
// распознавал кириллицу в названиях ингредиентов.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type ExportHandler struct {
	Ledger   *repository.LedgerStore
	Profiles *repository.ProfileRepository
}

// NewExportHandler создает обработчик выгрузки истории.
func NewExportHandler(ledger *repository.LedgerStore, profiles *repository.ProfileRepository) *ExportHandler {
	return &ExportHandler{Ledger: ledger, Profiles: profiles}
}

// ExportJSON выгружает всю историю в JSON-файл.
func (h *ExportHandler) ExportJSON(c echo.Context) error {
	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	history, err := h.Ledger.History(c.Request().Context(), goals)
	if err != nil {
		return serverError(c)
	}

	filename := "meal-history-" + time.Now().Format(dateLayout) + ".json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, history)
}

// ExportCSV выгружает историю в CSV-файл построчно по ингредиентам.
func (h *ExportHandler) ExportCSV(c echo.Context) error {
	goals, err := h.Profiles.Goals(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	history, err := h.Ledger.History(c.Request().Context(), goals)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)

	if err := writeHistoryCSV(writer, repository.ExportRows(history)); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "meal-history-" + time.Now().Format(dateLayout) + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeHistoryCSV(writer *csv.Writer, rows []repository.ExportRow) error {
	header := []string{
		"date",
		"meal_type",
		"ingredient",
		"weight_g",
		"calories",
		"protein_g",
		"fat_g",
		"carbs_g",
		"fiber_g",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.MealType,
			row.IngredientName,
			formatFloat(row.Weight),
			formatFloat(row.Calories),
			formatFloat(row.Protein),
			formatFloat(row.Fat),
			formatFloat(row.Carbs),
			formatFloat(row.Fiber),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
