package reports

import (
	"fmt"
	"net/http"

	"kaskelas/internal/domain/billing"
	"kaskelas/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Tagihan"

// GET /api/reports/payments.xlsx?status=
func (h *Handler) ExportPayments(c *gin.Context) {
	var f store.PaymentFilter
	if raw := c.Query("status"); raw != "" {
		s, err := billing.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		f.Status = s
	}

	payments, err := h.Store.Payments.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	book, err := paymentsWorkbook(payments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build Excel file"})
		return
	}
	defer book.Close()

	fileName := fmt.Sprintf("tagihan_%s.xlsx", h.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := book.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

func paymentsWorkbook(payments []billing.Payment) (*excelize.File, error) {
	book := excelize.NewFile()
	index, err := book.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"No. Order", "Siswa", "NIS", "Kategori", "Jumlah", "Status", "Metode", "Dibuat", "Dibayar"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		book.SetCellValue(sheetName, cell, header)
	}

	for i, p := range payments {
		row := i + 2
		book.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		if p.Student != nil {
			book.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.Student.Name)
			book.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Student.StudentNumber)
		}
		if p.Category != nil {
			book.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Category.Name)
		}
		book.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Amount)
		book.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(p.Status))
		if p.PaymentMethod != nil {
			book.SetCellValue(sheetName, fmt.Sprintf("G%d", row), *p.PaymentMethod)
		}
		book.SetCellValue(sheetName, fmt.Sprintf("H%d", row), p.CreatedAt.Format("02/01/2006 15:04"))
		if p.CompletedAt != nil {
			book.SetCellValue(sheetName, fmt.Sprintf("I%d", row), p.CompletedAt.Format("02/01/2006 15:04"))
		}
	}
	return book, nil
}
