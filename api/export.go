package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"trialbalance/config"
	"trialbalance/database"
	"trialbalance/models"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "对账单"

// ExportHandler 导出对账单
type ExportHandler struct {
	repo   database.Repository
	marker string
}

// NewExportHandler marker 为导出 xlsx 时类别标题行的前缀，与导入时一致
func NewExportHandler(repo database.Repository, marker string) *ExportHandler {
	return &ExportHandler{repo: repo, marker: marker}
}

func (h *ExportHandler) load(c *gin.Context) (*models.Document, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	doc, err := h.repo.GetDocument(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		NotFound(c, "对账单不存在")
		return nil, false
	}
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "查询对账单失败"))
		return nil, false
	}
	return doc, true
}

func exportFilename(doc *models.Document, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", doc.BankName,
		doc.StartDate.Format("2006-01-02"), doc.EndDate.Format("2006-01-02"), ext)
}

type outlayCSVRow struct {
	Category       string `csv:"category"`
	AccountID      int64  `csv:"account_id"`
	OpeningActive  string `csv:"opening_active"`
	OpeningPassive string `csv:"opening_passive"`
	TurnoverDebit  string `csv:"turnover_debit"`
	TurnoverCredit string `csv:"turnover_credit"`
	ClosingActive  string `csv:"closing_active"`
	ClosingPassive string `csv:"closing_passive"`
}

func categoryName(o models.Outlay) string {
	if o.Category != nil {
		return o.Category.Name
	}
	return fmt.Sprintf("#%d", o.CategoryID)
}

// ExportCSV 导出对账单明细为 CSV
// @Summary 导出 CSV
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "对账单 ID"
// @Success 200 {file} file "CSV 文件"
// @Failure 404 {object} Response "对账单不存在"
// @Router /documents/{id}/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	rows := make([]outlayCSVRow, 0, len(doc.Outlays))
	for _, o := range doc.Outlays {
		rows = append(rows, outlayCSVRow{
			Category:       categoryName(o),
			AccountID:      o.AccountID,
			OpeningActive:  o.OpeningActive.StringFixed(2),
			OpeningPassive: o.OpeningPassive.StringFixed(2),
			TurnoverDebit:  o.TurnoverDebit.StringFixed(2),
			TurnoverCredit: o.TurnoverCredit.StringFixed(2),
			ClosingActive:  o.ClosingActive.StringFixed(2),
			ClosingPassive: o.ClosingPassive.StringFixed(2),
		})
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 显示非 ASCII 字符
	buf.WriteString("\xEF\xBB\xBF")
	if err := gocsv.Marshal(rows, buf); err != nil {
		InternalError(c, config.SafeErrorMessage(err, "生成 CSV 失败"))
		return
	}

	setAttachment(c, exportFilename(doc, "csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 按上传时的版式重新生成 xlsx
// @Summary 导出 Excel
// @Description 生成与上传格式一致的试算平衡表（表头、类别标题行、明细行），末尾附合计行
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "对账单 ID"
// @Success 200 {file} file "xlsx 文件"
// @Failure 404 {object} Response "对账单不存在"
// @Router /documents/{id}/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	f, err := renderDocument(doc, h.marker)
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, config.SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}

	setAttachment(c, exportFilename(doc, "xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func cellName(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col-1, row)
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// renderDocument 第 1 行银行名称，第 3 行期间，第 6-7 行列头，第 8 行起为类别标题和明细
// 金额使用 0.00 格式，导出的文件可以再次上传
func renderDocument(doc *models.Document, marker string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	categoryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
		Border: thinBorder,
	})
	accountStyle, _ := f.NewStyle(&excelize.Style{
		Border: thinBorder,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		NumFmt: 2,
		Border: thinBorder,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		NumFmt: 2,
		Border: thinBorder,
	})

	f.SetColWidth(exportSheet, "A", "A", 16)
	f.SetColWidth(exportSheet, "B", "G", 18)

	f.SetCellValue(exportSheet, "A1", doc.BankName)
	f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)
	f.SetCellValue(exportSheet, "A3", fmt.Sprintf("%s - %s",
		doc.StartDate.Format("02.01.2006"), doc.EndDate.Format("02.01.2006")))

	// 两行列头
	f.SetCellValue(exportSheet, "A6", "账号")
	f.MergeCell(exportSheet, "A6", "A7")
	for i, group := range []string{"期初余额", "本期发生额", "期末余额"} {
		from, to := cellName(2+i*2, 6), cellName(3+i*2, 6)
		f.SetCellValue(exportSheet, from, group)
		f.MergeCell(exportSheet, from, to)
	}
	for i, sub := range []string{"资产", "负债", "借方", "贷方", "资产", "负债"} {
		f.SetCellValue(exportSheet, cellName(2+i, 7), sub)
	}
	f.SetCellStyle(exportSheet, "A6", "G7", headerStyle)

	// 按首次出现的顺序分组
	var order []uint
	groups := make(map[uint][]models.Outlay)
	for _, o := range doc.Outlays {
		if _, ok := groups[o.CategoryID]; !ok {
			order = append(order, o.CategoryID)
		}
		groups[o.CategoryID] = append(groups[o.CategoryID], o)
	}

	var totals [6]decimal.Decimal
	row := 8
	for n, catID := range order {
		outlays := groups[catID]
		heading := cellName(1, row)
		f.SetCellValue(exportSheet, heading, fmt.Sprintf("%s %d %s", marker, n+1, categoryName(outlays[0])))
		f.MergeCell(exportSheet, heading, cellName(7, row))
		f.SetCellStyle(exportSheet, heading, cellName(7, row), categoryStyle)
		row++

		for _, o := range outlays {
			amounts := [6]decimal.Decimal{
				o.OpeningActive, o.OpeningPassive,
				o.TurnoverDebit, o.TurnoverCredit,
				o.ClosingActive, o.ClosingPassive,
			}
			f.SetCellValue(exportSheet, cellName(1, row), o.AccountID)
			for i, amount := range amounts {
				f.SetCellValue(exportSheet, cellName(2+i, row), amount.InexactFloat64())
				totals[i] = totals[i].Add(amount)
			}
			f.SetCellStyle(exportSheet, cellName(1, row), cellName(1, row), accountStyle)
			f.SetCellStyle(exportSheet, cellName(2, row), cellName(7, row), dataStyle)
			row++
		}
	}

	f.SetCellValue(exportSheet, cellName(1, row), "合计")
	for i, total := range totals {
		f.SetCellValue(exportSheet, cellName(2+i, row), total.InexactFloat64())
	}
	f.SetCellStyle(exportSheet, cellName(1, row), cellName(7, row), summaryStyle)

	return f, nil
}
