// controllers/report_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_media_stock/db"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/history  用户看自己的提交记录（按组分页）
func (rc *ReportController) MyHistory(c *gin.Context) {
	q := db.GroupQuery{
		UserID: c.GetString("userID"),
		Status: c.Query("status"),
	}
	q.RequisitionType, _ = strconv.Atoi(c.DefaultQuery("type", "0"))
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := rc.Repo.ListLogGroups(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/admin/reports/export?type=&status=  当前筛选导出 .xlsx
func (rc *ReportController) Export(c *gin.Context) {
	q := db.GroupQuery{
		Status: c.Query("status"),
		UserID: c.Query("userId"),
	}
	q.RequisitionType, _ = strconv.Atoi(c.DefaultQuery("type", "0"))
	q.Page, q.Size = 1, 100 // 导出也按组分页，一页顶多 100 组
	if v := c.Query("page"); v != "" {
		q.Page, _ = strconv.Atoi(v)
	}

	res, err := rc.Repo.ListLogGroups(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Group", "User", "Type", "Submitted", "Status", "Delivery", "Reason", "Item", "Unit", "Requested", "Approved"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, g := range res.Groups {
		typeLabel := "requisition"
		if g.RequisitionType == 2 {
			typeLabel = "borrow"
		}
		for _, it := range g.Items {
			values := []any{
				g.GroupID, g.Username, typeLabel,
				g.SubmittedAt.Format("2006-01-02 15:04"),
				g.Status, g.DeliveryMethod, g.ReasonCode,
				it.ItemName, it.Unit, it.RequestedSum, it.ApprovedSum,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	filename := fmt.Sprintf("requisition-report-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		fail(c, err)
		return
	}
}

// GET /api/admin/evaluations  满意度问卷翻阅
func (rc *ReportController) ListEvaluations(c *gin.Context) {
	actionType, _ := strconv.Atoi(c.DefaultQuery("type", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := rc.Repo.ListEvaluations(c.Request.Context(), actionType, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/admin/ledger?itemId=  库存流水
func (rc *ReportController) ListLedger(c *gin.Context) {
	q := db.LedgerQuery{ItemID: c.Query("itemId")}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := rc.Repo.ListLedger(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
