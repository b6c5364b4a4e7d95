// controllers/approval_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_media_stock/app"
	"Gin_postgres_redis_media_stock/db"

	"github.com/gin-gonic/gin"
)

type ApprovalController struct{ *Srv }

func NewApprovalController(s *Srv) *ApprovalController { return &ApprovalController{Srv: s} }

// GET /api/admin/groups?status=pending&type=&page=&size=  审批工作台列表
func (ac *ApprovalController) ListGroups(c *gin.Context) {
	q := db.GroupQuery{
		Status: c.DefaultQuery("status", ""),
		UserID: c.Query("userId"),
	}
	q.RequisitionType, _ = strconv.Atoi(c.DefaultQuery("type", "0"))
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListLogGroups(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/admin/groups/:groupId  单组明细
func (ac *ApprovalController) GetGroup(c *gin.Context) {
	rows, err := ac.Repo.GetGroupRows(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"lines": rows})
}

type approvalLineReq struct {
	LogID       string `json:"logId" binding:"required"`
	ApprovedQty *int   `json:"approvedQty" binding:"required"`
}

// POST /api/admin/groups/:groupId/approve  整组审批，全过或全不过
func (ac *ApprovalController) Approve(c *gin.Context) {
	var in struct {
		Lines []approvalLineReq `json:"lines" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	lines := make([]db.LineApproval, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, db.LineApproval{LogID: l.LogID, ApprovedQty: *l.ApprovedQty})
	}

	adminID := c.GetString("userID")
	if err := ac.Repo.ApproveGroup(c.Request.Context(), c.Param("groupId"), lines, adminID); err != nil {
		fail(c, err)
		return
	}

	rows, err := ac.Repo.GetGroupRows(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "lines": rows})
}

// POST /api/admin/groups/:groupId/reject  整组驳回，不动库存
func (ac *ApprovalController) Reject(c *gin.Context) {
	var in struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&in)

	adminID := c.GetString("userID")
	if err := ac.Repo.RejectGroup(c.Request.Context(), c.Param("groupId"), adminID, in.Note); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/admin/logs/:logId/return  登记借用归还
func (ac *ApprovalController) Return(c *gin.Context) {
	var in struct {
		ReturnedQty *int `json:"returnedQty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	staffID := c.GetString("userID")
	entry, err := ac.Repo.ReturnBorrow(c.Request.Context(), c.Param("logId"), *in.ReturnedQty, staffID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
