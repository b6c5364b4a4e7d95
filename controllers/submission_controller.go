// controllers/submission_controller.go
package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_media_stock/app"
	"Gin_postgres_redis_media_stock/db"
	"Gin_postgres_redis_media_stock/models"
	"Gin_postgres_redis_media_stock/notify"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct{ *Srv }

func NewSubmissionController(s *Srv) *SubmissionController { return &SubmissionController{Srv: s} }

type submitEvaluationReq struct {
	Score      int    `json:"score" binding:"required,min=1,max=5"`
	Suggestion string `json:"suggestion"`
}

// POST /api/cart/submit  把购物车一次性提交成一个申请组
func (sc *SubmissionController) Submit(c *gin.Context) {
	var in struct {
		RequisitionType int                  `json:"requisitionType" binding:"required"`
		DeliveryMethod  string               `json:"deliveryMethod" binding:"required"`
		DeliveryAddress string               `json:"deliveryAddress"`
		DueDate         *time.Time           `json:"dueDate"`
		ReasonCode      string               `json:"reasonCode" binding:"required"`
		ReasonNote      string               `json:"reasonNote"`
		Evaluation      *submitEvaluationReq `json:"evaluation"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	input := db.SubmitInput{
		UserID:          userID,
		RequisitionType: in.RequisitionType,
		DeliveryMethod:  in.DeliveryMethod,
		DeliveryAddress: in.DeliveryAddress,
		DueDate:         in.DueDate,
		ReasonCode:      in.ReasonCode,
		ReasonNote:      in.ReasonNote,
	}
	if in.Evaluation != nil {
		input.Evaluation = &db.SubmitEvaluation{
			Score:      in.Evaluation.Score,
			Suggestion: in.Evaluation.Suggestion,
		}
	}

	res, err := sc.Repo.SubmitCart(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	// 通知纯属尽力而为，放后台跑，失败不影响已落库的提交
	actionLabel := "requisition"
	if in.RequisitionType == models.TypeBorrow {
		actionLabel = "borrow"
	}
	reasonLabel := in.ReasonCode
	if in.ReasonCode == db.ReasonOther {
		reasonLabel = in.ReasonNote
	}
	username := c.GetString("username")
	go sc.Notifier.SubmissionCreated(notify.Submission{
		ActionLabel: actionLabel,
		UserName:    username,
		TotalQty:    res.TotalQuantity,
		Date:        time.Now().Format("2006-01-02"),
		ReasonLabel: reasonLabel,
		GroupID:     res.GroupID,
	})

	c.JSON(http.StatusCreated, app.H{
		"groupId":   res.GroupID,
		"lineCount": res.LineCount,
		"totalQty":  res.TotalQuantity,
	})
}
