// controllers/cart_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_media_stock/app"

	"github.com/gin-gonic/gin"
)

type CartController struct{ *Srv }

func NewCartController(s *Srv) *CartController { return &CartController{Srv: s} }

// POST /api/cart  加入/合并购物车
func (cc *CartController) Add(c *gin.Context) {
	var in struct {
		ItemID          string `json:"itemId" binding:"required"`
		RequisitionType int    `json:"requisitionType" binding:"required"`
		Quantity        int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	entry, err := cc.Repo.AddToCart(c.Request.Context(), userID, in.ItemID, in.RequisitionType, in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GET /api/cart?type=1|2
func (cc *CartController) List(c *gin.Context) {
	userID := c.GetString("userID")
	reqType, _ := strconv.Atoi(c.DefaultQuery("type", "0"))

	lines, err := cc.Repo.ListCart(c.Request.Context(), userID, reqType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": lines})
}

// DELETE /api/cart/:entryId
func (cc *CartController) Remove(c *gin.Context) {
	userID := c.GetString("userID")
	if err := cc.Repo.RemoveFromCart(c.Request.Context(), userID, c.Param("entryId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
