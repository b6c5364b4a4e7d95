// controllers/catalog_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_media_stock/app"
	"Gin_postgres_redis_media_stock/db"
	"Gin_postgres_redis_media_stock/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogController struct{ *Srv }

func NewCatalogController(s *Srv) *CatalogController { return &CatalogController{Srv: s} }

// 管理员建一件物品；初始库存走同一条流水入口，保证有据可查
func (cc *CatalogController) CreateItem(c *gin.Context) {
	var in struct {
		Name             string  `json:"name" binding:"required"`
		Unit             string  `json:"unit" binding:"required"`
		ItemType         int     `json:"itemType" binding:"required"`
		CategoryID       *string `json:"categoryId"`
		InitialQuantity  int     `json:"initialQuantity"`
		Image            string  `json:"image"`
		BorrowRestricted bool    `json:"borrowRestricted"`
		Description      string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.ItemType != models.TypeRequisition && in.ItemType != models.TypeBorrow {
		c.JSON(http.StatusBadRequest, app.H{"error": "itemType must be 1 or 2"})
		return
	}
	if in.InitialQuantity < 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "initialQuantity must not be negative"})
		return
	}

	ctx := c.Request.Context()
	it := &models.Item{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Unit:             in.Unit,
		ItemType:         in.ItemType,
		CategoryID:       in.CategoryID,
		Image:            in.Image,
		BorrowRestricted: in.BorrowRestricted,
		Description:      in.Description,
	}
	if err := cc.Repo.CreateItem(ctx, it); err != nil {
		fail(c, err)
		return
	}
	if in.InitialQuantity > 0 {
		adminID := c.GetString("userID")
		updated, err := cc.Repo.AdjustItemQuantity(ctx, it.ID, in.InitialQuantity, "initial stock", adminID)
		if err != nil {
			fail(c, err)
			return
		}
		it = updated
	}
	c.JSON(http.StatusCreated, it)
}

// 列表（用户和管理员共用，管理员能看 retired）
func (cc *CatalogController) ListItems(c *gin.Context) {
	q := db.ItemsQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
	}
	q.ItemType, _ = strconv.Atoi(c.DefaultQuery("type", "0"))
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	// 普通用户只看在役的
	if !c.GetBool("isAdmin") {
		q.Status = "active"
	}

	res, err := cc.Repo.ListItems(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *CatalogController) GetItem(c *gin.Context) {
	it, err := cc.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// 基本信息编辑，库存不走这里
func (cc *CatalogController) UpdateItem(c *gin.Context) {
	var in struct {
		Name             *string `json:"name"`
		Unit             *string `json:"unit"`
		CategoryID       *string `json:"categoryId"`
		Image            *string `json:"image"`
		BorrowRestricted *bool   `json:"borrowRestricted"`
		Description      *string `json:"description"`
		Status           *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Status != nil && *in.Status != "active" && *in.Status != "retired" {
		c.JSON(http.StatusBadRequest, app.H{"error": "status must be active or retired"})
		return
	}

	it, err := cc.Repo.UpdateItem(c.Request.Context(), c.Param("id"), db.UpdateItemInput{
		Name:             in.Name,
		Unit:             in.Unit,
		CategoryID:       in.CategoryID,
		Image:            in.Image,
		BorrowRestricted: in.BorrowRestricted,
		Description:      in.Description,
		Status:           in.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /api/admin/items/:id/adjust  手工调库存（盘点、报损、进货）
func (cc *CatalogController) AdjustQuantity(c *gin.Context) {
	var in struct {
		Delta  int    `json:"delta" binding:"required"`
		Remark string `json:"remark" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	adminID := c.GetString("userID")
	it, err := cc.Repo.AdjustItemQuantity(c.Request.Context(), c.Param("id"), in.Delta, in.Remark, adminID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (cc *CatalogController) DeleteItem(c *gin.Context) {
	if err := cc.Repo.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Categories

func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	cat, err := cc.Repo.CreateCategory(c.Request.Context(), in.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (cc *CatalogController) ListCategories(c *gin.Context) {
	cats, err := cc.Repo.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cats})
}
