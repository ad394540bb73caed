package handlers

import (
	"net/http"

	"asset-lending/internal/models"
	"asset-lending/internal/service/inventory"

	"github.com/gin-gonic/gin"
)

const assetsPage = "superadmin/assets/index"

type assetForm struct {
	Name   string `form:"name" json:"name"`
	Type   string `form:"type" json:"type"`
	Status string `form:"status" json:"status"`
	Stock  *int   `form:"stock" json:"stock"`
}

func (f assetForm) input() inventory.AssetInput {
	return inventory.AssetInput{Name: f.Name, Type: f.Type, Status: f.Status, Stock: f.Stock}
}

// СПИСОК АКТИВОВ

func (h *Handler) ListAssets(c *gin.Context) {
	filter := inventory.Filter{
		Type:   models.AssetType(c.Query("type")),
		Status: models.AssetStatus(c.Query("status")),
	}

	assets, err := h.assets.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, assetsPage, nil, "/assets")
		return
	}

	render(c, http.StatusOK, assetsPage, gin.H{
		"assets":       assets,
		"FilterType":   string(filter.Type),
		"FilterStatus": string(filter.Status),
	})
}

// СОЗДАНИЕ / РЕДАКТИРОВАНИЕ / УДАЛЕНИЕ

func (h *Handler) CreateAsset(c *gin.Context) {
	var form assetForm
	if err := c.ShouldBind(&form); err != nil {
		badForm(c, assetsPage)
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), form.input())
	if err != nil {
		h.fail(c, err, assetsPage, gin.H{"old": form}, "/assets")
		return
	}

	setFlash(c, flashSuccess, "Asset created with serial number: "+asset.SerialNumber)
	redirectBack(c, "/assets")
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form assetForm
	if err := c.ShouldBind(&form); err != nil {
		badForm(c, assetsPage)
		return
	}

	if _, err := h.assets.Update(c.Request.Context(), id, form.input()); err != nil {
		h.fail(c, err, assetsPage, gin.H{"old": form}, "/assets")
		return
	}

	setFlash(c, flashSuccess, "Asset updated.")
	redirectBack(c, "/assets")
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.assets.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, assetsPage, nil, "/assets")
		return
	}

	setFlash(c, flashSuccess, "Asset deleted.")
	redirectBack(c, "/assets")
}

// AvailableAssets is the employee catalogue of requestable assets.
func (h *Handler) AvailableAssets(c *gin.Context) {
	assets, err := h.assets.Available(c.Request.Context())
	if err != nil {
		h.fail(c, err, "", nil, "/employee/dashboard")
		return
	}

	render(c, http.StatusOK, "employee/borrow/available-assets", gin.H{
		"assets": assets,
	})
}
