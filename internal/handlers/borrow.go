package handlers

import (
	"net/http"

	"asset-lending/internal/middleware"
	"asset-lending/internal/models"
	"asset-lending/internal/service/lending"

	"github.com/gin-gonic/gin"
)

const myBorrowsPage = "employee/borrow/my-borrows"

type borrowForm struct {
	AssetID  uint   `form:"asset_id" json:"asset_id"`
	Quantity int    `form:"quantity" json:"quantity"`
	Notes    string `form:"notes" json:"notes"`
}

type rejectForm struct {
	Notes string `form:"notes" json:"notes"`
}

// ЗАЯВКИ СОТРУДНИКА

func (h *Handler) MyBorrows(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	borrows, err := h.borrows.Mine(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err, myBorrowsPage, nil, "/employee/dashboard")
		return
	}

	render(c, http.StatusOK, myBorrowsPage, gin.H{
		"borrows": borrows,
	})
}

func (h *Handler) RequestBorrow(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var form borrowForm
	if err := c.ShouldBind(&form); err != nil {
		badForm(c, "employee/borrow/available-assets")
		return
	}

	_, err := h.borrows.Request(c.Request.Context(), user.ID, lending.RequestInput{
		AssetID:  form.AssetID,
		Quantity: form.Quantity,
		Notes:    form.Notes,
	})
	if err != nil {
		h.fail(c, err, "employee/borrow/available-assets", gin.H{"old": form}, "/employee/assets")
		return
	}

	setFlash(c, flashSuccess, "Borrow request submitted, waiting for admin approval.")
	c.Redirect(http.StatusFound, "/employee/borrows")
}

// ЗАЯВКИ: ОБРАБОТКА АДМИНОМ

func (h *Handler) ListBorrows(c *gin.Context) {
	status := models.BorrowStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.String(http.StatusBadRequest, "invalid status filter")
		return
	}

	borrows, err := h.borrows.List(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err, "admin/borrows/index", nil, "/admin/dashboard")
		return
	}

	render(c, http.StatusOK, "admin/borrows/index", gin.H{
		"borrows":      borrows,
		"FilterStatus": string(status),
	})
}

func (h *Handler) ApproveBorrow(c *gin.Context) {
	h.transition(c, "Borrow request approved.", func(id, actor uint) error {
		_, err := h.borrows.Approve(c.Request.Context(), id, actor)
		return err
	})
}

func (h *Handler) RejectBorrow(c *gin.Context) {
	var form rejectForm
	if err := c.ShouldBind(&form); err != nil {
		badForm(c, "admin/borrows/index")
		return
	}

	h.transition(c, "Borrow request rejected.", func(id, actor uint) error {
		_, err := h.borrows.Reject(c.Request.Context(), id, actor, form.Notes)
		return err
	})
}

func (h *Handler) ReturnBorrow(c *gin.Context) {
	h.transition(c, "Asset returned.", func(id, actor uint) error {
		_, err := h.borrows.Return(c.Request.Context(), id, actor)
		return err
	})
}

func (h *Handler) transition(c *gin.Context, success string, do func(id, actor uint) error) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	if err := do(id, user.ID); err != nil {
		h.fail(c, err, "admin/borrows/index", nil, "/admin/dashboard")
		return
	}

	setFlash(c, flashSuccess, success)
	redirectBack(c, "/admin/dashboard")
}

// BorrowHistory shows the audit trail; employees only see their own borrows.
func (h *Handler) BorrowHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	borrow, err := h.borrows.Get(ctx, id)
	if err != nil {
		h.fail(c, err, "", nil, "/dashboard")
		return
	}
	if user.Role == models.RoleEmployee && borrow.UserID != user.ID {
		c.String(http.StatusNotFound, "not found")
		return
	}

	history, err := h.borrows.History(ctx, id)
	if err != nil {
		h.fail(c, err, "", nil, "/dashboard")
		return
	}

	render(c, http.StatusOK, "borrows/history", gin.H{
		"borrow":  borrow,
		"history": history,
	})
}
