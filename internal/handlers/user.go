package handlers

import (
	"asset-lending/internal/apperr"
	"asset-lending/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActivateUser lets a superadmin approve a pending admin or employee.
func (h *Handler) ActivateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	db := h.db.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		h.fail(c, err, "", nil, "/superadmin/dashboard")
		return
	}

	res := db.Model(&models.User{}).
		Where("id = ? AND status = ?", user.ID, models.UserPending).
		Update("status", models.UserActive)
	if res.Error != nil {
		h.fail(c, res.Error, "", nil, "/superadmin/dashboard")
		return
	}
	if res.RowsAffected == 0 {
		h.fail(c, apperr.ErrUserNotPending, "", nil, "/superadmin/dashboard")
		return
	}

	h.log.Info("user activated", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	setFlash(c, flashSuccess, "User "+user.Email+" activated.")
	redirectBack(c, "/superadmin/dashboard")
}
