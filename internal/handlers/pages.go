package handlers

import (
	"net/http"

	"asset-lending/internal/middleware"
	"asset-lending/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) IndexPage(c *gin.Context) {
	_, ok := middleware.CurrentUser(c)
	render(c, http.StatusOK, "welcome", gin.H{
		"isAuthed": ok,
	})
}

// Dashboard sends each role to its own dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	switch user.Role {
	case models.RoleSuperadmin:
		c.Redirect(http.StatusFound, "/superadmin/dashboard")
	case models.RoleAdmin:
		c.Redirect(http.StatusFound, "/admin/dashboard")
	case models.RoleEmployee:
		c.Redirect(http.StatusFound, "/employee/dashboard")
	default:
		c.Redirect(http.StatusFound, "/login")
	}
}

// ДАШБОРДЫ

func (h *Handler) SuperadminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.reports.TotalAssets(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	byStatus, err := h.reports.AssetsByStatus(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	users, err := h.reports.UserCounts(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	assets, err := h.reports.Assets(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	pending, err := h.reports.PendingUsers(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}

	usersByStatus := map[models.UserStatus]int64{}
	for _, statuses := range users {
		for st, n := range statuses {
			usersByStatus[st] += n
		}
	}

	render(c, http.StatusOK, "superadmin/dashboard", gin.H{
		"totalAssets":    total,
		"totalAdmins":    users.Role(models.RoleAdmin),
		"totalEmployees": users.Role(models.RoleEmployee),
		"assets":         assets,
		"pendingUsers":   pending,
		"assetsByStatus": byStatus,
		"usersByRole": gin.H{
			string(models.RoleSuperadmin): users.Role(models.RoleSuperadmin),
			string(models.RoleAdmin):      users.Role(models.RoleAdmin),
			string(models.RoleEmployee):   users.Role(models.RoleEmployee),
		},
		"usersByStatus": usersByStatus,
	})
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.reports.UserCounts(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	byStatus, err := h.reports.AssetsByStatus(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	available, err := h.assets.Available(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	recent, err := h.reports.RecentBorrows(ctx, h.cfg.RecentBorrowsLimit)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	pending, err := h.borrows.List(ctx, models.BorrowPending)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}

	render(c, http.StatusOK, "admin/dashboard", gin.H{
		"activeEmployees":      users.Get(models.RoleEmployee, models.UserActive),
		"pendingEmployees":     users.Get(models.RoleEmployee, models.UserPending),
		"availableAssetsCount": byStatus[models.AssetAvailable],
		"borrowedAssetsCount":  byStatus[models.AssetBorrowed],
		"assetsByStatus":       byStatus,
		"availableAssets":      available,
		"recentBorrows":        recent,
		"pendingBorrows":       pending,
	})
}

func (h *Handler) EmployeeDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	counts, err := h.reports.BorrowsByStatus(ctx, user.ID)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	available, err := h.assets.Available(ctx)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}
	mine, err := h.borrows.Mine(ctx, user.ID)
	if err != nil {
		h.fail(c, err, "", nil, "/")
		return
	}

	render(c, http.StatusOK, "employee/dashboard", gin.H{
		"totalApprovedBorrows": counts[models.BorrowApproved],
		"totalPendingBorrows":  counts[models.BorrowPending],
		"totalRejectedBorrows": counts[models.BorrowRejected],
		"availableAssets":      available,
		"myBorrows":            mine,
	})
}
