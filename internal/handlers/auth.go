package handlers

import (
	"net/http"
	"strings"

	"asset-lending/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "auth/login", nil)
}

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		badForm(c, "auth/login")
		return
	}

	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	if form.Email == "" || form.Password == "" {
		render(c, http.StatusUnprocessableEntity, "auth/login", gin.H{
			"errors": map[string]string{"email": "email and password are required"},
		})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).Where("LOWER(email) = ?", form.Email).First(&user).Error; err != nil {
		h.invalidLogin(c)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		h.invalidLogin(c)
		return
	}

	if user.Status != models.UserActive {
		render(c, http.StatusForbidden, "auth/login", gin.H{
			"errors": map[string]string{"email": "account is awaiting activation"},
		})
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	_ = sess.Save()

	h.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) invalidLogin(c *gin.Context) {
	render(c, http.StatusUnprocessableEntity, "auth/login", gin.H{
		"errors": map[string]string{"email": "invalid email or password"},
	})
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}
