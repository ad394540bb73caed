package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"asset-lending/internal/apperr"
	"asset-lending/internal/middleware"
	"asset-lending/internal/validation"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// render отдаёт клиенту страницу: имя компонента, его props, текущего
// пользователя и одноразовые flash-сообщения.
func render(c *gin.Context, status int, component string, props gin.H) {
	if props == nil {
		props = gin.H{}
	}

	if u, ok := middleware.CurrentUser(c); ok {
		props["authUser"] = u
	}

	sess := sessions.Default(c)
	flash := gin.H{
		flashSuccess: lastFlash(sess, flashSuccess),
		flashError:   lastFlash(sess, flashError),
	}
	_ = sess.Save()

	c.JSON(status, gin.H{
		"component": component,
		"props":     props,
		"flash":     flash,
		"url":       c.Request.URL.RequestURI(),
	})
}

func lastFlash(sess sessions.Session, kind string) string {
	msgs := sess.Flashes(kind)
	for i := len(msgs) - 1; i >= 0; i-- {
		if s, ok := msgs[i].(string); ok {
			return s
		}
	}
	return ""
}

func setFlash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	_ = sess.Save()
}

// redirect uses 303 after PUT/DELETE so the browser follows with GET.
func redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if m := c.Request.Method; m == http.MethodPut || m == http.MethodPatch || m == http.MethodDelete {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}

// redirectBack returns to the referring page when it is on this host.
func redirectBack(c *gin.Context, fallback string) {
	if ref := c.Request.Referer(); ref != "" {
		if u, err := c.Request.URL.Parse(ref); err == nil && (u.Host == "" || u.Host == c.Request.Host) {
			redirect(c, u.RequestURI())
			return
		}
	}
	redirect(c, fallback)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// fail maps a service error onto the response:
// validation -> 422 page with field errors, domain rule -> flash + redirect
// back, missing record -> 404, anything else -> 500.
func (h *Handler) fail(c *gin.Context, err error, component string, props gin.H, fallback string) {
	if ve, ok := validation.As(err); ok {
		if props == nil {
			props = gin.H{}
		}
		props["errors"] = ve.Fields
		render(c, http.StatusUnprocessableEntity, component, props)
		return
	}

	if de, ok := apperr.As(err); ok {
		setFlash(c, flashError, de.Message)
		redirectBack(c, fallback)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.String(http.StatusNotFound, "not found")
		return
	}

	_ = c.Error(err)
	h.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, "internal error")
}

func badForm(c *gin.Context, component string) {
	render(c, http.StatusUnprocessableEntity, component, gin.H{
		"errors": map[string]string{"form": "malformed request"},
	})
}
