package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/content"
)

func (h *handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", h.page(c, "Home", "home", gin.H{
		"Features":  h.content.Features,
		"Audiences": h.content.Audiences,
	}))
}

func (h *handler) about(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", h.page(c, "About", "about", h.content.About))
}

func (h *handler) faq(c *gin.Context) {
	h.render(c, http.StatusOK, "faq.html", h.page(c, "FAQ", "faq", h.content.FAQ))
}

func (h *handler) blog(c *gin.Context) {
	h.render(c, http.StatusOK, "blog.html", h.page(c, "Blog", "blog", h.content.Blog))
}

type authView struct {
	Mode string
	Role content.Role
}

func selectedRole(raw string) content.Role {
	if content.Role(raw) == content.RoleOrganization {
		return content.RoleOrganization
	}
	return content.RolePatient
}

func (h *handler) showLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "auth.html", h.page(c, "Sign In", "login", authView{
		Mode: "login",
		Role: selectedRole(c.Query("role")),
	}))
}

func (h *handler) showRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "auth.html", h.page(c, "Create Account", "register", authView{
		Mode: "register",
		Role: selectedRole(c.Query("role")),
	}))
}

// login signs the browser in as the first mock user of the chosen role. No
// credentials are checked.
func (h *handler) login(c *gin.Context) {
	role := selectedRole(c.PostForm("role"))
	user, ok := h.content.FirstUser(role)
	if !ok {
		c.String(http.StatusInternalServerError, "No demo account is configured for this role.")
		return
	}

	session := sessions.Default(c)
	session.Set(userIDKey, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.log.Info("Demo sign in", zap.String("user_id", user.ID), zap.String("role", string(role)))
	if role == content.RoleOrganization {
		c.Redirect(http.StatusSeeOther, "/organization-dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *handler) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(userIDKey)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handler) toggleTheme(c *gin.Context) {
	session := sessions.Default(c)
	next := "dark"
	if theme, _ := session.Get(themeKey).(string); theme == "dark" {
		next = "light"
	}
	session.Set(themeKey, next)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, backTo(c))
}

// backTo returns the local path the request came from, or "/".
func backTo(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || (ref.Host != "" && ref.Host != c.Request.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// currentUser returns the signed in user, falling back to the first mock user
// with role.
func (h *handler) currentUser(c *gin.Context, role content.Role) content.User {
	session := sessions.Default(c)
	if id, _ := session.Get(userIDKey).(string); id != "" {
		if u, ok := h.content.User(id); ok && u.Role == role {
			return u
		}
	}
	u, _ := h.content.FirstUser(role)
	return u
}
