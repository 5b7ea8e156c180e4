// internal/handlers/image.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/brewhouse-backend/internal/i18n"
	"github.com/javajoker/brewhouse-backend/internal/imageurl"
	"github.com/javajoker/brewhouse-backend/internal/middleware"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type ImageHandler struct{}

func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// GET /images/resolve?path=...&hostname=...&pathname=...&server=true
//
// Query values override the host context derived from the request.
func (h *ImageHandler) Resolve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	path := c.Query("path")
	if path == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "path"), nil)
		return
	}

	host := middleware.GetHostContext(c)
	if hostname, ok := c.GetQuery("hostname"); ok {
		host.Hostname = hostname
		host.Pathname = "/"
	}
	if pathname, ok := c.GetQuery("pathname"); ok {
		host.Pathname = pathname
	}
	if server, err := strconv.ParseBool(c.Query("server")); err == nil && server {
		host = imageurl.ServerContext()
	}

	utils.SuccessResponse(c, gin.H{
		"path":        path,
		"url":         imageurl.Resolve(path, host),
		"base_path":   imageurl.BasePath(host),
		"environment": imageurl.DetectEnvironment(host),
	})
}
