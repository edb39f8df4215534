package service

import (
	"fmt"
	"time"

	"github.com/ayyaapp/ayya/export"
	"github.com/ayyaapp/ayya/metrics"
	"github.com/ayyaapp/ayya/share"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/yaoapp/kun/log"
)

// API the admin route handlers
type API struct {
	deps *Dependencies
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) health(c *gin.Context) {
	c.JSON(200, gin.H{"ok": true, "version": share.VERSION})
}

func (api *API) login(c *gin.Context) {
	if api.deps.Admin == nil {
		c.JSON(404, gin.H{"error": "Not Found"})
		return
	}

	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Email and password are required"})
		return
	}

	if !api.deps.Admin.Validate(input.Email, input.Password) {
		log.Warn("[Admin] failed login from %s", c.ClientIP())
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	api.deps.Admin.SetCookie(c.Writer)
	log.Info("[Admin] login from %s", c.ClientIP())
	c.JSON(200, gin.H{"ok": true})
}

func (api *API) logout(c *gin.Context) {
	if api.deps.Admin != nil {
		api.deps.Admin.ClearCookie(c.Writer)
	}
	c.JSON(200, gin.H{"ok": true})
}

func (api *API) me(c *gin.Context) {
	c.JSON(200, gin.H{"ok": true})
}

// export GET /api/admin/export?format=json|excel|xlsx&start=&end=
func (api *API) export(c *gin.Context) {

	start := time.Now()
	format := export.ParseFormat(c.Query("format"))
	rng := export.ParseRange(c.Query("start"), c.Query("end"), api.deps.Location)

	bundle, omitted := api.deps.Aggregator.Aggregate(c.Request.Context(), rng)
	if merr, ok := omitted.(*multierror.Error); ok {
		log.Info("[Export] %d of %d collections omitted", merr.Len(), len(api.deps.Aggregator.Collections))
	}

	filename := export.Filename(format, api.deps.now())
	var data []byte
	var err error
	switch format {
	case export.Excel:
		data, err = api.workbook(c, bundle)
		c.Header("Cache-Control", "no-store")
	default:
		data, err = bundle.MarshalJSON()
	}

	if err != nil {
		log.Error("[Export] %s: %s", format, err.Error())
		metrics.Exports.WithLabelValues(string(format), "error").Inc()
		c.JSON(500, gin.H{"error": "Export failed"})
		return
	}

	metrics.Exports.WithLabelValues(string(format), "ok").Inc()
	metrics.ExportDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	log.Info("[Export] %s %d collections, %d rows, %d bytes in %s", filename, bundle.Len(), bundle.Count(), len(data), time.Since(start).String())

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, format.ContentType(), data)
}

func (api *API) workbook(c *gin.Context, bundle *export.Bundle) ([]byte, error) {
	if api.deps.Builder == nil {
		return nil, fmt.Errorf("workbook builder is not set")
	}

	xls, err := api.deps.Builder.Build(c.Request.Context(), bundle)
	if err != nil {
		return nil, err
	}
	defer xls.Close()
	return xls.Bytes()
}
