package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatlakespos/pricebook_backend/config"
	"github.com/greatlakespos/pricebook_backend/exports"
	"github.com/greatlakespos/pricebook_backend/models"
)

func (a *app) sessionItems(c *gin.Context) ([]*models.ScanEventDetail, bool) {
	items, err := a.sessions.ListScanEventDetails(c.Param("id"), a.catalog)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return items, true
}

func (a *app) exportSessionXlsxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, ok := a.sessionItems(c)
		if !ok {
			return
		}
		f, err := exports.BuildSessionWorkbook(items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=scanned-items.xlsx")
		if err := f.Write(c.Writer); err != nil {
			config.LogError(a.logger, "export_handlers", "exportSessionXlsxHandler", "write", nil, err)
		}
	}
}

// exportSessionPOSCSVHandler emits the label tool's 28-column CSV. custom=1
// substitutes uploaded custom names for brand names where a UPC matches.
func (a *app) exportSessionPOSCSVHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, ok := a.sessionItems(c)
		if !ok {
			return
		}
		var registry *models.CustomNameRegistry
		if c.Query("custom") == "1" {
			registry = a.names
		}
		csvText, err := exports.BuildPOSLabelCSV(items, registry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=pos-labels.csv")
		c.Data(http.StatusOK, "text/csv", []byte(csvText))
	}
}

func (a *app) exportSessionLabelsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, ok := a.sessionItems(c)
		if !ok {
			return
		}
		html, err := exports.BuildLabelsHTML(items, c.Query("print") == "1")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}
