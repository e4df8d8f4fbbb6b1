package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/greatlakespos/pricebook_backend/models"
	"github.com/greatlakespos/pricebook_backend/utils"
)

type scanRequest struct {
	Barcode   string `json:"barcode" binding:"required"`
	SessionID string `json:"sessionId"`
}

type createSessionRequest struct {
	Name *string `json:"name"`
}

type addItemRequest struct {
	LiquorRecordID string `json:"liquorRecordId" binding:"required"`
	Quantity       int    `json:"quantity"`
}

type updatePriceRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// scanHandler resolves a barcode against the catalog. When a session id is
// given and the barcode matches, the scan is recorded against that session;
// unmatched barcodes record nothing and respond matched=false, which is a
// normal outcome, not an error.
func (a *app) scanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		result, err := models.ScanBarcode(a.catalog, a.sessions, req.Barcode, req.SessionID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (a *app) listSessionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": a.sessions.ListSessions()})
	}
}

func (a *app) createSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		// Blank or omitted name falls back to the dated default.
		name := strings.TrimSpace(utils.DereferencePtr(req.Name))
		if name == "" {
			name = models.DefaultSessionName()
		}
		c.JSON(http.StatusCreated, a.sessions.CreateSession(name))
	}
}

func (a *app) activeSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.sessions.ActiveSession())
	}
}

func (a *app) activateSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := a.sessions.ActivateSession(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// deleteSessionHandler removes a session and its scan events. The store keeps
// the active-session invariant: something is always active afterwards, even
// if that means auto-creating a default-named session.
func (a *app) deleteSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.sessions.DeleteSession(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true, "active": a.sessions.ActiveSession()})
	}
}

// listItemsHandler surfaces the session's scan events joined against the
// current catalog. Items whose record was replaced by a later feed load come
// back with product: null and render as Product Not Found.
func (a *app) listItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.sessions.ListScanEventDetails(c.Param("id"), a.catalog)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
	}
}

// addItemHandler is the manual add-by-search path: it always records an
// event for an existing catalog record, no barcode match required. The
// record's UPC stands in for the scanned barcode on export.
func (a *app) addItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		record, ok := a.catalog.Get(req.LiquorRecordID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		event, err := a.sessions.AddScanEvent(c.Param("id"), record.UPCCode1, record.ID, req.Quantity)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

func (a *app) clearItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.sessions.ClearScanEvents(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	}
}

func (a *app) deleteItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.sessions.DeleteScanEvent(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scanned item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// updateItemPriceHandler applies a per-session price override. Validation
// rejects non-positive prices before any state changes; the store then
// materializes a shadow record so other sessions keep the original price.
func (a *app) updateItemPriceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updatePriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		price := decimal.NewFromFloat(req.Price).Round(2)
		if !a.sessions.UpdateScanEventPrice(c.Param("id"), price, a.catalog) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scanned item or product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}
