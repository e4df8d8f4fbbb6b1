package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greatlakespos/pricebook_backend/config"
	"github.com/greatlakespos/pricebook_backend/exports"
	"github.com/greatlakespos/pricebook_backend/models"
	"github.com/greatlakespos/pricebook_backend/utils"
)

const searchResultLimit = 50

type fetchPriceBookRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
}

// uploadPriceBookHandler ingests a price book file from a multipart upload.
// The file is parsed completely before the catalog is touched; a file that
// parses to zero records leaves the previous catalog in place.
func (a *app) uploadPriceBookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing price book file"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}

		result := models.LoadPriceBook(string(content))
		if result.Summary.TotalRecords == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price book file contained no records"})
			return
		}

		a.catalog.ReplaceAll(result.Records)
		a.logger.WithField("records", result.Summary.TotalRecords).Info("price book replaced from upload")
		c.JSON(http.StatusOK, result.Summary)
	}
}

// fetchPriceBookHandler ingests the price book from an upstream feed URL,
// bounded by the configured timeout. Fetch failures surface with upstream
// detail and never partially apply.
func (a *app) fetchPriceBookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req fetchPriceBookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		url := req.URL
		if url == "" {
			url = config.PriceBookFeedURL()
		}
		if url == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no feed url given and PRICEBOOK_FEED_URL is not set"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.PriceBookFetchTimeout())
		defer cancel()

		result, err := models.FetchPriceBook(ctx, url)
		if err != nil {
			var fetchErr *models.FetchError
			if errors.As(err, &fetchErr) {
				config.LogError(a.logger, "pricebook_handlers", "fetchPriceBookHandler", "fetch", url, err)
				c.JSON(http.StatusBadGateway, gin.H{"error": fetchErr.Error(), "status": fetchErr.StatusCode})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if result.Summary.TotalRecords == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "feed contained no records"})
			return
		}

		a.catalog.ReplaceAll(result.Records)
		a.logger.WithField("records", result.Summary.TotalRecords).Info("price book replaced from feed")
		c.JSON(http.StatusOK, result.Summary)
	}
}

func (a *app) priceBookStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.catalog.Summary())
	}
}

func (a *app) searchCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
			return
		}
		limit := searchResultLimit
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < searchResultLimit {
				limit = parsed
			}
		}
		results := a.catalog.Search(query, limit)
		c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
	}
}

func (a *app) exportCatalogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := exports.BuildCatalogWorkbook(a.catalog.All())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=pricebook.xlsx")
		if err := f.Write(c.Writer); err != nil {
			config.LogError(a.logger, "pricebook_handlers", "exportCatalogHandler", "write", nil, err)
		}
	}
}
