package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greatlakespos/pricebook_backend/config"
	"github.com/greatlakespos/pricebook_backend/models"
)

// uploadCustomNamesHandler ingests a two-column (UPC, custom name) mapping
// file. Rows merge into the registry by exact UPC; the registry only affects
// label exports, never the catalog itself.
func (a *app) uploadCustomNamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing mapping file"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer file.Close()

		pairs, err := models.ParseCustomNameFile(fileHeader.Filename, file)
		if err != nil {
			config.LogError(a.logger, "customname_handlers", "uploadCustomNamesHandler", "parse", fileHeader.Filename, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(pairs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mapping file contained no usable rows"})
			return
		}

		count := a.names.Upload(pairs)
		c.JSON(http.StatusOK, gin.H{"uploaded": count})
	}
}

func (a *app) listCustomNamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		mappings := a.names.All()
		c.JSON(http.StatusOK, gin.H{"mappings": mappings, "count": len(mappings)})
	}
}

func (a *app) clearCustomNamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cleared": a.names.Clear()})
	}
}
