package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greatlakespos/pricebook_backend/models"
)

func newTestServer() (*app, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	a := newApp(logger)
	r := gin.New()
	a.routes(r)
	return a, r
}

func doJSON(t *testing.T, r *gin.Engine, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScanFlow(t *testing.T) {
	a, r := newTestServer()

	record := &models.LiquorRecord{
		ID:         "rec-1",
		LiquorCode: "08234",
		BrandName:  "Jack Daniel's Old No. 7",
		BottleSize: "750ML",
		ShelfPrice: models.ParsePrice("$24.99"),
		UPCCode1:   "0123456789012",
	}
	a.catalog.ReplaceAll([]*models.LiquorRecord{record})
	session := a.sessions.CreateSession("walk")

	// Matched scan records an event.
	w := doJSON(t, r, http.MethodPost, "/scan", gin.H{"barcode": "123456789012", "sessionId": session.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("scan status %d: %s", w.Code, w.Body.String())
	}
	var scanResp struct {
		Matched bool                 `json:"matched"`
		Product *models.LiquorRecord `json:"product"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &scanResp); err != nil {
		t.Fatal(err)
	}
	if !scanResp.Matched || scanResp.Product == nil || scanResp.Product.ID != "rec-1" {
		t.Fatalf("unexpected scan response: %s", w.Body.String())
	}

	// Unmatched scan is a 200 with matched=false and records nothing.
	w = doJSON(t, r, http.MethodPost, "/scan", gin.H{"barcode": "404404", "sessionId": session.ID})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"matched":false`) {
		t.Fatalf("unmatched scan: %d %s", w.Code, w.Body.String())
	}

	// Items join against the catalog.
	w = doJSON(t, r, http.MethodGet, "/sessions/"+session.ID+"/items", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("items status %d", w.Code)
	}
	var itemsResp struct {
		Count int `json:"count"`
		Items []struct {
			ID             string               `json:"id"`
			ScannedBarcode string               `json:"scannedBarcode"`
			Product        *models.LiquorRecord `json:"product"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &itemsResp); err != nil {
		t.Fatal(err)
	}
	if itemsResp.Count != 1 || itemsResp.Items[0].ScannedBarcode != "123456789012" {
		t.Fatalf("unexpected items: %s", w.Body.String())
	}
	if itemsResp.Items[0].Product == nil || itemsResp.Items[0].Product.ShelfPrice.Amount.String() != "24.99" {
		t.Fatalf("expected joined product: %s", w.Body.String())
	}

	// Price override goes to a shadow record; the catalog original survives.
	itemID := itemsResp.Items[0].ID
	w = doJSON(t, r, http.MethodPut, "/items/"+itemID+"/price", gin.H{"price": 19.99})
	if w.Code != http.StatusOK {
		t.Fatalf("price update status %d: %s", w.Code, w.Body.String())
	}
	if got, _ := a.catalog.Get("rec-1"); got.ShelfPrice.Amount.String() != "24.99" {
		t.Fatalf("catalog original mutated: %+v", got.ShelfPrice)
	}
	w = doJSON(t, r, http.MethodGet, "/sessions/"+session.ID+"/items", nil)
	if !strings.Contains(w.Body.String(), "19.99") || !strings.Contains(w.Body.String(), "originalShelfPrice") {
		t.Fatalf("expected overridden price with original retained: %s", w.Body.String())
	}

	// Rejected price never reaches the store.
	w = doJSON(t, r, http.MethodPut, "/items/"+itemID+"/price", gin.H{"price": -5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative price must be rejected, got %d", w.Code)
	}

	// POS CSV export emits the scanned barcode, quoted.
	w = doJSON(t, r, http.MethodGet, "/sessions/"+session.ID+"/export/pos-csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pos-csv status %d: %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), `"123456789012",`) {
		t.Fatalf("expected quoted scanned barcode first: %s", w.Body.String())
	}
}

func TestScanUnknownSessionReturns404(t *testing.T) {
	a, r := newTestServer()
	a.catalog.ReplaceAll([]*models.LiquorRecord{{ID: "rec-1", UPCCode1: "111"}})

	w := doJSON(t, r, http.MethodPost, "/scan", gin.H{"barcode": "111", "sessionId": "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteSessionKeepsActiveInvariant(t *testing.T) {
	a, r := newTestServer()
	session := a.sessions.CreateSession("only")

	w := doJSON(t, r, http.MethodDelete, "/sessions/"+session.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status %d", w.Code)
	}
	var resp struct {
		Deleted bool                `json:"deleted"`
		Active  *models.SessionInfo `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Active == nil || resp.Active.ID == session.ID {
		t.Fatalf("expected a fresh active session: %s", w.Body.String())
	}
	if !strings.HasPrefix(resp.Active.Name, "Scan Session ") {
		t.Fatalf("expected default session name, got %q", resp.Active.Name)
	}
}

func TestExportEmptySessionRejected(t *testing.T) {
	a, r := newTestServer()
	session := a.sessions.CreateSession("empty")

	for _, path := range []string{
		fmt.Sprintf("/sessions/%s/export/xlsx", session.ID),
		fmt.Sprintf("/sessions/%s/export/pos-csv", session.ID),
		fmt.Sprintf("/sessions/%s/export/labels", session.ID),
	} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s expected 400, got %d", path, w.Code)
		}
	}
}
