package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rcondori/cafe-inventory/internal/domain/batches"
	"github.com/rcondori/cafe-inventory/internal/domain/catalog"
	"github.com/rcondori/cafe-inventory/internal/domain/materials"
	"github.com/rcondori/cafe-inventory/internal/domain/products"
	"github.com/rcondori/cafe-inventory/internal/domain/reports"
	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

type Handlers struct {
	Catalog   *catalog.Repo
	Materials *materials.Repo
	Stock     *stock.Service
	StockRepo *stock.Repo
	Batches   *batches.Service
	BatchRepo *batches.Repo
	Products  *products.Repo
	Sales     *products.Service
	Reports   *reports.Repo
	Notifier  stock.Notifier
	Log       *slog.Logger
}

func (h *Handlers) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/categories", h.listCategories)
		api.POST("/categories", h.createCategory)
		api.PATCH("/categories/:id", h.updateCategory)

		api.GET("/materials", h.listMaterials)
		api.GET("/materials/barcode/:code", h.getMaterialByBarcode)
		api.POST("/materials", h.upsertMaterial)
		api.PATCH("/materials/:id/alerts", h.updateAlerts)
		api.POST("/materials/:id/adjust", h.adjustStock)

		api.POST("/batches", h.intakeBatch)
		api.GET("/materials/:id/batches", h.listBatches)

		api.GET("/products", h.listProducts)
		api.POST("/products", h.createProduct)
		api.POST("/products/:id/simulate-sale", h.simulateSale)

		api.GET("/movements", h.listMovements)
		api.GET("/reports/consumption", h.consumptionReport)
	}

	r.POST("/hooks/low-stock", h.lowStockHook)
}

func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, materials.ErrNotFound),
		errors.Is(err, stock.ErrNotFound),
		errors.Is(err, products.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, stock.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Stock insuficiente"})
	default:
		h.Log.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

/* Categories */

func (h *Handlers) listCategories(c *gin.Context) {
	cats, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(cats))
	for _, cat := range cats {
		out = append(out, gin.H{
			"id":            cat.ID,
			"name":          cat.Name,
			"is_perishable": cat.IsPerishable,
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

func (h *Handlers) createCategory(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		IsPerishable bool   `json:"is_perishable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.Catalog.CreateCategory(c.Request.Context(), req.Name, req.IsPerishable)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": cat.ID, "name": cat.Name, "is_perishable": cat.IsPerishable})
}

func (h *Handlers) updateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	var req struct {
		Name         *string `json:"name"`
		IsPerishable *bool   `json:"is_perishable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cur, err := h.Catalog.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cur == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	name := cur.Name
	if req.Name != nil {
		name = *req.Name
	}
	perishable := cur.IsPerishable
	if req.IsPerishable != nil {
		perishable = *req.IsPerishable
	}

	cat, err := h.Catalog.UpdateCategory(c.Request.Context(), id, name, perishable)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": cat.ID, "name": cat.Name, "is_perishable": cat.IsPerishable})
}

/* Materials */

func materialJSON(m *materials.Material) gin.H {
	return gin.H{
		"id":                        m.ID,
		"name":                      m.Name,
		"barcode":                   m.Barcode,
		"category_id":               m.CategoryID,
		"category_name":             m.CategoryName,
		"is_perishable":             m.IsPerishable,
		"image_url":                 m.ImageURL,
		"purchase_unit":             m.PurchaseUnit,
		"usage_unit":                m.UsageUnit,
		"conversion_factor":         m.ConversionFactor,
		"is_taxable":                m.IsTaxable,
		"total_cost":                m.TotalCost,
		"net_cost":                  m.NetCost,
		"tax_amount":                m.TaxAmount,
		"current_stock_usage_units": m.CurrentStock,
		"min_stock_alert":           m.MinStockAlert,
		"order_quantity":            m.OrderQuantity,
		"status":                    m.Status(),
	}
}

func (h *Handlers) listMaterials(c *gin.Context) {
	var f materials.ListFilter
	if v := c.Query("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		f.CategoryID = &id
	}
	f.SuppliesOnly = c.Query("supplies") == "1"

	mats, err := h.Materials.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(mats))
	for i := range mats {
		out = append(out, materialJSON(&mats[i]))
	}
	c.JSON(http.StatusOK, gin.H{"materials": out})
}

func (h *Handlers) getMaterialByBarcode(c *gin.Context) {
	m, err := h.Materials.GetByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, materialJSON(m))
}

func (h *Handlers) upsertMaterial(c *gin.Context) {
	var req struct {
		Name             string     `json:"name" binding:"required"`
		Barcode          *string    `json:"barcode"`
		CategoryID       *uuid.UUID `json:"category_id"`
		ImageURL         *string    `json:"image_url"`
		PurchaseUnit     string     `json:"purchase_unit"`
		UsageUnit        string     `json:"usage_unit"`
		ConversionFactor float64    `json:"conversion_factor"`
		IsTaxable        bool       `json:"is_taxable"`
		TotalCost        float64    `json:"total_cost"`
		MinStockAlert    float64    `json:"min_stock_alert"`
		OrderQuantity    float64    `json:"order_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := materials.UpsertInput{
		Name:             req.Name,
		Barcode:          req.Barcode,
		CategoryID:       req.CategoryID,
		ImageURL:         req.ImageURL,
		PurchaseUnit:     req.PurchaseUnit,
		UsageUnit:        req.UsageUnit,
		ConversionFactor: req.ConversionFactor,
		IsTaxable:        req.IsTaxable,
		TotalCost:        req.TotalCost,
		MinStockAlert:    req.MinStockAlert,
		OrderQuantity:    req.OrderQuantity,
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.Materials.Upsert(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, materialJSON(m))
}

func (h *Handlers) updateAlerts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	var req struct {
		MinStockAlert float64 `json:"min_stock_alert"`
		OrderQuantity float64 `json:"order_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.Materials.UpdateAlerts(c.Request.Context(), id, req.MinStockAlert, req.OrderQuantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, materialJSON(m))
}

func (h *Handlers) adjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	var req struct {
		Delta       float64 `json:"delta" binding:"required"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	desc := req.Description
	if desc == "" {
		if m, merr := h.Materials.GetByID(c.Request.Context(), id); merr == nil {
			desc = "Gasto manual de suministro: " + m.Name
		}
	}

	a, err := h.Stock.Adjust(c.Request.Context(), id, req.Delta, desc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"material_id":   a.MaterialID,
		"new_stock":     a.NewQuantity,
		"usage_unit":    a.UsageUnit,
		"low_stock":     a.LowStock(),
		"movement_id":   a.MovementID,
		"movement_type": stock.MoveWaste,
	})
}

/* Batches */

func (h *Handlers) intakeBatch(c *gin.Context) {
	var req struct {
		MaterialID        *uuid.UUID `json:"material_id"`
		Barcode           string     `json:"barcode"`
		QuantityPurchased float64    `json:"quantity_purchased" binding:"required"`
		TotalCost         float64    `json:"total_cost"`
		ExpirationDate    *string    `json:"expiration_date"` // YYYY-MM-DD
		ExpiresInValue    int        `json:"expires_in_value"`
		ExpiresInUnit     string     `json:"expires_in_unit"` // dias | meses | años
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := batches.IntakeInput{
		Barcode:           req.Barcode,
		QuantityPurchased: req.QuantityPurchased,
		TotalCost:         req.TotalCost,
	}
	if req.MaterialID != nil {
		in.MaterialID = *req.MaterialID
	}
	if req.ExpirationDate != nil {
		d, err := time.Parse("2006-01-02", *req.ExpirationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiration date"})
			return
		}
		in.ExpirationDate = &d
	} else if req.ExpiresInValue > 0 {
		in.ExpiresIn = &batches.ExpiresIn{Value: req.ExpiresInValue, Unit: req.ExpiresInUnit}
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Batches.Intake(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"batch_id":        res.Batch.ID,
		"material_id":     res.Applied.MaterialID,
		"stock_added":     res.Delta,
		"new_stock":       res.Applied.NewQuantity,
		"usage_unit":      res.Applied.UsageUnit,
		"net_cost":        res.Batch.NetCost,
		"tax_amount":      res.Batch.TaxAmount,
		"expiration_date": res.Batch.ExpirationDate,
	})
}

func (h *Handlers) listBatches(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	bs, err := h.BatchRepo.ListByMaterial(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": bs})
}

/* Sale products */

func (h *Handlers) listProducts(c *gin.Context) {
	ps, err := h.Products.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": ps})
}

func (h *Handlers) createProduct(c *gin.Context) {
	var req struct {
		Name      string  `json:"name" binding:"required"`
		BasePrice float64 `json:"base_price"`
		Lines     []struct {
			MaterialID     uuid.UUID `json:"material_id"`
			QuantityNeeded float64   `json:"quantity_needed"`
		} `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := products.CreateInput{Name: req.Name, BasePrice: req.BasePrice}
	for _, ln := range req.Lines {
		in.Lines = append(in.Lines, products.LineInput{
			MaterialID:     ln.MaterialID,
			QuantityNeeded: ln.QuantityNeeded,
		})
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.Products.CreateWithRecipe(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "name": p.Name, "base_price": p.BasePrice})
}

func (h *Handlers) simulateSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	res, err := h.Sales.SimulateSale(c.Request.Context(), id)
	if err != nil {
		var partial *products.PartialSaleError
		if errors.As(err, &partial) {
			// Earlier lines stay applied; report how far the sale got.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":         partial.Error(),
				"lines_applied": partial.LinesApplied,
				"lines_total":   partial.LinesTotal,
				"failed_line":   partial.FailedLine.MaterialName,
			})
			return
		}
		if errors.Is(err, products.ErrEmptyRecipe) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Este producto no tiene ingredientes en su receta"})
			return
		}
		h.fail(c, err)
		return
	}

	lines := make([]gin.H, 0, len(res.Applied))
	for _, a := range res.Applied {
		lines = append(lines, gin.H{
			"material_id": a.MaterialID,
			"material":    a.MaterialName,
			"new_stock":   a.NewQuantity,
			"usage_unit":  a.UsageUnit,
			"low_stock":   a.LowStock(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"product": res.Product.Name, "lines": lines})
}

/* Movements & reports */

func (h *Handlers) listMovements(c *gin.Context) {
	var f stock.MovementFilter
	if v := c.Query("material"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
			return
		}
		f.MaterialID = &id
	}
	if v := c.Query("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		f.CategoryID = &id
	}
	if v := c.Query("type"); v != "" {
		for _, s := range strings.Split(v, ",") {
			f.Types = append(f.Types, stock.MoveType(s))
		}
	}
	switch c.Query("period") {
	case "semana":
		days := 7
		f.Since = &days
	case "mes", "":
		days := 30
		f.Since = &days
	case "todo":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown period"})
		return
	}

	ms, err := h.StockRepo.ListMovements(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": ms})
}

func (h *Handlers) consumptionReport(c *gin.Context) {
	f := reports.Filter{
		Period: reports.Period(c.DefaultQuery("period", string(reports.PeriodMonth))),
		Rank:   reports.Rank(c.DefaultQuery("rank", string(reports.RankTop))),
	}
	if v := c.Query("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		f.CategoryID = &id
	}
	if v := c.Query("material"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
			return
		}
		f.MaterialID = &id
	}

	rows, err := h.Reports.Consumption(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	if c.Query("format") == "xlsx" {
		data, name, err := reports.ExportXLSX(rows, f)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": rows})
}
