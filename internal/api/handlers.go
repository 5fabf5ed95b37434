package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/prompts"
	"github.com/amosWeiskopf/aivis/pkg/scanner"
)

// maxCompetitors bounds the sequential competitor audits per request.
const maxCompetitors = 5

type handler struct {
	scanner Scanner
}

type scanRequest struct {
	Domain      string   `json:"domain" binding:"required"`
	Brand       string   `json:"brand"`
	Industry    string   `json:"industry"`
	Competitors []string `json:"competitors"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": models.Version,
	})
}

func (h *handler) scan(c *gin.Context) {
	h.runScan(c, h.scanner.Scan)
}

func (h *handler) quickScan(c *gin.Context) {
	h.runScan(c, h.scanner.QuickScan)
}

func (h *handler) runScan(c *gin.Context, run func(ctx context.Context, req scanner.Request) (models.ScanResult, error)) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid scan request: domain is required",
		})
		return
	}
	if len(req.Competitors) > maxCompetitors {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("At most %d competitors are allowed", maxCompetitors),
		})
		return
	}

	result, err := run(c.Request.Context(), scanner.Request{
		Domain:      req.Domain,
		Brand:       req.Brand,
		Industry:    req.Industry,
		Competitors: req.Competitors,
	})
	if errors.Is(err, scanner.ErrInvalidDomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "scan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan domain: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) prompts(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	if brand == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand is required"})
		return
	}

	var competitors []string
	for _, v := range c.QueryArray("competitor") {
		for _, comp := range strings.Split(v, ",") {
			if comp = strings.TrimSpace(comp); comp != "" {
				competitors = append(competitors, comp)
			}
		}
	}

	industry := c.DefaultQuery("industry", prompts.GenericIndustry)
	list := prompts.Generate(industry, brand, competitors)

	c.JSON(http.StatusOK, gin.H{
		"industry": prompts.NormalizeIndustry(industry),
		"brand":    brand,
		"count":    len(list),
		"prompts":  list,
	})
}
