package api

import (
	"investlab/internal/domain"
	"investlab/internal/pricepath"

	"github.com/gin-gonic/gin"
)

type regimeResponse struct {
	Name pricepath.Regime `json:"name"`
	pricepath.RegimeParams
}

func (h ApiHandler) getRegimes(c *gin.Context) {
	cfg := h.Config.PricePath()
	out := []regimeResponse{}
	for _, name := range cfg.RegimeNames() {
		out = append(out, regimeResponse{
			Name:         name,
			RegimeParams: cfg.Regimes[name],
		})
	}
	c.JSON(200, out)
}

type crisisSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartLabel  string `json:"startLabel"`
	Duration    int    `json:"duration"`
	Severity    string `json:"severity"`
}

type getCatalogResponse struct {
	Assets         []domain.Asset          `json:"assets"`
	Options        []domain.OptionContract `json:"options"`
	Crises         []crisisSummary         `json:"crises"`
	StartupCompany domain.Company          `json:"startupCompany"`
	Budget         float64                 `json:"budget"`
	StartingCash   float64                 `json:"startingCash"`
}

// decision scripts stay server side so players can't read ahead
func (h ApiHandler) getCatalog(c *gin.Context) {
	crises := []crisisSummary{}
	for _, cr := range h.Catalog.Crises {
		crises = append(crises, crisisSummary{
			ID:          cr.ID,
			Name:        cr.Name,
			Description: cr.Description,
			StartLabel:  cr.StartLabel,
			Duration:    cr.Duration,
			Severity:    cr.Severity,
		})
	}

	c.JSON(200, getCatalogResponse{
		Assets:         h.Catalog.Assets,
		Options:        h.Catalog.Options,
		Crises:         crises,
		StartupCompany: h.Catalog.Startup.Company,
		Budget:         h.Config.Budget,
		StartingCash:   h.Config.StartingCash,
	})
}
