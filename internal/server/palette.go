package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engramhq/engramview/graphview"
)

// paletteResponse is the legend the dashboard renders: one color per node
// category and relation category, plus the fallback used for anything else.
type paletteResponse struct {
	Nodes     map[graphview.Category]string         `json:"nodes"`
	Relations map[graphview.RelationCategory]string `json:"relations"`
	Fallback  string                                `json:"fallback"`
}

// Palette handles GET /api/v1/palette.
func Palette(c *gin.Context) {
	nodes := map[graphview.Category]string{}
	for _, cat := range []graphview.Category{
		graphview.CategoryPerson,
		graphview.CategoryPlace,
		graphview.CategoryEvent,
		graphview.CategoryConcept,
		graphview.CategoryFact,
		graphview.CategoryUnknown,
	} {
		nodes[cat] = cat.Color()
	}

	relations := map[graphview.RelationCategory]string{}
	for _, cat := range []graphview.RelationCategory{
		graphview.RelationCausal,
		graphview.RelationTemporal,
		graphview.RelationSemantic,
		graphview.RelationReference,
	} {
		relations[cat] = cat.Color()
	}

	c.JSON(http.StatusOK, paletteResponse{
		Nodes:     nodes,
		Relations: relations,
		Fallback:  graphview.FallbackColor,
	})
}
