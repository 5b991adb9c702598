package handlers

import (
	"net/http"

	"funddesk/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	funds     *services.FundService
	diligence *services.DiligenceService
}

func NewDashboardHandler(funds *services.FundService, diligence *services.DiligenceService) *DashboardHandler {
	return &DashboardHandler{funds: funds, diligence: diligence}
}

// Show returns the landing-page stats: fund totals, the actor's own update
// count, region distribution and the latest activity.
func (h *DashboardHandler) Show(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	totalFunds, err := h.funds.Count()
	if err != nil {
		fail(c, err)
		return
	}

	userUpdates, err := h.diligence.CountByUser(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	regions, err := h.funds.RegionDistribution()
	if err != nil {
		fail(c, err)
		return
	}

	recent, err := h.diligence.Recent(5)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_funds":    totalFunds,
		"user_updates":   userUpdates,
		"region_data":    regions,
		"recent_updates": recent,
	})
}
