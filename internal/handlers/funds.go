package handlers

import (
	"net/http"
	"strconv"

	"funddesk/internal/models"
	"funddesk/internal/services"

	"github.com/gin-gonic/gin"
)

type FundHandler struct {
	funds     *services.FundService
	diligence *services.DiligenceService
}

func NewFundHandler(funds *services.FundService, diligence *services.DiligenceService) *FundHandler {
	return &FundHandler{funds: funds, diligence: diligence}
}

type fundForm struct {
	Name              string   `form:"name" json:"name"`
	EstablishmentDate string   `form:"establishment_date" json:"establishment_date"`
	ManagementScale   *float64 `form:"management_scale" json:"management_scale"`
	TeamSize          *int     `form:"team_size" json:"team_size"`
	StrategyTags      string   `form:"strategy_tags" json:"strategy_tags"`
	Region            string   `form:"region" json:"region"`
	Keywords          string   `form:"keywords" json:"keywords"`
}

func (f fundForm) attrs() services.FundAttrs {
	return services.FundAttrs{
		Name:              f.Name,
		EstablishmentDate: f.EstablishmentDate,
		ManagementScale:   f.ManagementScale,
		TeamSize:          f.TeamSize,
		StrategyTags:      f.StrategyTags,
		Region:            f.Region,
		Keywords:          f.Keywords,
	}
}

// List handles GET /funds with the filter and sort query parameters.
func (h *FundHandler) List(c *gin.Context) {
	var filter services.FundFilter

	if v := c.Query("management_scale_min"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil {
			filter.ScaleMin = &min
		}
	}
	if v := c.Query("management_scale_max"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil {
			filter.ScaleMax = &max
		}
	}
	filter.Strategy = c.Query("strategy")
	filter.Region = c.Query("region")
	filter.Keyword = c.Query("keyword")

	sortBy := services.FundSort{
		Field: c.DefaultQuery("sort_by", "name"),
		Desc:  c.Query("order") == "desc",
	}

	funds, err := h.funds.List(filter, sortBy)
	if err != nil {
		fail(c, err)
		return
	}

	regions, err := h.funds.DistinctRegions()
	if err != nil {
		fail(c, err)
		return
	}
	strategies, err := h.funds.DistinctStrategyTags()
	if err != nil {
		fail(c, err)
		return
	}

	fundIDs := make([]uint, 0, len(funds))
	for _, f := range funds {
		fundIDs = append(fundIDs, f.ID)
	}
	latest, err := h.diligence.LatestDates(fundIDs)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"funds":           funds,
		"all_regions":     regions,
		"all_strategies":  strategies,
		"latest_activity": latest,
	})
}

// Get handles GET /funds/:id and returns the fund together with its
// due-diligence records and their comments.
func (h *FundHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	fund, err := h.funds.Get(id)
	if err != nil {
		fail(c, err)
		return
	}

	records, err := h.diligence.ListForFund(fund.ID)
	if err != nil {
		fail(c, err)
		return
	}

	type recordView struct {
		models.DueDiligence
		Comments []models.DueDiligenceComment `json:"comments"`
	}
	views := make([]recordView, 0, len(records))
	for _, dd := range records {
		comments, err := h.diligence.Comments(dd.ID)
		if err != nil {
			fail(c, err)
			return
		}
		views = append(views, recordView{DueDiligence: dd, Comments: comments})
	}

	c.JSON(http.StatusOK, gin.H{
		"fund":           fund,
		"due_diligences": views,
	})
}

func (h *FundHandler) Create(c *gin.Context) {
	var form fundForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fund, err := h.funds.Create(form.attrs())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fund)
}

func (h *FundHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var form fundForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fund, err := h.funds.Update(id, form.attrs())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

func (h *FundHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.funds.Delete(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
