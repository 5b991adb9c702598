package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"funddesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCreateFund_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewFundService(db, newTestStore(t))

	_, err := svc.Create(FundAttrs{Name: "Alpha Capital"})
	require.NoError(t, err)

	_, err = svc.Create(FundAttrs{Name: "Alpha Capital"})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateName, ve.Code)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateFund_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewFundService(db, newTestStore(t))

	_, err := svc.Create(FundAttrs{Name: "   "})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeEmptyName, ve.Code)

	_, err = svc.Create(FundAttrs{Name: "Beta", EstablishmentDate: "03/15/2020"})
	ve, ok = IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidDate, ve.Code)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	fund, err := svc.Create(FundAttrs{Name: "Beta", EstablishmentDate: "2020-03-15"})
	require.NoError(t, err)
	require.NotNil(t, fund.EstablishmentDate)
	assert.Equal(t, "2020-03-15", fund.EstablishmentDate.Format("2006-01-02"))
}

func TestUpdateFund_RenameUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := NewFundService(db, newTestStore(t))

	a, err := svc.Create(FundAttrs{Name: "Alpha"})
	require.NoError(t, err)
	_, err = svc.Create(FundAttrs{Name: "Beta"})
	require.NoError(t, err)

	// renaming onto another fund's name is refused
	_, err = svc.Update(a.ID, FundAttrs{Name: "Beta"})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateName, ve.Code)

	// keeping its own name is fine
	updated, err := svc.Update(a.ID, FundAttrs{Name: "Alpha", Region: "East"})
	require.NoError(t, err)
	assert.Equal(t, "East", updated.Region)

	_, err = svc.Update(9999, FundAttrs{Name: "Gamma"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFunds_FiltersAndSort(t *testing.T) {
	db := newTestDB(t)
	svc := NewFundService(db, newTestStore(t))

	seed := []FundAttrs{
		{Name: "Small East", ManagementScale: floatPtr(50), Region: "East", StrategyTags: "macro, quant", Keywords: "energy"},
		{Name: "Mid East", ManagementScale: floatPtr(200), Region: "East", StrategyTags: "quant", Keywords: "tech"},
		{Name: "Mid West", ManagementScale: floatPtr(300), Region: "West", StrategyTags: "credit", Keywords: "tech, media"},
		{Name: "Large West", ManagementScale: floatPtr(900), Region: "West", StrategyTags: "macro", Keywords: "metals"},
	}
	for _, attrs := range seed {
		_, err := svc.Create(attrs)
		require.NoError(t, err)
	}

	funds, err := svc.List(FundFilter{ScaleMin: floatPtr(100), ScaleMax: floatPtr(500)}, FundSort{})
	require.NoError(t, err)
	require.Len(t, funds, 2)
	assert.Equal(t, "Mid East", funds[0].Name)
	assert.Equal(t, "Mid West", funds[1].Name)

	funds, err = svc.List(FundFilter{ScaleMin: floatPtr(100), ScaleMax: floatPtr(500), Region: "East"}, FundSort{})
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "Mid East", funds[0].Name)

	funds, err = svc.List(FundFilter{Strategy: "quant", Keyword: "tech"}, FundSort{})
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "Mid East", funds[0].Name)

	funds, err = svc.List(FundFilter{}, FundSort{Field: "management_scale", Desc: true})
	require.NoError(t, err)
	require.Len(t, funds, 4)
	assert.Equal(t, "Large West", funds[0].Name)
	assert.Equal(t, "Small East", funds[3].Name)

	// an unknown sort field falls back to name asc
	funds, err = svc.List(FundFilter{}, FundSort{Field: "password_hash", Desc: true})
	require.NoError(t, err)
	require.Len(t, funds, 4)
	assert.Equal(t, "Large West", funds[0].Name)
	assert.True(t, strings.HasPrefix(funds[1].Name, "Mid"))
}

func TestDeleteFund_Cascades(t *testing.T) {
	db := newTestDB(t)
	files := newTestStore(t)
	funds := NewFundService(db, files)
	diligence := NewDiligenceService(db, files)
	user := newTestUser(t, db, "analyst", models.RoleUser)

	fund, err := funds.Create(FundAttrs{Name: "Alpha"})
	require.NoError(t, err)

	dd, err := diligence.Add(fund.ID, user, DiligenceAttrs{
		Content: "site visit notes",
		File:    &Upload{Name: "report.pdf", Reader: strings.NewReader("pdf bytes")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, dd.FilePath)

	_, err = diligence.AddComment(dd.ID, user, "follow up next week")
	require.NoError(t, err)

	storedPath := filepath.Join(files.Dir(), dd.FilePath)
	_, err = os.Stat(storedPath)
	require.NoError(t, err)

	require.NoError(t, funds.Delete(fund.ID))

	_, err = funds.Get(fund.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	records, err := diligence.ListForFund(fund.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	comments, err := diligence.Comments(dd.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = os.Stat(storedPath)
	assert.True(t, os.IsNotExist(err))

	// deleting an unknown fund reports not found
	assert.ErrorIs(t, funds.Delete(fund.ID), ErrNotFound)
}

func TestDistinctRegionsAndStrategyTags(t *testing.T) {
	db := newTestDB(t)
	svc := NewFundService(db, newTestStore(t))

	seed := []FundAttrs{
		{Name: "A", Region: "East", StrategyTags: "macro, quant"},
		{Name: "B", Region: "West", StrategyTags: "quant , credit"},
		{Name: "C", Region: "East"},
		{Name: "D"},
	}
	for _, attrs := range seed {
		_, err := svc.Create(attrs)
		require.NoError(t, err)
	}

	regions, err := svc.DistinctRegions()
	require.NoError(t, err)
	assert.Equal(t, []string{"East", "West"}, regions)

	tags, err := svc.DistinctStrategyTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"credit", "macro", "quant"}, tags)

	dist, err := svc.RegionDistribution()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"East": 2, "West": 1}, dist)
}
