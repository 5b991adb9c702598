package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"funddesk/internal/models"
	"funddesk/internal/storage"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// FundFilter holds the optional list filters; all supplied filters are ANDed.
type FundFilter struct {
	ScaleMin *float64
	ScaleMax *float64
	Strategy string // substring match on strategy tags
	Region   string // exact match
	Keyword  string // substring match on keywords
}

type FundSort struct {
	Field string
	Desc  bool
}

// sortableColumns whitelists sort fields; anything else falls back to name asc.
var sortableColumns = map[string]string{
	"name":               "name",
	"establishment_date": "establishment_date",
	"management_scale":   "management_scale",
	"team_size":          "team_size",
	"created_at":         "created_at",
	"updated_at":         "updated_at",
}

// FundAttrs carries the user-supplied fields for create/update. Dates arrive
// as strings so validation stays in one place.
type FundAttrs struct {
	Name              string
	EstablishmentDate string // YYYY-MM-DD, optional
	ManagementScale   *float64
	TeamSize          *int
	StrategyTags      string
	Region            string
	Keywords          string
}

type FundService struct {
	db    *gorm.DB
	files *storage.Store
}

func NewFundService(db *gorm.DB, files *storage.Store) *FundService {
	return &FundService{db: db, files: files}
}

func (s *FundService) List(filter FundFilter, sortBy FundSort) ([]models.PrivateFund, error) {
	q := s.db.Model(&models.PrivateFund{})

	if filter.ScaleMin != nil {
		q = q.Where("management_scale >= ?", *filter.ScaleMin)
	}
	if filter.ScaleMax != nil {
		q = q.Where("management_scale <= ?", *filter.ScaleMax)
	}
	if filter.Strategy != "" {
		q = q.Where("strategy_tags LIKE ?", "%"+filter.Strategy+"%")
	}
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Keyword != "" {
		q = q.Where("keywords LIKE ?", "%"+filter.Keyword+"%")
	}

	col, ok := sortableColumns[sortBy.Field]
	if !ok {
		col = "name"
		sortBy.Desc = false
	}
	dir := "asc"
	if sortBy.Desc {
		dir = "desc"
	}
	// id tiebreak keeps ordering deterministic
	q = q.Order(col + " " + dir).Order("id asc")

	var funds []models.PrivateFund
	if err := q.Find(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

func (s *FundService) Get(id uint) (*models.PrivateFund, error) {
	var fund models.PrivateFund
	if err := s.db.First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func (s *FundService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.PrivateFund{}).Count(&count).Error
	return count, err
}

func (s *FundService) Create(attrs FundAttrs) (*models.PrivateFund, error) {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return nil, validation(CodeEmptyName, "fund name must not be empty")
	}

	estDate, err := parseOptionalDate(attrs.EstablishmentDate)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.PrivateFund{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, validation(CodeDuplicateName, "a fund with this name already exists")
	}

	fund := models.PrivateFund{
		Name:              name,
		EstablishmentDate: estDate,
		ManagementScale:   attrs.ManagementScale,
		TeamSize:          attrs.TeamSize,
		StrategyTags:      strings.TrimSpace(attrs.StrategyTags),
		Region:            strings.TrimSpace(attrs.Region),
		Keywords:          strings.TrimSpace(attrs.Keywords),
	}
	if err := s.db.Create(&fund).Error; err != nil {
		return nil, err
	}
	return &fund, nil
}

func (s *FundService) Update(id uint, attrs FundAttrs) (*models.PrivateFund, error) {
	fund, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return nil, validation(CodeEmptyName, "fund name must not be empty")
	}

	estDate, err := parseOptionalDate(attrs.EstablishmentDate)
	if err != nil {
		return nil, err
	}

	// uniqueness re-checked against all other funds
	var count int64
	if err := s.db.Model(&models.PrivateFund{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, fund.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, validation(CodeDuplicateName, "a fund with this name already exists")
	}

	fund.Name = name
	fund.EstablishmentDate = estDate
	fund.ManagementScale = attrs.ManagementScale
	fund.TeamSize = attrs.TeamSize
	fund.StrategyTags = strings.TrimSpace(attrs.StrategyTags)
	fund.Region = strings.TrimSpace(attrs.Region)
	fund.Keywords = strings.TrimSpace(attrs.Keywords)

	if err := s.db.Save(fund).Error; err != nil {
		return nil, err
	}
	return fund, nil
}

// Delete removes a fund together with its due-diligence records, their
// comments and their attached files.
func (s *FundService) Delete(id uint) error {
	fund, err := s.Get(id)
	if err != nil {
		return err
	}

	var records []models.DueDiligence
	if err := s.db.Where("fund_id = ?", fund.ID).Find(&records).Error; err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, dd := range records {
			if err := tx.Where("due_diligence_id = ?", dd.ID).
				Delete(&models.DueDiligenceComment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("fund_id = ?", fund.ID).
			Delete(&models.DueDiligence{}).Error; err != nil {
			return err
		}
		return tx.Delete(fund).Error
	})
	if err != nil {
		return err
	}

	// file removal is tolerant, so it happens after the rows are gone
	for _, dd := range records {
		if dd.FilePath != "" {
			_ = s.files.Remove(dd.FilePath)
		}
	}
	return nil
}

func (s *FundService) DistinctRegions() ([]string, error) {
	var regions []string
	err := s.db.Model(&models.PrivateFund{}).
		Distinct("region").
		Where("region <> ''").
		Order("region asc").
		Pluck("region", &regions).Error
	if err != nil {
		return nil, err
	}
	return regions, nil
}

// DistinctStrategyTags scans every fund's comma-separated tags and returns
// the sorted set of individual tags.
func (s *FundService) DistinctStrategyTags() ([]string, error) {
	var tagFields []string
	err := s.db.Model(&models.PrivateFund{}).
		Where("strategy_tags <> ''").
		Pluck("strategy_tags", &tagFields).Error
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, field := range tagFields {
		for _, tag := range strings.Split(field, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				seen[tag] = struct{}{}
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// RegionDistribution counts funds per non-empty region (dashboard chart).
func (s *FundService) RegionDistribution() (map[string]int64, error) {
	type row struct {
		Region string
		Count  int64
	}
	var rows []row
	err := s.db.Model(&models.PrivateFund{}).
		Select("region, COUNT(id) AS count").
		Where("region <> ''").
		Group("region").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(rows))
	for _, r := range rows {
		dist[r.Region] = r.Count
	}
	return dist, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, validation(CodeInvalidDate, "date must be in YYYY-MM-DD format")
	}
	return &t, nil
}
