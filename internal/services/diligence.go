package services

import (
	"errors"
	"io"
	"strings"
	"time"

	"funddesk/internal/models"
	"funddesk/internal/storage"

	"gorm.io/gorm"
)

// Upload is an incoming file attachment; Name is the client-supplied filename.
type Upload struct {
	Name   string
	Reader io.Reader
}

// DiligenceAttrs carries the user-supplied fields for a due-diligence record.
type DiligenceAttrs struct {
	Date    string // YYYY-MM-DD, empty means "now"
	Content string
	File    *Upload // nil or disallowed files are skipped, not an error
}

type DiligenceService struct {
	db    *gorm.DB
	files *storage.Store
}

func NewDiligenceService(db *gorm.DB, files *storage.Store) *DiligenceService {
	return &DiligenceService{db: db, files: files}
}

func (s *DiligenceService) Get(id uint) (*models.DueDiligence, error) {
	var dd models.DueDiligence
	if err := s.db.First(&dd, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dd, nil
}

// ListForFund returns a fund's records, most recent activity first.
func (s *DiligenceService) ListForFund(fundID uint) ([]models.DueDiligence, error) {
	var records []models.DueDiligence
	err := s.db.Where("fund_id = ?", fundID).
		Order("date desc").Order("id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *DiligenceService) Add(fundID uint, actor *models.User, attrs DiligenceAttrs) (*models.DueDiligence, error) {
	var fund models.PrivateFund
	if err := s.db.First(&fund, fundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	content := strings.TrimSpace(attrs.Content)
	if content == "" {
		return nil, validation(CodeEmptyContent, "due-diligence content must not be empty")
	}

	date, err := parseDateOrNow(attrs.Date)
	if err != nil {
		return nil, err
	}

	ref, err := s.storeUpload(attrs.File)
	if err != nil {
		return nil, err
	}

	dd := models.DueDiligence{
		FundID:   fund.ID,
		UserID:   actor.ID,
		Date:     date,
		Content:  content,
		FilePath: ref,
	}
	if err := s.db.Create(&dd).Error; err != nil {
		if ref != "" {
			_ = s.files.Remove(ref)
		}
		return nil, err
	}
	return &dd, nil
}

// Update rewrites a record's content, date and (optionally) file. Only the
// author or an admin may mutate it. A replacement file removes the old one.
func (s *DiligenceService) Update(id uint, actor *models.User, attrs DiligenceAttrs) (*models.DueDiligence, error) {
	dd, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, dd.UserID) {
		return nil, ErrForbidden
	}

	content := strings.TrimSpace(attrs.Content)
	if content == "" {
		return nil, validation(CodeEmptyContent, "due-diligence content must not be empty")
	}

	date, err := parseDateOrNow(attrs.Date)
	if err != nil {
		return nil, err
	}

	ref, err := s.storeUpload(attrs.File)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		if dd.FilePath != "" {
			_ = s.files.Remove(dd.FilePath)
		}
		dd.FilePath = ref
	}

	dd.Content = content
	dd.Date = date
	if err := s.db.Save(dd).Error; err != nil {
		return nil, err
	}
	return dd, nil
}

// Delete removes a record, its comments and its attached file.
func (s *DiligenceService) Delete(id uint, actor *models.User) error {
	dd, err := s.Get(id)
	if err != nil {
		return err
	}
	if !canMutate(actor, dd.UserID) {
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("due_diligence_id = ?", dd.ID).
			Delete(&models.DueDiligenceComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(dd).Error
	})
	if err != nil {
		return err
	}

	if dd.FilePath != "" {
		_ = s.files.Remove(dd.FilePath)
	}
	return nil
}

// Comments returns a record's comments, oldest first, fully materialized.
func (s *DiligenceService) Comments(ddID uint) ([]models.DueDiligenceComment, error) {
	var comments []models.DueDiligenceComment
	err := s.db.Where("due_diligence_id = ?", ddID).
		Order("created_at asc").Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *DiligenceService) AddComment(ddID uint, actor *models.User, content string) (*models.DueDiligenceComment, error) {
	dd, err := s.Get(ddID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validation(CodeEmptyContent, "comment content must not be empty")
	}

	comment := models.DueDiligenceComment{
		DueDiligenceID: dd.ID,
		UserID:         actor.ID,
		Content:        content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *DiligenceService) DeleteComment(id uint, actor *models.User) error {
	var comment models.DueDiligenceComment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canMutate(actor, comment.UserID) {
		return ErrForbidden
	}
	return s.db.Delete(&comment).Error
}

func (s *DiligenceService) CountByUser(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.DueDiligence{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Recent returns the n most recently created records across all funds.
func (s *DiligenceService) Recent(n int) ([]models.DueDiligence, error) {
	var records []models.DueDiligence
	err := s.db.Order("created_at desc").Order("id desc").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LatestDates returns the most recent activity date per fund.
func (s *DiligenceService) LatestDates(fundIDs []uint) (map[uint]time.Time, error) {
	if len(fundIDs) == 0 {
		return map[uint]time.Time{}, nil
	}

	var records []models.DueDiligence
	err := s.db.Select("fund_id", "date").
		Where("fund_id IN ?", fundIDs).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]time.Time)
	for _, dd := range records {
		if cur, ok := latest[dd.FundID]; !ok || dd.Date.After(cur) {
			latest[dd.FundID] = dd.Date
		}
	}
	return latest, nil
}

func canMutate(actor *models.User, ownerID uint) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}

// storeUpload saves an attachment if present and allowed; anything else is
// skipped silently and the record keeps no file reference.
func (s *DiligenceService) storeUpload(file *Upload) (string, error) {
	if file == nil || strings.TrimSpace(file.Name) == "" || !s.files.Allowed(file.Name) {
		return "", nil
	}
	ref, err := s.files.Save(file.Name, file.Reader)
	if err != nil {
		if errors.Is(err, storage.ErrRejected) {
			return "", nil
		}
		return "", err
	}
	return ref, nil
}

func parseDateOrNow(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, validation(CodeInvalidDate, "date must be in YYYY-MM-DD format")
	}
	return t, nil
}
