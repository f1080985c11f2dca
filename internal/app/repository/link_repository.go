package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sifan077/shortlink/internal/app/model"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	"gorm.io/gorm"
)

const (
	scanBatchSize = 1000

	// SQLSTATE unique_violation.
	pgUniqueViolation = "23505"
)

// LinkRepository defines the data access contract for short links.
type LinkRepository interface {
	Insert(ctx context.Context, link *model.Link) error
	FindByCode(ctx context.Context, code string) (*model.Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error)
}

// CodeScanner streams every stored short code.
type CodeScanner interface {
	ScanCodes(ctx context.Context, fn func(code string)) error
}

// Store is what the GORM implementation offers.
type Store interface {
	LinkRepository
	CodeScanner
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed Store.
func NewLinkRepository(db *gorm.DB) Store {
	return &linkRepository{db: db}
}

// Insert relies on short_code_idx to reject duplicates atomically.
func (r *linkRepository) Insert(ctx context.Context, link *model.Link) error {
	if err := validateLink(link); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *linkRepository) FindByCode(ctx context.Context, code string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).Take(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, translateError(err)
	}
	return &link, nil
}

func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	result := make([]model.Link, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&result).Error; err != nil {
		return nil, translateError(err)
	}
	if result == nil {
		result = []model.Link{}
	}
	return result, nil
}

func (r *linkRepository) ScanCodes(ctx context.Context, fn func(code string)) error {
	var batch []model.Link
	err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Select("id", "short_code").
		FindInBatches(&batch, scanBatchSize, func(tx *gorm.DB, _ int) error {
			for _, link := range batch {
				fn(link.ShortCode)
			}
			return nil
		}).Error
	return translateError(err)
}

func validateLink(link *model.Link) error {
	switch {
	case link == nil:
		return apperrors.NewValidationError("", "link is required")
	case strings.TrimSpace(link.OwnerID) == "":
		return apperrors.NewValidationError("owner_id", "owner is required")
	case strings.TrimSpace(link.ShortCode) == "":
		return apperrors.NewValidationError("short_code", "short code is required")
	case len(link.ShortCode) > 32:
		return apperrors.NewValidationError("short_code", "short code is too long (max 32 characters)")
	case strings.TrimSpace(link.TargetURL) == "":
		return apperrors.NewValidationError("url", "URL cannot be empty")
	}
	return nil
}

// translateError maps driver errors onto the application taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrCodeConflict, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageTimeout, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// SQLite drivers without an error translator.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
