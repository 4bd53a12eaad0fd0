package auditlog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("audit log not found")

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error)
	GetByID(ctx context.Context, id uint) (*AuditLog, error)
}

// ============================
// 🐘 Postgres

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new audit log entry
func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetByFilter retrieves audit logs with filtering and pagination
func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error) {
	filter.normalize()

	var logs []AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&AuditLog{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action ILIKE ?", "%"+filter.Action+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// GetByID retrieves a specific audit log by ID
func (r *repository) GetByID(ctx context.Context, id uint) (*AuditLog, error) {
	var log AuditLog
	err := r.db.WithContext(ctx).First(&log, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// ============================
// 🧠 In-memory, used when no database is configured

type memoryRepository struct {
	mu     sync.RWMutex
	logs   []AuditLog
	nextID uint
	now    func() time.Time
}

func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1, now: time.Now}
}

func (r *memoryRepository) Create(_ context.Context, log *AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = r.nextID
	r.nextID++
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memoryRepository) GetByFilter(_ context.Context, filter AuditLogFilter) ([]AuditLog, int64, error) {
	filter.normalize()

	r.mu.RLock()
	matched := make([]AuditLog, 0, len(r.logs))
	for _, l := range r.logs {
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if filter.Action != "" && !strings.Contains(strings.ToLower(l.Action), strings.ToLower(filter.Action)) {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.FromDate != nil && l.CreatedAt.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && l.CreatedAt.After(*filter.ToDate) {
			continue
		}
		matched = append(matched, l)
	}
	r.mu.RUnlock()

	// newest first, ties broken by ID
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []AuditLog{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uint) (*AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.logs {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
