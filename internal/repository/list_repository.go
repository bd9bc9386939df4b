package repository

import (
	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormListRepository is a GORM implementation of ListRepository
type GormListRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new ListRepository
func NewListRepository(db *gorm.DB) ListRepository {
	return &GormListRepository{db: db}
}

// Create creates a new list
func (r *GormListRepository) Create(list *models.List) error {
	return r.db.Omit(clause.Associations).Create(list).Error
}

// FindByID finds a list by ID
func (r *GormListRepository) FindByID(id uint64) (*models.List, error) {
	var list models.List
	if err := r.db.First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindOwned finds a list whose board belongs to userID
func (r *GormListRepository) FindOwned(id, userID uint64) (*models.List, error) {
	var list models.List
	if err := r.owned(userID).
		Where("lists.id = ?", id).
		First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByUser lists lists on boards owned by userID in display order
func (r *GormListRepository) ListByUser(userID uint64, boardID *uint64) ([]models.List, error) {
	query := r.owned(userID)
	if boardID != nil {
		query = query.Where("lists.board_id = ?", *boardID)
	}

	var lists []models.List
	if err := query.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Where("tasks.user_id = ?", userID).Order("tasks.created_at DESC, tasks.id DESC")
		}).
		Order("lists.board_id ASC, lists.position ASC, lists.id ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Update updates a list
func (r *GormListRepository) Update(list *models.List) error {
	return r.db.Omit(clause.Associations).Save(list).Error
}

// Delete removes a list and its tasks in a transaction
func (r *GormListRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.List{}, id).Error
	})
}

func (r *GormListRepository) owned(userID uint64) *gorm.DB {
	return r.db.Model(&models.List{}).
		Select("lists.*").
		Joins("JOIN boards ON boards.id = lists.board_id").
		Where("boards.user_id = ?", userID)
}
