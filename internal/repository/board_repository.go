package repository

import (
	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// CreateWithLists creates a board and its initial lists in one transaction.
// On success board.Lists holds the created lists.
func (r *GormBoardRepository) CreateWithLists(board *models.Board, lists []models.List) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(board).Error; err != nil {
			return err
		}

		for i := range lists {
			lists[i].BoardID = board.ID
		}
		if len(lists) > 0 {
			if err := tx.Omit(clause.Associations).Create(&lists).Error; err != nil {
				return err
			}
		}

		board.Lists = lists
		return nil
	})
}

// FindByID finds a board by ID
func (r *GormBoardRepository) FindByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindOwned finds a board owned by userID with its lists and tasks loaded
func (r *GormBoardRepository) FindOwned(id, userID uint64) (*models.Board, error) {
	var board models.Board
	if err := r.withContent(userID).
		Where("id = ? AND user_id = ?", id, userID).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListByUser lists all boards owned by userID
func (r *GormBoardRepository) ListByUser(userID uint64) ([]models.Board, error) {
	var boards []models.Board
	if err := r.withContent(userID).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update updates a board
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Omit(clause.Associations).Save(board).Error
}

// Delete removes a board and all of its lists and tasks in a transaction
func (r *GormBoardRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		listIDs := tx.Model(&models.List{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("list_id IN (?)", listIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.List{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Board{}, id).Error
	})
}

// withContent preloads lists in display order and the owner's tasks newest first
func (r *GormBoardRepository) withContent(userID uint64) *gorm.DB {
	return r.db.
		Preload("Lists", func(db *gorm.DB) *gorm.DB {
			return db.Order("lists.position ASC, lists.id ASC")
		}).
		Preload("Lists.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Where("tasks.user_id = ?", userID).Order("tasks.created_at DESC, tasks.id DESC")
		})
}
