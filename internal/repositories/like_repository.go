package repositories

import (
	"sync"

	"github.com/anonto42/cafe-likes/internal/models"
)

// LikeRepository defines the interface for like data operations.
// Create and Delete are idempotent and report whether anything changed.
type LikeRepository interface {
	CreateLike(like *models.Like) (bool, error)
	DeleteLike(cafeID int64, userID string) (bool, error)
	HasUserLikedCafe(cafeID int64, userID string) (bool, error)
	GetLikesCountByCafeID(cafeID int64) (int64, error)
	GetLikedCafeIDs(userID string) ([]int64, error)
}

// MemoryLikeRepository keeps likes in process memory. It backs the contract
// stub server; nothing survives a restart.
type MemoryLikeRepository struct {
	mu    sync.RWMutex
	likes map[int64]map[string]struct{}
}

// NewMemoryLikeRepository creates an empty MemoryLikeRepository
func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{likes: make(map[int64]map[string]struct{})}
}

// CreateLike records like, returning false if it already existed
func (r *MemoryLikeRepository) CreateLike(like *models.Like) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.likes[like.CafeID]
	if !ok {
		users = make(map[string]struct{})
		r.likes[like.CafeID] = users
	}
	if _, exists := users[like.UserID]; exists {
		return false, nil
	}
	users[like.UserID] = struct{}{}
	return true, nil
}

// DeleteLike removes a like, returning false if there was none
func (r *MemoryLikeRepository) DeleteLike(cafeID int64, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.likes[cafeID]
	if !ok {
		return false, nil
	}
	if _, exists := users[userID]; !exists {
		return false, nil
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(r.likes, cafeID)
	}
	return true, nil
}

// HasUserLikedCafe checks if a user has liked a specific cafe
func (r *MemoryLikeRepository) HasUserLikedCafe(cafeID int64, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.likes[cafeID][userID]
	return ok, nil
}

// GetLikesCountByCafeID returns how many users like a cafe
func (r *MemoryLikeRepository) GetLikesCountByCafeID(cafeID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.likes[cafeID])), nil
}

func (r *MemoryLikeRepository) GetLikedCafeIDs(userID string) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0)
	for cafeID, users := range r.likes {
		if _, ok := users[userID]; ok {
			ids = append(ids, cafeID)
		}
	}
	return ids, nil
}
