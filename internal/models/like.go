package models

// Like represents a user's like on a cafe
type Like struct {
	CafeID int64  `json:"cafe_id"`
	UserID string `json:"user_id"`
}

// LikeRequest defines the request body for liking or unliking a cafe
type LikeRequest struct {
	CafeID int64 `json:"cafe_id" validate:"required,gt=0"`
}

// LikeStatusQuery binds the query string of the like status endpoint
type LikeStatusQuery struct {
	CafeID int64 `query:"cafe_id" validate:"required,gt=0"`
}

// LikeStatusResponse is returned by GET /api/likes
type LikeStatusResponse struct {
	Likes bool `json:"likes"`
}

// LikeMutationResponse is returned by POST /api/like and POST /api/unlike.
// Clients are free to ignore it.
type LikeMutationResponse struct {
	CafeID int64 `json:"cafe_id"`
	Likes  bool  `json:"likes"`
}
