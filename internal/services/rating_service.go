package services

import (
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RatingService interface {
	ListForUser(db *gorm.DB, userID string) ([]models.Rating, error)
	ListForJob(db *gorm.DB, jobID string) ([]models.Rating, error)
}

type RatingServiceImpl struct {
	ratingRepo repositories.RatingRepository
	userRepo   repositories.UserRepository
	jobRepo    repositories.JobRepository
}

func NewRatingService(ratingRepo repositories.RatingRepository, userRepo repositories.UserRepository, jobRepo repositories.JobRepository) RatingService {
	return &RatingServiceImpl{ratingRepo: ratingRepo, userRepo: userRepo, jobRepo: jobRepo}
}

func (s *RatingServiceImpl) ListForUser(db *gorm.DB, userID string) ([]models.Rating, error) {
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}
	ratings, err := s.ratingRepo.ListByRated(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return ratings, nil
}

func (s *RatingServiceImpl) ListForJob(db *gorm.DB, jobID string) ([]models.Rating, error) {
	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	ratings, err := s.ratingRepo.ListByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return ratings, nil
}
