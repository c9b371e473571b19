package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/attendance-service/internal/authz"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, callerRole models.UserRole) (*models.Course, error) {
	if !authz.Can(callerRole, authz.OpManageCourses) {
		return nil, ErrForbidden
	}

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// The assigned faculty must exist and hold the faculty role
	isFaculty, err := s.repo.User().HasRole(ctx, nil, req.FacultyID, models.RoleFaculty)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check faculty: %w", err)
	}
	if !isFaculty {
		return nil, NewBusinessRuleError("faculty_required", "courses must be assigned to a faculty member")
	}

	course := &models.Course{
		Name:        req.Name,
		Code:        req.Code,
		FacultyID:   req.FacultyID,
		Description: req.Description,
		IsActive:    true,
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	} else {
		course.Credits = 3
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrCourseNameOrCodeTaken
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("course created", "course_id", course.ID, "code", course.Code)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithFaculty(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, callerRole models.UserRole) (*models.Course, error) {
	if !authz.Can(callerRole, authz.OpManageCourses) {
		return nil, ErrForbidden
	}

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.FacultyID != nil {
		isFaculty, err := s.repo.User().HasRole(ctx, nil, *req.FacultyID, models.RoleFaculty)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to check faculty: %w", err)
		}
		if !isFaculty {
			return nil, NewBusinessRuleError("faculty_required", "courses must be assigned to a faculty member")
		}
		course.FacultyID = *req.FacultyID
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrCourseNameOrCodeTaken
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return course, nil
}

func (s *courseService) Deactivate(ctx context.Context, id uint, callerRole models.UserRole) error {
	if !authz.Can(callerRole, authz.OpManageCourses) {
		return ErrForbidden
	}

	if err := s.repo.Course().Deactivate(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to deactivate course: %w", err)
	}

	s.logger.Info("course deactivated", "course_id", id)
	return nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    filters.Limit,
	}, nil
}

func (s *courseService) GetByFaculty(ctx context.Context, facultyID uint, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().GetByFaculty(ctx, nil, facultyID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty courses: %w", err)
	}

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    filters.Limit,
	}, nil
}
