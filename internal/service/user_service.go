package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/validation"
)

// userService is the concrete implementation of UserService
type userService struct {
	*core
	log zerolog.Logger
}

func newUserService(c *core, log zerolog.Logger) *userService {
	return &userService{
		core: c,
		log:  log.With().Str("service", "users").Logger(),
	}
}

func (s *userService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.UserView, error) {
	if err := validation.ValidateCreateUser(req); err != nil {
		return nil, err
	}

	user := &models.User{Email: req.Email, Name: req.Name, Bio: req.Bio}
	if err := s.stores.A.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("User created")
	return s.enrich.EnrichUser(ctx, user)
}

func (s *userService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.stores.A.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichUsers(ctx, users)
}

func (s *userService) find(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.stores.A.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFound(models.KindUser, id)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich.EnrichUser(ctx, user)
}

func (s *userService) GetWithComments(ctx context.Context, id int64) (*models.UserWithComments, error) {
	return s.enrich.ResolveUserComments(ctx, id)
}

func (s *userService) Update(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.UserView, error) {
	if err := validation.ValidateUpdateUser(req); err != nil {
		return nil, err
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if err := s.stores.A.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	return s.enrich.EnrichUser(ctx, user)
}

// Delete removes the user from Store A. Store A refuses while the user still
// authors posts. The user's comments in Store B are only removed when the
// cross-store cascade is enabled.
func (s *userService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	deleted, err := s.stores.A.Users().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFound(models.KindUser, id)
	}

	event := s.log.Info().Int64("user_id", id)
	if s.cascade {
		removed, err := s.stores.B.Comments().DeleteByUser(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("User deleted but comment cleanup failed")
			return err
		}
		event = event.Int64("comments_removed", removed)
	}
	event.Msg("User deleted")
	return nil
}
