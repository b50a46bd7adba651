package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"arenabet/events"
	"arenabet/models"
)

// GuardService owns the process-wide reentrancy gate, the pause flag and
// the administrative allow-lists. Every mutating operation enters the
// gate on entry and exits on return; a nested mutating call observed
// while the gate is held fails immediately.
type GuardService struct {
	guard     GuardRepository
	publisher EventPublisher
}

// NewGuardService creates a guard service.
func NewGuardService(guard GuardRepository, publisher EventPublisher) *GuardService {
	return &GuardService{guard: guard, publisher: publisher}
}

// Enter checks the pause flag and acquires the reentrancy gate.
func (s *GuardService) Enter(ctx context.Context) error {
	paused, err := s.guard.Paused(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pause flag: %w", err)
	}
	if paused {
		return models.ErrPaused
	}

	locked, err := s.guard.Locked(ctx)
	if err != nil {
		return fmt.Errorf("failed to read reentrancy flag: %w", err)
	}
	if locked {
		return models.ErrReentrancy
	}
	return s.guard.SetLocked(ctx, true)
}

// Exit releases the reentrancy gate. Failure to release is logged rather
// than returned so it never masks the operation's own result.
func (s *GuardService) Exit(ctx context.Context) {
	if err := s.guard.SetLocked(ctx, false); err != nil {
		log.WithError(err).Error("Failed to release reentrancy gate")
	}
}

// RequireRole fails with ErrUnauthorized unless addr holds the role.
func (s *GuardService) RequireRole(ctx context.Context, role, addr string) error {
	ok, err := s.guard.HasRole(ctx, role, addr)
	if err != nil {
		return fmt.Errorf("failed to check role %s: %w", role, err)
	}
	if !ok {
		return fmt.Errorf("%s lacks role %s: %w", addr, role, models.ErrUnauthorized)
	}
	return nil
}

// SettlerCapability issues a settlement capability if addr is on the
// authorized-settler allow-list.
func (s *GuardService) SettlerCapability(ctx context.Context, addr string) (models.SettlerCapability, error) {
	ok, err := s.guard.IsAuthorizedSettler(ctx, addr)
	if err != nil {
		return models.SettlerCapability{}, fmt.Errorf("failed to check settler allow-list: %w", err)
	}
	if !ok {
		return models.SettlerCapability{}, fmt.Errorf("%s is not an authorized settler: %w", addr, models.ErrUnauthorized)
	}
	return models.NewSettlerCapability(addr), nil
}

// GrantRole adds addr to a role allow-list. Admin only.
func (s *GuardService) GrantRole(ctx context.Context, caller, role, addr string) error {
	if err := s.Enter(ctx); err != nil {
		return err
	}
	defer s.Exit(ctx)

	if err := s.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return err
	}
	return s.guard.SetRole(ctx, role, addr, true)
}

// RevokeRole removes addr from a role allow-list. Admin only.
func (s *GuardService) RevokeRole(ctx context.Context, caller, role, addr string) error {
	if err := s.Enter(ctx); err != nil {
		return err
	}
	defer s.Exit(ctx)

	if err := s.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return err
	}
	return s.guard.SetRole(ctx, role, addr, false)
}

// AuthorizeSettler adds addr to the settler allow-list. Admin only.
func (s *GuardService) AuthorizeSettler(ctx context.Context, caller, addr string) error {
	if err := s.Enter(ctx); err != nil {
		return err
	}
	defer s.Exit(ctx)

	if err := s.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return err
	}
	return s.guard.SetAuthorizedSettler(ctx, addr, true)
}

// DeauthorizeSettler removes addr from the settler allow-list. Admin only.
func (s *GuardService) DeauthorizeSettler(ctx context.Context, caller, addr string) error {
	if err := s.Enter(ctx); err != nil {
		return err
	}
	defer s.Exit(ctx)

	if err := s.RequireRole(ctx, models.RoleAdmin, caller); err != nil {
		return err
	}
	return s.guard.SetAuthorizedSettler(ctx, addr, false)
}

// Pause sets the pause flag. Pauser role only. Pause and Unpause skip
// the gate: Unpause has to work while the pause flag is set.
func (s *GuardService) Pause(ctx context.Context, caller string) error {
	if err := s.RequireRole(ctx, models.RolePauser, caller); err != nil {
		return err
	}
	if err := s.guard.SetPaused(ctx, true); err != nil {
		return err
	}
	return s.publisher.Publish(events.PauseChangedEvent{Paused: true, By: caller})
}

// Unpause clears the pause flag. Pauser role only.
func (s *GuardService) Unpause(ctx context.Context, caller string) error {
	if err := s.RequireRole(ctx, models.RolePauser, caller); err != nil {
		return err
	}
	if err := s.guard.SetPaused(ctx, false); err != nil {
		return err
	}
	return s.publisher.Publish(events.PauseChangedEvent{Paused: false, By: caller})
}

// Bootstrap seeds the initial admin and pauser grants. Called once at
// startup from configuration; a no-op for an empty address.
func (s *GuardService) Bootstrap(ctx context.Context, adminAddr string) error {
	if adminAddr == "" {
		return nil
	}
	if err := s.guard.SetRole(ctx, models.RoleAdmin, adminAddr, true); err != nil {
		return err
	}
	return s.guard.SetRole(ctx, models.RolePauser, adminAddr, true)
}
