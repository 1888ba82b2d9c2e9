package authz

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"teamdash/internal/auth"
	"teamdash/internal/models"
	"teamdash/internal/repository"
)

var (
	// ErrUnauthenticated covers every failure on the token path: missing
	// token, bad signature, expiry, and a subject that no longer exists.
	// The cause is deliberately not distinguishable by the caller.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when an authenticated principal is not
	// permitted to perform the requested action.
	ErrForbidden = errors.New("access denied")
)

// Action identifies an operation submitted to the gate.
type Action int

const (
	ActionTaskRead Action = iota
	ActionTaskCreate
	ActionTaskUpdate
	ActionTaskDelete
	ActionTeamUpdate
	ActionTeamDelete
)

// Resource is a snapshot of the entity an action targets. Task actions set
// Task (and NewTeamID for create/reassignment); team actions set TeamID.
type Resource struct {
	Task      *models.Task
	TeamID    uint64
	NewTeamID *uint64
}

// Gate composes the token service, the user collection, and the ownership
// resolver into a single decision function. It performs no mutation itself;
// callers apply mutations only after an allowed decision.
type Gate struct {
	tokens   *auth.TokenService
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
	resolver *Resolver
}

// NewGate creates a new Gate.
func NewGate(tokens *auth.TokenService, userRepo repository.UserRepository, teamRepo repository.TeamRepository, resolver *Resolver) *Gate {
	return &Gate{
		tokens:   tokens,
		userRepo: userRepo,
		teamRepo: teamRepo,
		resolver: resolver,
	}
}

// AuthenticateToken validates a presented bearer token and resolves its
// subject to a live user. Any failure collapses to ErrUnauthenticated.
func (g *Gate) AuthenticateToken(tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := g.tokens.Validate(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := g.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	return user, nil
}

// Authorize decides whether the principal may perform the action on the
// resource. A nil return means allowed. Denials are always ErrForbidden;
// structural validation failures from the resolver pass through unchanged.
func (g *Gate) Authorize(principal *models.User, action Action, res Resource) error {
	switch action {
	case ActionTaskRead:
		ok, err := g.resolver.CanView(res.Task, principal.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
		return nil

	case ActionTaskCreate:
		// The principal always creates as owner; only the assignment has
		// to be structurally valid.
		return g.resolver.ValidateAssignment(principal.ID, res.NewTeamID)

	case ActionTaskUpdate, ActionTaskDelete:
		ok, err := g.resolver.CanMutate(res.Task, principal.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
		if res.NewTeamID != nil {
			return g.resolver.ValidateAssignment(res.Task.OwnerID, res.NewTeamID)
		}
		return nil

	case ActionTeamUpdate, ActionTeamDelete:
		member, err := g.teamRepo.FindMember(res.TeamID, principal.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return fmt.Errorf("failed to check team membership: %w", err)
		}
		if !member.IsModerator {
			return ErrForbidden
		}
		return nil

	default:
		return ErrForbidden
	}
}
