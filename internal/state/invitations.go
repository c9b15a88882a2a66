package state

import (
	"context"
	"strconv"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/types"
)

// Invitations fetches all team invitations through the cache layer.
func (s *Store) Invitations(ctx context.Context) ([]types.Invitation, error) {
	result, err := s.cache.Query(ctx, "invitations", func(ctx context.Context) (any, error) {
		return s.api.ListInvitations(ctx)
	})
	if err != nil {
		return nil, err
	}
	wire := result.([]api.WireInvitation)

	invitations := make([]types.Invitation, 0, len(wire))
	for _, wi := range wire {
		invitations = append(invitations, invitationFromWire(wi))
	}
	return invitations, nil
}

// SendInvitation invites the email address to the team and invalidates the
// cached invitation list.
func (s *Store) SendInvitation(ctx context.Context, email string) error {
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.api.SendInvitation(ctx, email)
	}, "invitations")
	if err != nil {
		return err
	}

	s.publish(EventInvitationChange, "sent", email)
	return nil
}

// ValidateInvitation checks an invitation token against the backend. The
// result is not cached: a token's validity is checked at most once, right
// before acceptance.
func (s *Store) ValidateInvitation(ctx context.Context, token string) (*types.Invitation, error) {
	wi, err := s.api.ValidateInvitation(ctx, token)
	if err != nil {
		return nil, err
	}
	inv := invitationFromWire(*wi)
	return &inv, nil
}

// AcceptInvitationInput carries the account details for redeeming a token.
type AcceptInvitationInput struct {
	Token    string
	Name     string
	Password string
	Avatar   string
}

// AcceptInvitation redeems an invitation token, which creates the account and
// establishes a session, then fetches the current user into the auth slice.
func (s *Store) AcceptInvitation(ctx context.Context, in AcceptInvitationInput) (*types.User, error) {
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.api.AcceptInvitation(ctx, api.AcceptInvitationRequest{
			Token:    in.Token,
			Name:     in.Name,
			Password: in.Password,
			Avatar:   in.Avatar,
		})
	}, "invitations")
	if err != nil {
		s.setAuthError(displayMessage(err, "Failed to accept invitation"))
		return nil, err
	}

	me, err := s.api.Me(ctx)
	if err != nil {
		s.setAuthError(displayMessage(err, "Failed to accept invitation"))
		return nil, err
	}

	user := userFromWire(me, in.Name, "")
	if user.Avatar == "" {
		user.Avatar = in.Avatar
	}
	s.setAuthenticated(user)
	s.publish(EventAuthChange, "register", user.ID)
	s.publish(EventInvitationChange, "accepted", in.Token)
	return user, nil
}

func invitationFromWire(wi api.WireInvitation) types.Invitation {
	return types.Invitation{
		ID:        wi.ID,
		Email:     wi.Email,
		Token:     wi.Token,
		Status:    types.InvitationStatus(wi.Status),
		CreatedAt: wi.CreatedAt,
		ExpiresAt: wi.ExpiresAt,
	}
}

func itoa64(id int64) string {
	return strconv.FormatInt(id, 10)
}
