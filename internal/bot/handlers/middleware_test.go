package handlers_test

import (
	"context"
	"errors"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pentabot/pentabot/internal/bot/handlers"
)

// fakeMemberChecker returns a scripted membership status or error.
type fakeMemberChecker struct {
	memberType models.ChatMemberType
	err        error

	lastChatID any
	lastUserID int64
}

func (f *fakeMemberChecker) GetChatMember(_ context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error) {
	f.lastChatID = params.ChatID
	f.lastUserID = params.UserID
	if f.err != nil {
		return nil, f.err
	}
	return &models.ChatMember{Type: f.memberType}, nil
}

func TestCheckMembership(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		memberType    models.ChatMemberType
		lookupErr     error
		expectedAdmit bool
		expectedErr   bool
	}{
		{
			name:          "regular member is admitted",
			memberType:    models.ChatMemberTypeMember,
			expectedAdmit: true,
		},
		{
			name:          "administrator is admitted",
			memberType:    models.ChatMemberTypeAdministrator,
			expectedAdmit: true,
		},
		{
			name:          "owner is admitted",
			memberType:    models.ChatMemberTypeOwner,
			expectedAdmit: true,
		},
		{
			name:          "restricted member is admitted",
			memberType:    models.ChatMemberTypeRestricted,
			expectedAdmit: true,
		},
		{
			name:          "left user is denied",
			memberType:    models.ChatMemberTypeLeft,
			expectedAdmit: false,
		},
		{
			name:          "lookup failure denies",
			lookupErr:     errors.New("telegram api unavailable"),
			expectedAdmit: false,
			expectedErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeMemberChecker{memberType: tc.memberType, err: tc.lookupErr}

			admitted, err := handlers.CheckMembership(context.Background(), fake, "@channel", 42)
			if admitted != tc.expectedAdmit {
				t.Errorf("expected admitted=%v, got %v", tc.expectedAdmit, admitted)
			}
			if (err != nil) != tc.expectedErr {
				t.Errorf("expected err=%v, got %v", tc.expectedErr, err)
			}
			if fake.lastUserID != 42 {
				t.Errorf("expected lookup for user 42, got %d", fake.lastUserID)
			}
		})
	}
}
