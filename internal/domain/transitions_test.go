package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_Table(t *testing.T) {
	tests := []struct {
		from   BookingStatus
		action Action
		want   BookingStatus
	}{
		{StatusPending, ActionAccept, StatusAccepted},
		{StatusPending, ActionReject, StatusRejected},
		{StatusPending, ActionProposeAlternative, StatusAlternativeProposed},
		{StatusPending, ActionCancel, StatusCancelled},
		{StatusAlternativeProposed, ActionAcceptAlternative, StatusAlternativeAccepted},
		{StatusAlternativeProposed, ActionExpireAlternative, StatusAlternativeExpired},
		{StatusAlternativeProposed, ActionCancel, StatusCancelled},
		{StatusAccepted, ActionStart, StatusInProgress},
		{StatusAccepted, ActionCancel, StatusCancelled},
		{StatusAlternativeAccepted, ActionStart, StatusInProgress},
		{StatusAlternativeAccepted, ActionCancel, StatusCancelled},
		{StatusInProgress, ActionComplete, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Every (status, action) pair outside the table must be rejected.
func TestNextStatus_Closure(t *testing.T) {
	allowed := 0
	for _, status := range AllStatuses {
		for _, action := range Actions() {
			next, err := NextStatus(status, action)
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidStateTransition)
				assert.Contains(t, err.Error(), string(status))
				assert.Contains(t, err.Error(), string(action))
				assert.Empty(t, next)
				continue
			}
			allowed++
			assert.True(t, next.IsValid())
		}
	}
	assert.Equal(t, 12, allowed)
}

func TestNextStatus_TerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range TerminalStatuses {
		for _, action := range Actions() {
			_, err := NextStatus(status, action)
			assert.ErrorIs(t, err, ErrInvalidStateTransition, "%s -> %s", status, action)
		}
	}
}

func TestNextStatus_InProgressCannotBeCancelled(t *testing.T) {
	_, err := NextStatus(StatusInProgress, ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestAuthorize(t *testing.T) {
	booking := &Booking{ID: 1, CustomerID: 10, VendorID: 20}

	tests := []struct {
		name    string
		action  Action
		actor   Actor
		wantErr bool
	}{
		{name: "vendor accepts own booking", action: ActionAccept, actor: Actor{UserID: 20, Role: RoleVendor}},
		{name: "other vendor cannot accept", action: ActionAccept, actor: Actor{UserID: 21, Role: RoleVendor}, wantErr: true},
		{name: "customer cannot accept", action: ActionAccept, actor: Actor{UserID: 10, Role: RoleCustomer}, wantErr: true},
		{name: "customer accepts alternative", action: ActionAcceptAlternative, actor: Actor{UserID: 10, Role: RoleCustomer}},
		{name: "vendor cannot accept alternative", action: ActionAcceptAlternative, actor: Actor{UserID: 20, Role: RoleVendor}, wantErr: true},
		{name: "customer cancels", action: ActionCancel, actor: Actor{UserID: 10, Role: RoleCustomer}},
		{name: "vendor cancels", action: ActionCancel, actor: Actor{UserID: 20, Role: RoleVendor}},
		{name: "stranger cannot cancel", action: ActionCancel, actor: Actor{UserID: 99, Role: RoleCustomer}, wantErr: true},
		{name: "system expires", action: ActionExpireAlternative, actor: SystemActor()},
		{name: "vendor cannot expire", action: ActionExpireAlternative, actor: Actor{UserID: 20, Role: RoleVendor}, wantErr: true},
		{name: "unknown role", action: ActionCancel, actor: Actor{UserID: 10, Role: "admin"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.action, tt.actor, booking)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotAuthorized)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNotificationRecipients(t *testing.T) {
	b := &Booking{ID: 1, CustomerID: 10, VendorID: 20}
	customer := Actor{UserID: 10, Role: RoleCustomer}
	vendor := Actor{UserID: 20, Role: RoleVendor}

	assert.Equal(t, []Actor{vendor}, NotificationRecipients(ActionRequest, b, customer))
	assert.Equal(t, []Actor{customer}, NotificationRecipients(ActionAccept, b, vendor))
	assert.Equal(t, []Actor{vendor}, NotificationRecipients(ActionCancel, b, customer))
	assert.Equal(t, []Actor{customer}, NotificationRecipients(ActionCancel, b, vendor))
	assert.Equal(t, []Actor{customer, vendor}, NotificationRecipients(ActionExpireAlternative, b, SystemActor()))
}
