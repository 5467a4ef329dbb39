package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meridianadvisory.com/backoffice/core"
)

func TestAuthorize(t *testing.T) {
	admin := Actor{UserID: "u-admin", Roles: []string{RoleAdmin}}
	manager := Actor{UserID: "u-mgr", Roles: []string{RoleManager}}
	consultant := Actor{UserID: "u-con", Roles: []string{RoleConsultant}}
	anonymous := Actor{}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		owner   string
		allowed bool
	}{
		{"admin manages any ticket", admin, ActionTicketManage, "someone-else", true},
		{"manager logs work", manager, ActionTicketLogWork, "someone-else", true},
		{"consultant cannot log work", consultant, ActionTicketLogWork, "u-con", false},
		{"creator edits own ticket", consultant, ActionTicketEdit, "u-con", true},
		{"non-creator cannot edit ticket", consultant, ActionTicketEdit, "someone-else", false},
		{"admin edits any ticket", admin, ActionTicketEdit, "someone-else", true},
		{"any authenticated user comments", consultant, ActionTicketComment, "", true},
		{"anonymous cannot comment", anonymous, ActionTicketComment, "", false},
		{"creator edits own task", consultant, ActionTaskEdit, "u-con", true},
		{"consultant cannot manage tasks", consultant, ActionTaskManage, "u-con", false},
		{"manager edits benchmarks", manager, ActionBenchmarkEdit, "", true},
		{"consultant cannot audit timecards", consultant, ActionTimecardAudit, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.action, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, core.KindForbidden, core.KindOf(err))
			}
		})
	}
}

func TestActorElevated(t *testing.T) {
	assert.True(t, Actor{Roles: []string{RoleAdmin}}.Elevated())
	assert.True(t, Actor{Roles: []string{RoleManager, RoleConsultant}}.Elevated())
	assert.False(t, Actor{Roles: []string{RoleConsultant}}.Elevated())
	assert.False(t, Actor{}.Elevated())
}
