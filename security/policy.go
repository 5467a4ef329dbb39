package security

import (
	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/utils"
)

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleConsultant = "consultant"
)

// Actor is the authenticated caller, extracted from the JWT claims.
type Actor struct {
	UserID string
	Roles  []string
}

func (a Actor) HasRole(role string) bool {
	return utils.Contains(a.Roles, role)
}

// Elevated reports whether the actor holds an admin or manager role.
func (a Actor) Elevated() bool {
	return a.HasRole(RoleAdmin) || a.HasRole(RoleManager)
}

type Action string

const (
	ActionTicketEdit    Action = "ticket.edit"
	ActionTicketManage  Action = "ticket.manage"
	ActionTicketLogWork Action = "ticket.log_work"
	ActionTicketComment Action = "ticket.comment"
	ActionTaskEdit      Action = "task.edit"
	ActionTaskManage    Action = "task.manage"
	ActionBenchmarkEdit Action = "benchmark.edit"
	ActionTimecardAudit Action = "timecard.audit"
)

// Authorize is the single policy-evaluation point: (actor, action, resource
// owner) -> allow/deny. Handlers never do role checks of their own.
func Authorize(actor Actor, action Action, ownerUserID string) error {
	switch action {
	case ActionTicketEdit, ActionTaskEdit:
		if actor.Elevated() || actor.UserID == ownerUserID {
			return nil
		}
	case ActionTicketComment:
		if actor.UserID != "" {
			return nil
		}
	case ActionTicketManage, ActionTicketLogWork, ActionTaskManage,
		ActionBenchmarkEdit, ActionTimecardAudit:
		if actor.Elevated() {
			return nil
		}
	}
	return core.NewForbidden("not allowed to perform %s", action)
}
