// Package policy decides which principal may perform which action. It knows
// nothing about transport or storage; callers hand it the principal and, for
// ownership rules, the owner of the resource.
package policy

import (
	"github.com/polstat/server-provisioning/internal/core/domain"
)

// Action names an operation gated by role.
type Action string

const (
	SubmitRequest   Action = "request:submit"
	ListOwnRequests Action = "request:list-own"
	UpdateRequest   Action = "request:update"
	ReleaseRequest  Action = "request:release"
	DeleteOwnUser   Action = "user:delete-self"

	ListAllRequests  Action = "request:list-all"
	ApproveRequest   Action = "request:approve"
	RejectRequest    Action = "request:reject"
	TerminateRequest Action = "request:terminate"
	ManageUsers      Action = "user:manage"
)

var allowedRoles = map[Action]domain.Role{
	SubmitRequest:   domain.RoleStudent,
	ListOwnRequests: domain.RoleStudent,
	UpdateRequest:   domain.RoleStudent,
	ReleaseRequest:  domain.RoleStudent,
	DeleteOwnUser:   domain.RoleStudent,

	ListAllRequests:  domain.RoleAdministrator,
	ApproveRequest:   domain.RoleAdministrator,
	RejectRequest:    domain.RoleAdministrator,
	TerminateRequest: domain.RoleAdministrator,
	ManageUsers:      domain.RoleAdministrator,
}

// Authorize checks the role gate of an action.
func Authorize(p domain.Principal, a Action) error {
	role, ok := allowedRoles[a]
	if !ok || p.Role != role {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeOwned checks the role gate and then requires the principal to own
// the resource, where owner is the owning user.
func AuthorizeOwned(p domain.Principal, a Action, owner *domain.User) error {
	if err := Authorize(p, a); err != nil {
		return err
	}
	if owner == nil || !p.Owns(owner.Email) {
		return domain.ErrNotRequestOwner
	}
	return nil
}

// CanView reports whether p may read a request owned by owner: administrators
// see everything, anyone else only their own.
func CanView(p domain.Principal, owner *domain.User) error {
	if p.IsAdministrator() {
		return nil
	}
	if owner == nil || !p.Owns(owner.Email) {
		return domain.ErrNotRequestOwner
	}
	return nil
}

// AuthorizeUserDeletion lets an administrator delete anyone but themselves.
func AuthorizeUserDeletion(p domain.Principal, target *domain.User) error {
	if err := Authorize(p, ManageUsers); err != nil {
		return err
	}
	if p.Owns(target.Email) {
		return domain.ErrSelfDelete
	}
	return nil
}

// AuthorizeRoleChange lets an administrator change anyone's role but their own.
func AuthorizeRoleChange(p domain.Principal, target *domain.User) error {
	if err := Authorize(p, ManageUsers); err != nil {
		return err
	}
	if p.Owns(target.Email) {
		return domain.ErrSelfRoleChange
	}
	return nil
}
