package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// UserHandler serves self-service profile routes and the administrator's
// user management routes.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email,max=50"`
}

type updateEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email,max=50"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

type changeRoleRequest struct {
	NewRole string `json:"newRole" validate:"required"`
}

// Profile handles GET /api/users/profile.
//
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=userResponse}
// @Failure      401  {object}  envelope
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.service.Profile(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "profile retrieved", toUserResponse(u))
}

// UpdateProfile handles PUT /api/users/profile. A changed email invalidates
// the current token, whose subject is the old email.
//
// @Summary      Update name and email
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New profile"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.UpdateProfile(c.Request().Context(), p, req.Name, req.Email)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "profile updated", toUserResponse(u))
}

// UpdateEmail handles PATCH /api/users/update-email.
//
// @Summary      Change the caller's email
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateEmailRequest  true  "New email"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/users/update-email [patch]
func (h *UserHandler) UpdateEmail(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.UpdateEmail(c.Request().Context(), p, req.NewEmail)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "email updated", toUserResponse(u))
}

// UpdatePassword handles PATCH /api/users/update-password.
//
// @Summary      Change the caller's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /api/users/update-password [patch]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdatePassword(c.Request().Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, "password updated", nil)
}

// DeleteAccount handles DELETE /api/users/delete-account.
//
// @Summary      Delete the caller's account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Router       /api/users/delete-account [delete]
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteOwnAccount(c.Request().Context(), p); err != nil {
		return err
	}
	return success(c, http.StatusOK, "account deleted", nil)
}

// ListUsers handles GET /api/admin/list-user.
//
// @Summary      List every user with their server accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "0-based page"
// @Param        size       query     int     false  "page size (max 100)"
// @Param        sortBy     query     string  false  "id, name, email or role"
// @Param        direction  query     string  false  "asc or desc"
// @Success      200        {object}  envelope{data=[]userResponse}
// @Failure      403        {object}  envelope
// @Router       /api/admin/list-user [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	return h.list(c, "")
}

// ListStudents handles GET /api/admin/list-mahasiswa.
//
// @Summary      List students with their server accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "0-based page"
// @Param        size       query     int     false  "page size (max 100)"
// @Param        sortBy     query     string  false  "id, name, email or role"
// @Param        direction  query     string  false  "asc or desc"
// @Success      200        {object}  envelope{data=[]userResponse}
// @Failure      403        {object}  envelope
// @Router       /api/admin/list-mahasiswa [get]
func (h *UserHandler) ListStudents(c echo.Context) error {
	return h.list(c, domain.RoleStudent)
}

// ListAdministrators handles GET /api/admin/list-administrator.
//
// @Summary      List administrators
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "0-based page"
// @Param        size       query     int     false  "page size (max 100)"
// @Param        sortBy     query     string  false  "id, name, email or role"
// @Param        direction  query     string  false  "asc or desc"
// @Success      200        {object}  envelope{data=[]userResponse}
// @Failure      403        {object}  envelope
// @Router       /api/admin/list-administrator [get]
func (h *UserHandler) ListAdministrators(c echo.Context) error {
	return h.list(c, domain.RoleAdministrator)
}

func (h *UserHandler) list(c echo.Context, role domain.Role) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	pageReq, err := pageQuery(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListUsers(c.Request().Context(), p, ports.ListUsersFilter{Role: role, PageRequest: pageReq})
	if err != nil {
		return err
	}

	items := make([]userResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, toUserWithAccounts(item))
	}
	return paged(c, "users retrieved", items, page.Page, page.Size, page.Total, page.TotalPages)
}

// AddAdministrator handles POST /api/admin/add.
//
// @Summary      Create an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Administrator details"
// @Success      201   {object}  envelope{data=userResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/admin/add [post]
func (h *UserHandler) AddAdministrator(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.AddAdministrator(c.Request().Context(), p, ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "administrator added", toUserResponse(u))
}

// DeleteUser handles DELETE /api/admin/delete-user?email=.
//
// @Summary      Delete a user by email
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Email of the user to delete"
// @Success      200    {object}  envelope
// @Failure      403    {object}  envelope
// @Failure      404    {object}  envelope
// @Router       /api/admin/delete-user [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	email := c.QueryParam("email")
	if email == "" {
		return domain.Validationf("email is required")
	}
	if err := h.service.DeleteUser(c.Request().Context(), p, email); err != nil {
		return err
	}
	return success(c, http.StatusOK, "user deleted", nil)
}

// ChangeRole handles PATCH /api/admin/change-role/:id.
//
// @Summary      Change another user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/admin/change-role/{id} [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.ChangeRole(c.Request().Context(), p, c.Param("id"), req.NewRole)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "role changed", toUserResponse(u))
}
