package handler

import (
	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

// --- Wire projections ---

type userResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      string            `json:"role"`
	CreatedAt string            `json:"createdAt,omitempty"`
	Accounts  []accountResponse `json:"serverAccounts,omitempty"`
}

type accountResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ownerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type requestResponse struct {
	ID        string           `json:"id"`
	Purpose   string           `json:"purpose"`
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
	Owner     *ownerResponse   `json:"owner,omitempty"`
	Account   *accountResponse `json:"serverAccount,omitempty"`
}

type loginResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toUserWithAccounts(item ports.UserWithAccounts) userResponse {
	out := toUserResponse(item.User)
	for _, acc := range item.Accounts {
		out.Accounts = append(out.Accounts, toAccountResponse(acc))
	}
	return out
}

func toAccountResponse(acc *domain.ServerAccount) accountResponse {
	return accountResponse{Username: acc.Username, Password: acc.Password}
}

func toRequestResponse(req *domain.ServerRequest) requestResponse {
	return requestResponse{
		ID:        req.ID,
		Purpose:   req.Purpose,
		Status:    string(req.Status),
		Reason:    req.Reason,
		CreatedAt: formatTime(req.CreatedAt),
		UpdatedAt: formatTime(req.UpdatedAt),
	}
}

func toRequestView(v ports.RequestView) requestResponse {
	out := toRequestResponse(v.Request)
	if v.Owner != nil {
		out.Owner = &ownerResponse{ID: v.Owner.ID, Name: v.Owner.Name, Email: v.Owner.Email}
	}
	if v.Account != nil {
		acc := toAccountResponse(v.Account)
		out.Account = &acc
	}
	return out
}

func toRequestPage(page *ports.RequestPage) []requestResponse {
	out := make([]requestResponse, 0, len(page.Items))
	for _, v := range page.Items {
		out = append(out, toRequestView(v))
	}
	return out
}
