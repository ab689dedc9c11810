package http

import (
	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
)

func toAccountResponse(v domain.AccountView) accountsdk.AccountResponse {
	return accountsdk.AccountResponse{
		ID:          v.ID,
		Name:        v.DisplayName,
		Email:       v.Email,
		Role:        v.Role.String(),
		Status:      v.Status.String(),
		Provider:    v.Provider,
		CreatedAt:   v.CreatedAt,
		LastLoginAt: v.LastLoginAt,
	}
}

func toPageResponse(p domain.Page[domain.AccountView]) accountsdk.PageResponse {
	out := accountsdk.PageResponse{
		Content:       make([]accountsdk.AccountResponse, len(p.Content)),
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
	}
	for i, v := range p.Content {
		out.Content[i] = toAccountResponse(v)
	}
	return out
}

func toReferences(refs []domain.Reference) []accountsdk.ReferenceResponse {
	out := make([]accountsdk.ReferenceResponse, len(refs))
	for i, ref := range refs {
		out[i] = accountsdk.ReferenceResponse{ID: ref.ID, Name: ref.Name}
	}
	return out
}
