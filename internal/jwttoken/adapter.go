package jwttoken

import (
	id "schemeteller/pkg/domain"
	dErrors "schemeteller/pkg/domain-errors"
	authmw "schemeteller/pkg/platform/middleware/auth"
)

// MiddlewareAdapter converts validated JWT claims into the shape the auth
// middleware expects, parsing the embedded IDs at the trust boundary.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role := id.Role(claims.Role)
	if role != id.RoleUser && role != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &authmw.Claims{UserID: userID, Role: role, JTI: claims.RegisteredClaims.ID}, nil
}
