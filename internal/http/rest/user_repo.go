package rest

import (
	"context"
	"net/http"

	"github.com/roamark/roamark_api/internal/model"
	"github.com/roamark/roamark_api/util"
)

func (api *API) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	stmt := `SELECT id, email, username, role, created_at
			 FROM users
			 WHERE id = $1`

	var user model.User
	err := api.DB.QueryRow(ctx, stmt, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// requestUser loads the authenticated user attached to the request by
// RequireLogin.
func (api *API) requestUser(r *http.Request) (model.User, error) {
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return model.User{}, err
	}
	return api.GetUserByID(r.Context(), userID.String())
}
