package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/entities"
)

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

type saveUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Img   string `json:"img"`
}

// SaveUser stores a user profile unless the email is already known, in
// which case the existing profile is returned unchanged. New profiles are
// always regular users; a role in the body is ignored.
// PUT /user
func (uc *UsersController) SaveUser(c *gin.Context) {
	var req saveUserRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		respondBadRequest(c, "email is required")
		return
	}
	existing, res, err := uc.store.SaveIfAbsent(c.Request.Context(), entities.User{
		Name:  req.Name,
		Email: req.Email,
		Img:   req.Img,
		Role:  entities.RoleUser,
	})
	if err != nil {
		respondInternalError(c, err, "save user")
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{"message": "user already exists", "user": existing})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListUsers returns every account.
// GET /users
func (uc *UsersController) ListUsers(c *gin.Context) {
	users, err := uc.store.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns the account with the given email.
// GET /user/:email
func (uc *UsersController) GetUser(c *gin.Context) {
	user, err := uc.store.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateRoleRequest struct {
	Role entities.Role `json:"role"`
}

// UpdateRole changes an account's role.
// PATCH /user/role/:email
func (uc *UsersController) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Role.Valid() {
		respondBadRequest(c, "role must be admin or user")
		return
	}

	res, err := uc.store.UpdateRole(c.Request.Context(), c.Param("email"), req.Role)
	if err != nil {
		respondInternalError(c, err, "update role")
		return
	}
	c.JSON(http.StatusOK, res)
}
