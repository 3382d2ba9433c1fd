package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	pp "pokemon_portal"
	"pokemon_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

func validationErr(msg string) error { return &service.ValidationError{Msg: msg} }

func validateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", validationErr("username is required")
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return "", validationErr("username must be between 3 and 32 characters")
	}
	return username, nil
}

func validateRegister(in pp.RegisterRequest) (pp.RegisterRequest, error) {
	username, err := validateUsername(in.Username)
	if err != nil {
		return pp.RegisterRequest{}, err
	}
	if in.Password == "" {
		return pp.RegisterRequest{}, validationErr("password is required")
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return pp.RegisterRequest{}, validationErr("password must be between 6 and 72 characters")
	}
	if in.ConfirmPassword == "" {
		return pp.RegisterRequest{}, validationErr("confirmPassword is required")
	}
	in.Username = username
	return in, nil
}

func validateLogin(in pp.LoginRequest) (pp.LoginRequest, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return pp.LoginRequest{}, validationErr("username is required")
	}
	if in.Password == "" {
		return pp.LoginRequest{}, validationErr("password is required")
	}
	return in, nil
}

// @Summary      Register
// @Description  Creates an account. Does not log in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      pokemon_portal.RegisterRequest  true  "new account"
// @Success      201   {object}  pokemon_portal.RegisterResponse
// @Failure      400   {object}  pokemon_portal.ErrorResponse
// @Failure      500   {object}  pokemon_portal.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input pp.RegisterRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "auth_register_bad_body"); !ok {
		return
	}
	input, err := validateRegister(input)
	if err != nil {
		h.respondError(c, "auth_register_invalid", err)
		return
	}

	res, err := h.services.Register(c.Request.Context(), input.Username, input.Password, input.ConfirmPassword)
	if err != nil {
		h.respondError(c, "auth_register_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      pokemon_portal.LoginRequest  true  "credentials"
// @Success      200   {object}  pokemon_portal.LoginResponse
// @Failure      400   {object}  pokemon_portal.ErrorResponse
// @Failure      401   {object}  pokemon_portal.ErrorResponse
// @Failure      500   {object}  pokemon_portal.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input pp.LoginRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "auth_login_bad_body"); !ok {
		return
	}
	input, err := validateLogin(input)
	if err != nil {
		h.respondError(c, "auth_login_invalid", err)
		return
	}

	res, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, "auth_login_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary   Current user
// @Tags      auth
// @Produce   json
// @Success   200  {object}  pokemon_portal.UserProfile
// @Failure   401  {object}  pokemon_portal.ErrorResponse
// @Router    /auth/me [get]
// @Security  BearerAuth
func (h *Handler) me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.unauthorized(c, "auth_me_no_user", nil)
		return
	}
	c.JSON(http.StatusOK, h.services.GetProfile(user))
}
