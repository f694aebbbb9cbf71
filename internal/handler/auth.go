package handler

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *service.UserService
	cookies     *SessionCookies
}

func NewAuthHandler(userService *service.UserService, cookies *SessionCookies) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cookies:     cookies,
	}
}

// Register creates an account from a multipart form carrying the profile and its images
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	avatar, avatarCloser, err := formFile(c, constants.FormFieldAvatar)
	if err != nil {
		bindError(c, ctx, err)
		return
	}
	defer avatarCloser.Close()

	cover, coverCloser, err := formFile(c, constants.FormFieldCoverImage)
	if err != nil {
		bindError(c, ctx, err)
		return
	}
	defer coverCloser.Close()

	logger.InfoWithContext(ctx, "User registration attempt").
		String("username", req.Username).
		Bool("has_avatar", avatar != nil).
		Bool("has_cover", cover != nil).
		Log()

	user, err := h.userService.RegisterUser(ctx, req, avatar, cover)
	if err != nil {
		respondError(c, ctx, err, "Registration failed")
		return
	}

	logger.InfoWithContext(ctx, "User registered").
		UserID(user.ID).
		Log()

	respond(c, http.StatusCreated, user, constants.MsgUserRegistered)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.UserLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	response, err := h.userService.LoginUser(ctx, req)
	if err != nil {
		respondError(c, ctx, err, "Login failed")
		return
	}

	h.cookies.Set(c, response.AccessToken, response.RefreshToken)

	logger.InfoWithContext(ctx, "User logged in successfully").
		UserID(response.User.ID).
		Log()

	respond(c, http.StatusOK, response, constants.MsgUserLoggedIn)
}

// RefreshToken rotates the session pair. The cookie is read first, then the JSON body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	token, _ := c.Cookie(constants.CookieRefreshToken)
	token = strings.TrimSpace(token)
	if token == "" {
		var req dto.RefreshTokenRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBind(&req); err != nil {
				bindError(c, ctx, err)
				return
			}
		}
		token = strings.TrimSpace(req.RefreshToken)
	}

	if token == "" {
		respondError(c, ctx, apperrors.ErrUnauthorized, "Refresh token missing")
		return
	}

	pair, err := h.userService.RefreshAccessToken(ctx, token)
	if err != nil {
		respondError(c, ctx, err, "Token refresh failed")
		return
	}

	h.cookies.Set(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, pair, constants.MsgTokenRefreshed)
}

// Logout revokes the stored refresh token of the guarded user
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	if err := h.userService.LogoutUser(ctx, actorID(c)); err != nil {
		respondError(c, ctx, err, "Logout failed")
		return
	}

	h.cookies.Clear(c)
	respond(c, http.StatusOK, nil, constants.MsgUserLoggedOut)
}
