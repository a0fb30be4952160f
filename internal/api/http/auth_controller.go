package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/gatherly/internal/service"
)

type AuthController struct {
	users     service.UserInteractor
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthController(users service.UserInteractor, jwtSecret string, tokenTTL time.Duration) *AuthController {
	return &AuthController{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Login provisions (or refreshes) the account for an identity the OAuth
// frontend already verified and sets the JWT cookie the rest of the API
// authenticates with.
func (c *AuthController) Login(ctx *gin.Context) {
	type request struct {
		FullName   string `json:"full_name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		ProfilePic string `json:"profile_pic"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := c.users.GetOrCreateByEmail(ctx.Request.Context(), req.FullName, req.Email, req.ProfilePic)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := issueToken(user.ID, c.jwtSecret, c.tokenTTL)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(authCookieName, token, int(c.tokenTTL.Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := c.users.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(authCookieName, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "logout successful"})
}
