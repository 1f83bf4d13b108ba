package handlers

import (
	"net/http"

	"roamstay/middleware"
	userSvc "roamstay/services/user"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

// Register creates a new account.
func Register(c *gin.Context) {
	var input userSvc.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	user, err := UserService.Register(input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for a bearer token.
func Login(c *gin.Context) {
	var input userSvc.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	user, token, err := UserService.Login(input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// CurrentUser returns the authenticated account.
func CurrentUser(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	user, err := UserService.Get(actor.ID)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
