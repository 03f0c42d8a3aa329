package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/http/controller/dto"
	"github.com/tnqbao/gau-document-service/utils"
)

func (ctrl *Controller) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	_, exists, err := ctrl.Repository.UserRepo.FindByEmail(req.Email)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Error checking email existence: %v", err)
		utils.JSON500(c, "Error checking email existence")
		return
	}
	if exists {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] User with email '%s' already exists", req.Email)
		utils.JSON409(c, "User with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to hash password")
		utils.JSON500(c, "Failed to process password")
		return
	}

	role := entity.Role(req.Role)
	if role == "" {
		role = entity.RoleViewer
	}

	user := &entity.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Name:     req.Name,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}

	if err := ctrl.Repository.UserRepo.Create(user); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to create user: %v", err)
		utils.JSON500(c, "Failed to create user")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Auth] User registered: %s", user.ID)
	utils.JSON201(c, gin.H{
		"message": "User signed up successfully",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	user, found, err := ctrl.Repository.UserRepo.FindByEmail(req.Email)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Error looking up user: %v", err)
		utils.JSON500(c, "Error looking up user")
		return
	}
	if !found || !utils.CheckPassword(user.Password, req.Password) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] Invalid credentials for '%s'", req.Email)
		utils.JSON401(c, "Invalid email or password")
		return
	}
	if !user.IsActive {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] Inactive user '%s' attempted login", req.Email)
		utils.JSON401(c, "Account is deactivated")
		return
	}

	token, err := utils.GenerateToken(user, ctrl.Config.EnvConfig)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to sign token")
		utils.JSON500(c, "Failed to sign token")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Auth] User logged in: %s", user.ID)
	utils.JSON200(c, gin.H{
		"access_token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
