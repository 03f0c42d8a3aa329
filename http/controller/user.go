package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/http/controller/dto"
	"github.com/tnqbao/gau-document-service/utils"
)

func (ctrl *Controller) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}
	if actor.Role != entity.RoleAdmin {
		utils.JSON403(c, "Forbidden: requires admin role")
		return
	}

	users, err := ctrl.Repository.UserRepo.FindAll()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to list users: %v", err)
		utils.JSON500(c, "Failed to list users")
		return
	}

	utils.JSON200(c, gin.H{"users": users})
}

func (ctrl *Controller) GetUserByID(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid user id format")
		return
	}

	// Users may read themselves; everything else requires admin.
	if actor.Role != entity.RoleAdmin && actor.ID != userID {
		utils.JSON403(c, "Forbidden: you can only view your own profile")
		return
	}

	user, found, err := ctrl.Repository.UserRepo.FindByID(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to load user %s: %v", userID, err)
		utils.JSON500(c, "Failed to load user")
		return
	}
	if !found {
		utils.JSON404(c, "User not found")
		return
	}

	utils.JSON200(c, gin.H{"user": user})
}

func (ctrl *Controller) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}
	if actor.Role != entity.RoleAdmin {
		utils.JSON403(c, "Forbidden: requires admin role")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid user id format")
		return
	}

	var req dto.UpdateUserRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	user, found, err := ctrl.Repository.UserRepo.FindByID(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to load user %s: %v", userID, err)
		utils.JSON500(c, "Failed to load user")
		return
	}
	if !found {
		utils.JSON404(c, "User not found")
		return
	}

	if req.Email != nil {
		other, exists, err := ctrl.Repository.UserRepo.FindByEmail(*req.Email)
		if err != nil {
			utils.JSON500(c, "Error checking email existence")
			return
		}
		if exists && other.ID != userID {
			utils.JSON409(c, "User with this email already exists")
			return
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.JSON500(c, "Failed to process password")
			return
		}
		user.Password = hashed
	}
	if req.Role != nil {
		user.Role = entity.Role(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := ctrl.Repository.UserRepo.Update(ctx, user); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to update user %s: %v", userID, err)
		utils.JSON500(c, "Failed to update user")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[User] Updated user: %s", userID)
	utils.JSON200(c, gin.H{"user": user})
}

func (ctrl *Controller) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}
	if actor.Role != entity.RoleAdmin {
		utils.JSON403(c, "Forbidden: requires admin role")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid user id format")
		return
	}

	_, found, err := ctrl.Repository.UserRepo.FindByID(ctx, userID)
	if err != nil {
		utils.JSON500(c, "Failed to load user")
		return
	}
	if !found {
		utils.JSON404(c, "User not found")
		return
	}

	if err := ctrl.Repository.UserRepo.Delete(ctx, userID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to delete user %s: %v", userID, err)
		utils.JSON500(c, "Failed to delete user")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[User] Deleted user: %s", userID)
	utils.JSON200(c, gin.H{"message": "User deleted successfully"})
}
