package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wigglebyte/console/internal/app/api/middleware"
	"github.com/wigglebyte/console/internal/app/service/user"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/response"
)

// @Summary      Get profile
// @Tags         User
// @Produce      json
// @Success      200  {object}  handlers.RespUser
// @Router       /api/v1/user/profile [get]
func ApiGetProfile(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.GetProfile(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

type upsertProfileRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// @Summary      Upsert profile
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body upsertProfileRequest true "Profile fields"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/user/profile [post]
func ApiUpsertProfile(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		uid := middleware.UserID(c)

		existing, err := svc.GetProfile(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		u := existing
		if u == nil {
			u = &models.User{UID: uid}
		}
		if req.Email != "" {
			u.Email = req.Email
		}
		if req.Name != "" {
			u.Name = req.Name
		}
		if req.Company != "" {
			u.Company = req.Company
		}
		if err := svc.UpsertProfile(c.Request.Context(), u); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Mark email verified
// @Tags         User
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/user/email-verified [post]
func ApiMarkEmailVerified(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkEmailVerified(c.Request.Context(), middleware.UserID(c)); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterUserRoutes(r gin.IRouter, svc *user.Service) {
	r.GET("/user/profile", ApiGetProfile(svc))
	r.POST("/user/profile", ApiUpsertProfile(svc))
	r.POST("/user/email-verified", ApiMarkEmailVerified(svc))
}
