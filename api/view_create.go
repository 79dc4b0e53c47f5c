package api

import (
	"fmt"
	"net/http"
	"time"

	"paperroom/access-api/access"
	"paperroom/access-api/apperr"
	"paperroom/access-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type viewCreateBody struct {
	Identifier string `json:"identifier"`
	Kind       string `json:"kind"`
	Email      string `json:"email"`
}

// ViewCreate grants a viewing session. It trusts that credential checks
// already happened (the verification endpoints are the authority for
// those), but re-derives the policy so archived and expired targets are
// rejected no matter what the caller presents.
func (a *API) ViewCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data viewCreateBody
	if err := c.ShouldBind(&data); err != nil || data.Identifier == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Invalid inputs",
			"requestID": requestID,
		})
		return
	}

	kind, err := service.ParseTargetKind(data.Kind)
	if err != nil {
		abortError(c, err)
		return
	}

	gate, err := a.Gates.Resolve(kind, data.Identifier)
	if err != nil {
		abortError(c, err)
		return
	}

	switch access.Evaluate(gate, time.Now()) {
	case access.RequirementArchived:
		abortError(c, fmt.Errorf("%w: %s", apperr.ErrArchived, data.Identifier))
		return
	case access.RequirementExpired:
		abortError(c, fmt.Errorf("%w: %s", apperr.ErrExpired, data.Identifier))
		return
	}

	viewID, err := a.Views.Grant(kind, data.Identifier, data.Email)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create view", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewId": viewID,
	})
}
