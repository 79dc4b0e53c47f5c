package api

import (
	"errors"
	"net/http"

	"paperroom/access-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type updateNameBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DataroomUpdateName renames a dataroom. Only the owner may do this; a
// logged-in user touching someone else's dataroom gets the same 401 as an
// anonymous caller.
func (a *API) DataroomUpdateName(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id := c.Param("id")

	var data updateNameBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Name field can't be empty",
			"requestID": requestID,
		})
		return
	}

	var ownerID string

	err := a.DB.
		Model(model.Dataroom{}).
		Where("id = ?", id).
		Select("owner_id").
		First(&ownerID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Object not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch dataroom owner", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if ownerID != userID {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized access",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Model(model.Dataroom{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        data.Name,
			"description": data.Description,
		}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update dataroom", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Dataroom name/description updated!",
		"requestID": requestID,
	})
}
