package api

import (
	"errors"
	"net/http"

	"paperroom/access-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) DataroomFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	id := c.Param("id")

	var dataroom model.Dataroom
	if err := a.DB.Where("id = ?", id).First(&dataroom).Error; err != nil {
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

		zap.L().Error("Failed to fetch dataroom", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dataroom":         dataroom,
		"requiresPassword": dataroom.Password != nil,
		"requiresEmail":    dataroom.EmailProtected,
	})
}
