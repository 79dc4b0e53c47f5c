package api

import (
	"errors"
	"net/http"

	"paperroom/access-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LinkFetch returns the link attributes the viewer page needs to decide
// which access form to render. The password hash never leaves the server;
// clients only learn whether a password is required.
func (a *API) LinkFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	linkID := c.Param("linkID")

	var link model.Link
	if err := a.DB.Where("id = ?", linkID).First(&link).Error; err != nil {
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

		zap.L().Error("Failed to fetch link", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"link":             link,
		"requiresPassword": link.Password != nil,
		"requiresEmail":    link.EmailProtected,
	})
}
