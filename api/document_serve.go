package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"paperroom/access-api/access"
	"paperroom/access-api/apperr"
	"paperroom/access-api/model"
	"paperroom/access-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentServe redirects a granted view to a short-lived presigned URL
// for its document. The link policy is re-derived here as well: a link
// archived after the grant stops serving immediately.
func (a *API) DocumentServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	viewID := c.Param("viewID")

	var view model.View
	if err := a.DB.Where("id = ?", viewID).First(&view).Error; err != nil {
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

		zap.L().Error("Failed to fetch view", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	kind := service.TargetKind(view.TargetKind)

	gate, err := a.Gates.Resolve(kind, view.Identifier)
	if err != nil {
		abortError(c, err)
		return
	}

	switch access.Evaluate(gate, time.Now()) {
	case access.RequirementArchived:
		abortError(c, fmt.Errorf("%w: %s", apperr.ErrArchived, view.Identifier))
		return
	case access.RequirementExpired:
		abortError(c, fmt.Errorf("%w: %s", apperr.ErrExpired, view.Identifier))
		return
	}

	// A view is only a key for the documents its target actually reaches:
	// a link serves the one document it points at, a dataroom view serves
	// documents of the dataroom's owner.
	var doc model.Document

	if kind == service.TargetLink {
		var link model.Link
		if err := a.DB.Where("id = ?", view.Identifier).First(&link).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch link", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if err := a.DB.Where("id = ?", link.DocumentID).First(&doc).Error; err != nil {
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

			zap.L().Error("Failed to fetch document", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	} else {
		documentID := c.Query("documentID")
		if documentID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "No document ID provided",
				"requestID": requestID,
			})
			return
		}

		var dataroom model.Dataroom
		if err := a.DB.Where("id = ?", view.Identifier).First(&dataroom).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch dataroom", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		err := a.DB.
			Where("id = ? AND owner_id = ?", documentID, dataroom.OwnerID).
			First(&doc).
			Error
		if err != nil {
			// A document outside the dataroom owner's collection reads the
			// same as one that doesn't exist.
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

			zap.L().Error("Failed to fetch document", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	url, err := a.S3.PresignGet(c.Request.Context(), doc.S3Key)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to presign document URL", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, url)
}
