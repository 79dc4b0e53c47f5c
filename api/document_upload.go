package api

import (
	"io"
	"net/http"
	"time"

	"paperroom/access-api/model"
	"paperroom/access-api/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// DocumentUpload stores an owner's document in S3 and records it. Links
// pointing at the document are created through the management layer
// afterwards.
func (a *API) DocumentUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer file.Close()

	// The multipart Content-Type header is whatever the client claims.
	// Sniff the actual bytes instead.
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to detect content type", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to rewind uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	contentType := mtype.String()

	key := util.RandStr(16)

	if err := a.S3.Upload(c.Request.Context(), key, contentType, file); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload document", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	docID, err := gonanoid.New()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate document ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	doc := model.Document{
		ID:          docID,
		OwnerID:     userID,
		Name:        fileHeader.Filename,
		S3Key:       key,
		ContentType: contentType,
		CreatedAt:   time.Now(),
	}

	if err := a.DB.Create(&doc).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create document record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documentID": docID,
	})
}
