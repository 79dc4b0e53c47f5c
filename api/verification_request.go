package api

import (
	"net/http"

	"paperroom/access-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verificationRequestBody struct {
	Identifier string `json:"identifier"`
	Kind       string `json:"kind"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// VerificationRequest checks the visitor's credentials against the target's
// gate and issues a one-time code. For email-protected targets the code
// only travels inside the verification email; the response body never
// carries it.
func (a *API) VerificationRequest(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verificationRequestBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Invalid inputs",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Identifier == "" {
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

	issue, err := a.Verification.RequestCode(service.CodeRequest{
		Kind:       kind,
		Identifier: data.Identifier,
		Email:      data.Email,
		Password:   data.Password,
	})
	if err != nil {
		abortError(c, err)
		return
	}

	if issue.Emailed {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Verification email sent",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticationCode": issue.Code,
	})
}
