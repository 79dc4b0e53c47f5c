package api

import (
	"errors"
	"net/http"

	"paperroom/access-api/apperr"

	"github.com/gin-gonic/gin"
)

// VerificationValidate redeems a code from the emailed link. Validation is
// single use: a code that passes here is gone afterwards.
func (a *API) VerificationValidate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	code := c.Query("authenticationToken")
	identifier := c.Query("identifier")

	if code == "" || identifier == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Invalid inputs",
			"requestID": requestID,
		})
		return
	}

	if err := a.Verification.ValidateCode(code, identifier); err != nil {
		if errors.Is(err, apperr.ErrExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Verification code expired",
				"requestID": requestID,
			})
			return
		}

		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification successful",
	})
}
