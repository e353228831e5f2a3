package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/logging"
)

// respondError writes the client body for err. Internal causes are logged
// here and never sent.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		logging.FromContext(c, log).WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), appErr.Body())
}

// bind decodes JSON, form or multipart bodies according to Content-Type.
func bind(c *gin.Context, log logrus.FieldLogger, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		logging.FromContext(c, log).WithError(err).Debug("malformed request body")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return false
	}
	return true
}

// pathID parses :id. A non-numeric id is reported as not found.
func pathID(c *gin.Context, log logrus.FieldLogger) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, log, apperr.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
