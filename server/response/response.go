package response

import (
	goerrors "errors"
	"log"
	"net/http"

	"github.com/barefootnomad/api/errors"
	"github.com/gin-gonic/gin"
)

// JSON writes the standard envelope. Successful responses carry message and
// data; failures carry the error text instead.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	body := gin.H{"status": status}
	if err != nil {
		body["error"] = err.Error()
		if message != "" {
			body["message"] = message
		}
		c.JSON(status, body)
		return
	}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// HandleErrors picks the status from a service error. Unknown errors become a
// 500 with a generic message; their detail only reaches the log.
func HandleErrors(c *gin.Context, err error) {
	var apiErr *errors.Error
	if goerrors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			log.Printf("%s %s: %s", c.Request.Method, c.Request.URL.Path, apiErr.LogString())
		}
		JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	log.Printf("%s %s: unexpected error: %v", c.Request.Method, c.Request.URL.Path, err)
	JSON(c, "", http.StatusInternalServerError, nil, errors.ErrInternalServerError)
}
