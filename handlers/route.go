package handlers

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/admin"
	"github.com/StellaShiina/ginadmin/auth"
)

const defaultBinaryType = "application/octet-stream"

// Action proxies one route descriptor to its controller.
func Action(a *admin.Admin, route admin.RouteDescriptor, mp MultipartOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		controller := route.Controller(admin.ControllerContext{Admin: a}, auth.Principal(c))

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		result, err := admin.Dispatch(c.Request.Context(), controller, route.Action, admin.ActionRequest{
			Params:  params,
			Query:   c.Request.URL.Query(),
			Payload: parsePayload(c, mp),
			Method:  strings.ToLower(c.Request.Method),
		})
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		if route.ContentType != "" {
			c.Header("Content-Type", route.ContentType)
		} else if _, ok := result.(string); ok {
			c.Header("Content-Type", "text/html")
		}
		send(c, result)
	}
}

// send writes result as the body; nil, empty and zero values leave an empty 200.
func send(c *gin.Context, result any) {
	switch body := result.(type) {
	case nil:
		c.Status(http.StatusOK)
	case string:
		if body == "" {
			c.Status(http.StatusOK)
			return
		}
		c.Data(http.StatusOK, c.Writer.Header().Get("Content-Type"), []byte(body))
	case []byte:
		if len(body) == 0 {
			c.Status(http.StatusOK)
			return
		}
		contentType := c.Writer.Header().Get("Content-Type")
		if contentType == "" {
			contentType = defaultBinaryType
		}
		c.Data(http.StatusOK, contentType, body)
	default:
		if zeroScalar(body) {
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}

// zeroScalar reports false and numeric zero, which are sent as an empty body.
func zeroScalar(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}
