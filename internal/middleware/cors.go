package middleware

import (
	"net/http"

	"github.com/kataras/iris/v12"
)

// CORS lets the browser storefront, served separately, call the API.
func CORS() iris.Handler {
	return func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if ctx.Method() == http.MethodOptions {
			ctx.StatusCode(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
