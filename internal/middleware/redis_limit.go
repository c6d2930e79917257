package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
)

// RedisRateLimit enforces a fixed-window per-address limit in Redis so
// the cap holds across replicas. It fails open when Redis is down.
func RedisRateLimit(client radix.Client, limit int64, window time.Duration) iris.Handler {
	windowSecs := int64(window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}
	return func(ctx iris.Context) {
		key := fmt.Sprintf("ratelimit:%s:%d", ctx.RemoteAddr(), time.Now().Unix()/windowSecs)

		var count int64
		if err := client.Do(radix.Cmd(&count, "INCR", key)); err != nil {
			zap.L().Warn("rate limiter redis unavailable", zap.Error(err))
			ctx.Next()
			return
		}
		if count == 1 {
			_ = client.Do(radix.Cmd(nil, "EXPIRE", key, strconv.FormatInt(windowSecs, 10)))
		}
		if count > limit {
			ctx.StopWithJSON(429, iris.Map{
				"code": 429,
				"msg":  "too many requests",
			})
			return
		}
		ctx.Next()
	}
}
