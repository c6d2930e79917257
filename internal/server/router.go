package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/config"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/category"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/order"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
	"github.com/piyusu/E-commerse-inventry/internal/infra/mq"
	"github.com/piyusu/E-commerse-inventry/internal/middleware"
	"github.com/piyusu/E-commerse-inventry/internal/repository/mysql"
	"github.com/piyusu/E-commerse-inventry/internal/service"
)

// Deps carries the constructed infrastructure into route registration.
// Redis and Alerts are optional; nil picks the in-process fallbacks.
type Deps struct {
	DB     *gorm.DB
	Redis  radix.Client
	Alerts *mq.StockAlertPublisher
}

// RegisterRoutes wires repositories, services and all HTTP routes.
func RegisterRoutes(app *iris.Application, cfg *config.Config, deps Deps) {
	productRepo := mysql.NewProductRepository(deps.DB)
	categoryRepo := mysql.NewCategoryRepository(deps.DB)
	orderRepo := mysql.NewOrderRepository(deps.DB)

	productSvc := service.NewProductService(productRepo, categoryRepo, deps.Alerts, &cfg.Catalog)
	categorySvc := service.NewCategoryService(categoryRepo)
	orderSvc := service.NewOrderService(deps.DB, orderRepo)

	app.UseRouter(middleware.CORS())

	api := app.Party("/api")
	if deps.Redis != nil {
		api.Use(middleware.RedisRateLimit(deps.Redis, cfg.RateLimit.Capacity,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))
	} else {
		api.Use(middleware.RateLimit(middleware.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)))
	}

	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	api.Get("/metrics", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().Stats()})
	})

	// ---------- products ----------

	api.Get("/products", func(ctx iris.Context) {
		filter := product.ListFilter{
			Name: ctx.URLParam("q"),
			Page: ctx.URLParamIntDefault("page", 1),
		}
		filter.Limit = ctx.URLParamIntDefault("limit", 0)
		if raw := ctx.URLParam("category"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeErr(ctx, service.NewValidationError("invalid category: %s", raw))
				return
			}
			filter.CategoryID = id
		}
		list, err := productSvc.List(ctx.Request().Context(), filter)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": newProductViews(list)})
	})

	api.Post("/products", func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			writeErr(ctx, service.NewValidationError("invalid request body"))
			return
		}
		p := &product.Product{}
		if err := req.applyTo(p, false); err != nil {
			writeErr(ctx, err)
			return
		}
		if err := productSvc.Create(ctx.Request().Context(), p); err != nil {
			writeErr(ctx, err)
			return
		}
		created, err := productSvc.GetByID(ctx.Request().Context(), p.ID)
		if err == nil {
			p = created
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": newProductView(p)})
	})

	api.Get("/products/low-stock", func(ctx iris.Context) {
		list, err := productSvc.LowStock(ctx.Request().Context())
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": newProductViews(list)})
	})

	api.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": newProductView(p)})
	})

	api.Put("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			writeErr(ctx, service.NewValidationError("invalid request body"))
			return
		}
		if err := req.applyTo(p, true); err != nil {
			writeErr(ctx, err)
			return
		}
		if err := productSvc.Update(ctx.Request().Context(), p); err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": newProductView(p)})
	})

	api.Put("/products/{id:int64}/stock", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req service.StockUpdateRequest
		if err := ctx.ReadJSON(&req); err != nil {
			writeErr(ctx, service.NewValidationError("invalid request body"))
			return
		}
		p, err := productSvc.UpdateStock(ctx.Request().Context(), id, req)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": newProductView(p)})
	})

	// ---------- categories ----------

	api.Get("/categories", func(ctx iris.Context) {
		list, err := categorySvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Post("/categories", func(ctx iris.Context) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			writeErr(ctx, service.NewValidationError("invalid request body"))
			return
		}
		c := &category.Category{Name: req.Name, Description: req.Description}
		if err := categorySvc.Create(ctx.Request().Context(), c); err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": c})
	})

	// ---------- orders ----------

	api.Post("/orders", func(ctx iris.Context) {
		var req struct {
			Username string                `json:"username"`
			Items    []service.LineRequest `json:"items"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			writeErr(ctx, service.NewValidationError("invalid request body"))
			return
		}
		o, err := orderSvc.Place(ctx.Request().Context(), req.Username, req.Items)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	api.Get("/orders", func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", 0)
		list, err := orderSvc.ListRecent(ctx.Request().Context(), limit)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/orders/user/{username}", func(ctx iris.Context) {
		username := ctx.Params().Get("username")
		list, err := orderSvc.ListByUser(ctx.Request().Context(), username)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/orders/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	api.Put("/orders/{id:int64}/status", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			writeErr(ctx, service.NewValidationError("invalid request body"))
			return
		}
		target, err := order.ParseStatus(req.Status)
		if err != nil {
			writeErr(ctx, service.NewValidationError("invalid order status"))
			return
		}
		o, err := orderSvc.UpdateStatus(ctx.Request().Context(), id, target)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	api.Post("/orders/{id:int64}/fulfill", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.Fulfill(ctx.Request().Context(), id)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})
}

// writeErr maps the service error taxonomy onto HTTP statuses.
// Infrastructure errors are logged but reported generically.
func writeErr(ctx iris.Context, err error) {
	var ve *service.ValidationError
	var nf *service.NotFoundError
	var cf *service.ConflictError
	switch {
	case errors.As(err, &ve):
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"code": 400, "msg": ve.Error()})
	case errors.As(err, &nf):
		ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"code": 404, "msg": nf.Error()})
	case errors.As(err, &cf):
		ctx.StopWithJSON(iris.StatusConflict, iris.Map{"code": 409, "msg": cf.Error()})
	default:
		zap.L().Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
		ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"code": 500, "msg": "internal error"})
	}
}
