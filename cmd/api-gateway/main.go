package main

import (
	"log"
	"net/http/pprof"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/classops/timetable-scheduler/api/swagger"
	"github.com/classops/timetable-scheduler/internal/handler"
	"github.com/classops/timetable-scheduler/internal/scheduler"
	"github.com/classops/timetable-scheduler/pkg/config"
	"github.com/classops/timetable-scheduler/pkg/logger"
	corsmiddleware "github.com/classops/timetable-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/classops/timetable-scheduler/pkg/middleware/requestid"
)

// @title Timetable Scheduler API
// @version 1.0
// @description Academic timetable scheduler: builds a weekly timetable from teachers, courses, halls, and operational/break/preference policies.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/", handler.Health)
	r.GET("/health", handler.Health)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	core := scheduler.NewService(logr)
	scheduleHandler := handler.NewScheduleHandler(core, cfg.Scheduler.DefaultTimeLimitSeconds)

	api := r.Group(cfg.APIPrefix)
	scheduleGroup := api.Group("/schedule")
	scheduleGroup.POST("/with-preference", scheduleHandler.GenerateWithPreference)
	scheduleGroup.POST("/without-preference", scheduleHandler.GenerateWithoutPreference)

	addr := portString(cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func portString(port int) string {
	return ":" + strconv.Itoa(port)
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
