package main

import (
	"github.com/gin-gonic/gin"

	"github.com/imobflow/imob-crm-api/internal/config"
	dbpkg "github.com/imobflow/imob-crm-api/internal/db"
	"github.com/imobflow/imob-crm-api/internal/logger"
	"github.com/imobflow/imob-crm-api/internal/routes"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

func main() {

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	timezone.SetDefault(cfg.Timezone)

	db := dbpkg.NewDB(cfg)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// recovery próprio; o log de requisição vem do middleware com zerolog
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, db, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("servidor no ar")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("falha ao subir o servidor")
	}
}
