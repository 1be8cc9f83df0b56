package main

import (
	"context"
	"log"
	"net/http"

	"github.com/rs/cors"

	"content-autopilot/api/router"
	"content-autopilot/config"
	"content-autopilot/db"
	_ "content-autopilot/docs" // swag generated package
)

// @title           Content Autopilot API
// @version         1.0
// @description     API for the content autopilot scheduling and ranking engine
// @BasePath        /api/v1
func main() {
	config.InitApp()
	if err := db.Init(context.Background()); err != nil {
		log.Fatal(err)
	}
	r := router.New()

	handler := cors.Default().Handler(r)
	addr := config.GetConfig().API.Addr
	if err := http.ListenAndServe(addr, handler); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
