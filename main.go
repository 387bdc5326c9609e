package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("ll/leanlog-go-api: ")
	log.SetFlags(0)

	// .env is optional in deployed environments — env vars may come from the host.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	h := &Handler{
		db:            getDBPool(),
		openAIBaseURL: "https://api.openai.com",
	}
	defer h.db.Close()

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	addr := ":" + os.Getenv("PORT")
	if addr == ":" {
		addr = "localhost:3000"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
