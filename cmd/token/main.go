// Command token mints a bearer token for local testing of the cart API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"shopping-cart/internal/auth"
	"shopping-cart/internal/config"
	"shopping-cart/internal/logger"

	"go.uber.org/zap"
)

func main() {
	username := flag.String("user", "", "username to put in the subject claim")
	role := flag.String("role", "user", "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	log := logger.Must(cfg.Server.Env)
	defer log.Sync()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	token, err := auth.IssueToken(cfg.JWT.Secret, *username, *role, *ttl)
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}

	fmt.Println(token)
}
