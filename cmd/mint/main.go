package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/joho/godotenv"

	"veranda/internal/config"
	"veranda/internal/db"
	"veranda/internal/models"
	"veranda/internal/token"
	"veranda/internal/utils/logger"
)

// Mints a bearer token for an existing user. Operational tooling only: the
// API itself never issues credentials.
func main() {
	log := logger.New("mint")

	email := flag.String("email", "", "email of the user to mint a token for")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: mint -email user@example.com")
		os.Exit(2)
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			stdlog.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var user models.User
	if err := db.GetDB().Preload("Role").Where("email = ?", *email).First(&user).Error; err != nil {
		stdlog.Fatalf("User not found: %v", err)
	}

	if user.Status != models.UserStatusActive {
		stdlog.Fatalf("User %s is not active", *email)
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	signed, err := tokens.Issue(user, roleName)
	if err != nil {
		stdlog.Fatalf("Failed to issue token: %v", err)
	}

	log.Success("Token for %s (role %s, expires in %s)", user.Email, roleName, cfg.JWT.TTL)
	fmt.Println(signed)
}
