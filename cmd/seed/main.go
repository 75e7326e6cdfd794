package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"projecthub-backend/shared/config"
	"projecthub-backend/shared/database"
	utils "projecthub-backend/shared/utils/auth"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.LoadConfig()

	db, err := database.InitDatabase(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.CloseDatabase(db)

	result, err := database.SeedDemoData(context.Background(), db)
	if err != nil {
		slog.Error("Failed to seed database", slog.Any("error", err))
		os.Exit(1)
	}

	ttl := time.Duration(cfg.JWTExpireHours) * time.Hour
	fmt.Printf("Organization: %s (%s)\n\n", result.Organization.Name, result.Organization.ID)

	roles := make([]string, 0, len(result.Users))
	for role := range result.Users {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		user := result.Users[role]
		token, err := utils.GenerateJWT(cfg.JWTSecret, ttl, user.ID, user.Email, result.Organization.ID)
		if err != nil {
			slog.Error("Failed to issue token", slog.String("email", user.Email), slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Printf("%-8s %s\n         %s\n\n", role, user.Email, token)
	}

	if result.APIKey != "" {
		fmt.Printf("API key (shown once): %s\n", result.APIKey)
	}
}
