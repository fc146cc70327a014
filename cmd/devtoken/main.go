package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/event-hotel-booking/internal/config"
	"github.com/iliyamo/event-hotel-booking/internal/database"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
	"github.com/iliyamo/event-hotel-booking/internal/utils"
)

// devtoken issues an access token for local testing and records it as the
// user's only session, so the API accepts it.
func main() {
	email := flag.String("email", "dev@example.com", "Email of the user to issue a token for (created if missing)")
	expMins := flag.Int("exp", 0, "Token expiration in minutes (default: ACCESS_TOKEN_TTL_MIN)")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	ttl := cfg.AccessTTLMin
	if *expMins > 0 {
		ttl = *expMins
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := repository.NewUserRepo(db).Ensure(ctx, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading user: %v\n", err)
		os.Exit(1)
	}
	at, err := utils.NewAccessToken(cfg.JWTSecret, user.ID, time.Duration(ttl)*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}
	sessions := repository.NewSessionRepo(db)
	if err := sessions.DeleteByUser(ctx, user.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing sessions: %v\n", err)
		os.Exit(1)
	}
	if _, err := sessions.Create(ctx, user.ID, at.Token); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing session: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"access_token": at.Token,
			"token_type":   "Bearer",
			"expires_at":   at.Exp.Format(time.RFC3339),
			"user_id":      user.ID,
			"email":        user.Email,
		})
		return
	}
	fmt.Printf("User ID:  %d\n", user.ID)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Expires:  %s\n", at.Exp.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(at.Token)
}
