package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"policereserves/roster/internal/config"
	"policereserves/roster/internal/db"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/models/entities"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Creates an API key for machine callers such as the reminder cron and
// prints it once. Only the bcrypt hash of the secret is stored.
func main() {
	description := flag.String("description", "reminder cron", "what the key is used for")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	ctx := context.Background()
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	sqlxDB, err := db.WrapORM(gdb)
	if err != nil {
		log.Fatalf("wrap db: %v", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("generate secret: %v", err)
	}
	secret := hex.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash secret: %v", err)
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	key := &entities.ApiKey{
		ID:          id,
		SecretHash:  string(hash),
		Description: *description,
		Status:      true,
	}
	if err := repositories.NewApiKeysRepo(sqlxDB).Insert(ctx, key); err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API Key:", id+"."+secret)
}
