package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/migration"
)

// savedVersion reads only the version of a saved sheet
type savedVersion struct {
	Version json.RawMessage `json:"version"`
}

// Scans every sheet saved in redis, reports the ones that are unreadable or
// on an old schema, and offers to upgrade the old ones in place.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning saved sheets...")

	iter := client.Scan(ctx, 0, "sheet:*", 0).Iterator()

	var unreadable, outdated []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasSuffix(key, ":updated_at") {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		if _, err := migration.Run([]byte(data)); err != nil {
			fmt.Printf("✗ Unreadable sheet in %s: %v\n", key, err)
			unreadable = append(unreadable, key)
			continue
		}

		var saved savedVersion
		_ = json.Unmarshal([]byte(data), &saved)
		version, _ := strconv.Atoi(strings.Trim(string(saved.Version), `"`))
		if version < sheet.CurrentVersion {
			fmt.Printf("↑ %s is on schema v%d\n", key, version)
			outdated = append(outdated, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d sheets: %d unreadable, %d on an old schema\n", checkedCount, len(unreadable), len(outdated))
	if len(unreadable) > 0 {
		fmt.Println("Unreadable sheets load as factory defaults; export them by hand before overwriting.")
	}

	if len(outdated) == 0 {
		fmt.Println("Nothing to upgrade")
		return
	}

	fmt.Print("\nUpgrade the old sheets in place? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range outdated {
		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Failed to read %s: %v\n", key, err)
			continue
		}

		doc := migration.Migrate([]byte(data))
		doc.CreationConfig.Active = false
		upgraded, err := json.Marshal(doc)
		if err != nil {
			fmt.Printf("Failed to encode %s: %v\n", key, err)
			continue
		}

		pipe := client.TxPipeline()
		pipe.Set(ctx, key, upgraded, 0)
		pipe.Set(ctx, key+":updated_at", time.Now().UnixMilli(), 0)
		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to upgrade %s: %v\n", key, err)
			continue
		}
		fmt.Printf("Upgraded %s\n", key)
	}
	fmt.Println("\nUpgrade complete!")
}
