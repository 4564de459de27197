package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/redis"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
)

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, redisURL, nil)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer func() { _ = client.Close() }()

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted progression records...")

	var corruptedKeys []string
	var checkedCount int

	err = redis.ScanKeys(ctx, client, "progression:*", func(key string) error {
		checkedCount++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			return nil
		}

		if _, err := progression.DecodeRecord(data); err != nil {
			if !errors.IsDataLoss(err) {
				fmt.Printf("Error decoding %s: %v\n", key, err)
				return nil
			}
			fmt.Printf("✗ %s: %s %v\n", key, errors.GetMessage(err), errors.GetMeta(err))
			corruptedKeys = append(corruptedKeys, key)
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted records\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	// The server already falls back to a fresh record for these; deleting
	// them only silences the warning.
	fmt.Print("\nDo you want to DELETE these corrupted records? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}
	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}
