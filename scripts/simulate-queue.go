package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// Seeds demo users straight into the waiting queue so the admission
// scheduler has something to chew on. Useful for watching promotion
// behavior without driving real HTTP traffic.

var (
	redisAddr = flag.String("redis", "localhost:6379", "Redis address (host:port)")
	redisPass = flag.String("password", "", "Redis password")
	numUsers  = flag.Int("users", 300, "Number of demo users to enqueue")
	batchSize = flag.Int("batch-size", 20, "Users enqueued per pipelined batch")
	joinRate  = flag.Duration("join-rate", 10*time.Millisecond, "Pause between batches (0 for maximum speed)")
	watch     = flag.Bool("watch", false, "Keep running and report queue drain progress")
)

const waitingQueueKey = "waiting_queue"

func main() {
	flag.Parse()

	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{
		Addr:     *redisAddr,
		Password: *redisPass,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Printf("Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected to Redis at %s\n", *redisAddr)

	enqueueUsers(ctx, rdb)

	length, _ := rdb.ZCard(ctx, waitingQueueKey).Result()
	fmt.Printf("Queue length: %d\n", length)

	if *watch {
		watchQueue(ctx, rdb)
	} else {
		fmt.Println("Tip: use --watch to follow the scheduler draining the queue")
	}
}

func enqueueUsers(ctx context.Context, rdb *redis.Client) {
	fmt.Printf("Enqueueing %d users in batches of %d...\n", *numUsers, *batchSize)
	startTime := time.Now()

	for batchStart := 0; batchStart < *numUsers; batchStart += *batchSize {
		batchEnd := batchStart + *batchSize
		if batchEnd > *numUsers {
			batchEnd = *numUsers
		}

		pipe := rdb.Pipeline()
		base := time.Now()
		for i := batchStart; i < batchEnd; i++ {
			// Offset scores inside the batch to keep arrival order stable.
			score := float64(base.Add(time.Duration(i-batchStart) * time.Millisecond).UnixMilli())
			pipe.ZAdd(ctx, waitingQueueKey, redis.Z{
				Score:  score,
				Member: fmt.Sprintf("demo-user-%d", i+1),
			})
		}

		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to enqueue batch %d-%d: %v\n", batchStart+1, batchEnd, err)
		}

		if batchEnd%100 == 0 || batchEnd == *numUsers {
			fmt.Printf("   Progress: %d/%d users enqueued\n", batchEnd, *numUsers)
		}

		if batchEnd < *numUsers && *joinRate > 0 {
			time.Sleep(*joinRate)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Completed in %v (%.0f users/sec)\n", elapsed, float64(*numUsers)/elapsed.Seconds())
}

func watchQueue(ctx context.Context, rdb *redis.Client) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	fmt.Println("Watching queue drain, press Ctrl+C to stop")

	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopping watch")
			return
		case <-ticker.C:
			length, err := rdb.ZCard(ctx, waitingQueueKey).Result()
			if err != nil {
				fmt.Printf("ZCARD failed: %v\n", err)
				continue
			}

			var cursor uint64
			active := 0
			for {
				keys, next, err := rdb.Scan(ctx, cursor, "active:user:*", 1000).Result()
				if err != nil {
					break
				}
				active += len(keys)
				cursor = next
				if cursor == 0 {
					break
				}
			}

			fmt.Printf("waiting=%d active=%d %s\n", length, active, time.Now().Format("15:04:05"))
		}
	}
}
