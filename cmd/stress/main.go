package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/port"
)

const (
	redisAddr     = "localhost:6379"
	redisPrefix   = "stockroom-stress:"
	itemCode      = "STRESS-1"
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	var repo port.CatalogRepository = storage.NewMemoryAdapter()
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis not available, using in-memory store")
		rdb.Close()
	} else {
		defer rdb.Close()
		rdb.Del(ctx, redisPrefix+storage.CatalogKey, redisPrefix+storage.ViewKey)
		repo = storage.NewRedisAdapter(rdb, redisPrefix)
	}

	session := service.NewSession(repo, service.WithLogger(log))
	if err := session.Load(ctx); err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	input := domain.ParseProductInput("Stress item", itemCode, "999", fmt.Sprint(initialStock), "0", "")
	if _, err := session.AddProduct(ctx, input); err != nil {
		log.Fatalf("failed to add product: %v", err)
	}

	reserved, refused, elapsed := reserveConcurrently(ctx, session, log)

	fmt.Println("=== cart reservation stress run ===")
	fmt.Printf("  stock:     %d\n", initialStock)
	fmt.Printf("  attempts:  %d\n", totalRequests)
	fmt.Printf("  reserved:  %d\n", reserved)
	fmt.Printf("  refused:   %d\n", refused)
	fmt.Printf("  took:      %v\n", elapsed)

	p, _ := session.Product(itemCode)
	inCart := 0
	for _, it := range session.CartItems() {
		inCart += it.Quantity
	}
	records, err := repo.LoadCatalog(ctx)
	persisted := err == nil && len(records) == 1 && records[0].Stock.Int() == p.Stock

	check("reservations capped at stock",
		reserved == initialStock && refused == totalRequests-initialStock,
		"want %d/%d, got %d/%d", initialStock, totalRequests-initialStock, reserved, refused)
	check("stock conserved",
		p.Stock == 0 && p.Stock+inCart == initialStock,
		"stock %d, in cart %d", p.Stock, inCart)
	check("persisted stock matches", persisted, "stored catalog differs from the session")
}

// reserveConcurrently fires totalRequests single-unit reservations at once.
func reserveConcurrently(ctx context.Context, s *service.Session, log logrus.FieldLogger) (reserved, refused int, took time.Duration) {
	var ok, short atomic.Int64
	var wg sync.WaitGroup
	begin := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.AddToCart(ctx, itemCode, 1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				short.Add(1)
			default:
				log.WithError(err).Error("unexpected failure")
			}
		}()
	}
	wg.Wait()
	return int(ok.Load()), int(short.Load()), time.Since(begin)
}

func check(name string, passed bool, format string, args ...any) {
	if passed {
		fmt.Printf("ok    %s\n", name)
		return
	}
	fmt.Printf("FAIL  %s: %s\n", name, fmt.Sprintf(format, args...))
}
