package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RunLock grants at most one analysis run per survey at a time
type RunLock interface {
	// TryAcquire returns ok=false if another run holds the lock.
	// The returned release func must be called once the run ends.
	TryAcquire(ctx context.Context, surveyID string) (release func(context.Context) error, ok bool, err error)
}

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the TTL only if the key still holds our token
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type redisRunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunLock creates a Redis run lock. The TTL bounds how long a crashed run blocks the survey;
// a live run extends it every ttl/3 until released.
func NewRunLock(client *redis.Client, ttl time.Duration) RunLock {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisRunLock{client: client, ttl: ttl}
}

func runLockKey(surveyID string) string {
	return fmt.Sprintf("survey:%s:analysis:lock", surveyID)
}

func (l *redisRunLock) TryAcquire(ctx context.Context, surveyID string) (func(context.Context) error, bool, error) {
	key := runLockKey(surveyID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	stop := keepAlive(l.ttl/3, func(ctx context.Context) (bool, error) {
		n, err := extendScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
		return n == 1, err
	})
	release := func(ctx context.Context) error {
		stop()
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

// keepAlive calls extend every interval until stop is called or extend reports the lock is gone.
// stop waits for the loop to exit and may be called more than once.
func keepAlive(interval time.Duration, extend func(context.Context) (bool, error)) (stop func()) {
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				held, err := extend(ctx)
				cancel()
				if err != nil {
					log.Printf("cache: extend run lock: %v", err)
					continue
				}
				if !held {
					log.Println("cache: run lock lost before release")
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}

type localRunLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalRunLock creates an in-process run lock for single-instance deployments and tests
func NewLocalRunLock() RunLock {
	return &localRunLock{held: make(map[string]struct{})}
}

func (l *localRunLock) TryAcquire(ctx context.Context, surveyID string) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[surveyID]; busy {
		return nil, false, nil
	}
	l.held[surveyID] = struct{}{}

	var once sync.Once
	release := func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, surveyID)
			l.mu.Unlock()
		})
		return nil
	}
	return release, true, nil
}
