//go:build integration

// Integration tests for the outbox relay against real PostgreSQL and RabbitMQ.
//
// RUNNING THESE TESTS:
// 1. Start PostgreSQL and RabbitMQ
// 2. Set environment variables:
//   - TEST_DB_CONNECTION_STRING
//   - TEST_RABBITMQ_URL
//
// 3. Run: go test -tags=integration ./internal/adapters/outbox/...
package outbox_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/messaging"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/outbox"
	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/repository"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

var (
	testDB       *sql.DB
	testDBURL    string
	testRabbitMQ *messaging.RabbitMQBroker
)

func TestMain(m *testing.M) {
	testDBURL = os.Getenv("TEST_DB_CONNECTION_STRING")
	if testDBURL == "" {
		fmt.Println("Skipping relay integration tests: TEST_DB_CONNECTION_STRING not set")
		os.Exit(0)
	}

	rabbitURL := os.Getenv("TEST_RABBITMQ_URL")
	if rabbitURL == "" {
		fmt.Println("Skipping relay integration tests: TEST_RABBITMQ_URL not set")
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("postgres", testDBURL)
	if err != nil {
		fmt.Printf("Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	if err := testDB.Ping(); err != nil {
		fmt.Printf("Failed to ping test database: %v\n", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(testDB, zap.NewNop()); err != nil {
		fmt.Printf("Failed to migrate test database: %v\n", err)
		os.Exit(1)
	}

	testRabbitMQ, err = messaging.NewRabbitMQBroker(rabbitURL, "test-user-events", zap.NewNop())
	if err != nil {
		fmt.Printf("Failed to connect to RabbitMQ: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	cleanupOutbox(testDB)
	testRabbitMQ.Close()
	testDB.Close()
	os.Exit(code)
}

func cleanupOutbox(db *sql.DB) {
	_, _ = db.Exec("DELETE FROM outbox_events")
}

func insertEvent(t *testing.T, eventType string, payload []byte) string {
	t.Helper()
	var id string
	err := testDB.QueryRow(
		"INSERT INTO outbox_events (event_type, payload) VALUES ($1, $2) RETURNING id",
		eventType, payload,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert outbox event: %v", err)
	}
	return id
}

func waitProcessed(t *testing.T, id string) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var processedAt sql.NullTime
		if err := testDB.QueryRow("SELECT processed_at FROM outbox_events WHERE id = $1", id).Scan(&processedAt); err != nil {
			t.Fatalf("failed to query event: %v", err)
		}
		if processedAt.Valid {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

func TestIntegration_RelayProcessesNotifiedEvent(t *testing.T) {
	cleanupOutbox(testDB)
	relay := outbox.NewRelay(testDB, testDBURL, testRabbitMQ, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go func() { _ = relay.Start(ctx) }()

	// Give relay time to start listening
	time.Sleep(200 * time.Millisecond)

	payload, _ := json.Marshal(ports.UserRegisteredEvent{UserID: "user-1", Username: "alice", Type: "STUDENT"})
	id := insertEvent(t, ports.EventUserRegistered, payload)

	if !waitProcessed(t, id) {
		t.Error("event should be marked as processed")
	}
}

func TestIntegration_RelayCatchesUpBacklog(t *testing.T) {
	cleanupOutbox(testDB)

	var ids []string
	for i := 1; i <= 3; i++ {
		payload, _ := json.Marshal(ports.UserRegisteredEvent{UserID: fmt.Sprintf("user-%d", i)})
		ids = append(ids, insertEvent(t, ports.EventUserRegistered, payload))
	}

	relay := outbox.NewRelay(testDB, testDBURL, testRabbitMQ, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = relay.Start(ctx) }()

	for _, id := range ids {
		if !waitProcessed(t, id) {
			t.Errorf("backlog event %s was not processed", id)
		}
	}
}

func TestIntegration_RelayDropsInvalidPayload(t *testing.T) {
	cleanupOutbox(testDB)
	relay := outbox.NewRelay(testDB, testDBURL, testRabbitMQ, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = relay.Start(ctx) }()
	time.Sleep(200 * time.Millisecond)

	id := insertEvent(t, ports.EventUserRegistered, []byte(`{}`))

	if !waitProcessed(t, id) {
		t.Error("invalid event should be marked processed to avoid infinite retries")
	}
}
