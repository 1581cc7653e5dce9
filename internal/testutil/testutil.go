package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chapelhq/backoffice-go/internal/migrate"
	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need. Both *testing.T
// and *testing.B satisfy it.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestDBConfig holds connection details for the test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_* overrides and falls back to the local
// docker-compose test profile on port 55432. CI environments set
// TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "backoffice"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "backoffice"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "backoffice"),
	}
}

func (c TestDBConfig) dsn() string {
	hostPort := net.JoinHostPort(c.Host, c.Port)
	sslMode := getEnvOrDefault("DB_SSL_MODE", "disable")
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User, c.Password, hostPort, c.DBName, sslMode)
}

// dialDB opens a pgx-backed handle and confirms the server answers within
// timeout. The handle is closed again when the ping fails.
func dialDB(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

// SkipIfNoTestDB skips the test when the test database is unreachable, or
// fails it when TEST_REQUIRE_DB or TEST_REQUIRE_INFRA demands one.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := dialDB(DefaultTestDBConfig().dsn(), 2*time.Second)
	if err != nil {
		if requireDB() {
			t.Fatal("Test database not available:", err)
		}
		t.Skip("Test database not available:", err)
	}
	closeAndLog(t, "probe connection", db)
}

// WithAutoDB hands fn a migrated database. When TEST_DB_EPHEMERAL is truthy
// every call gets its own schema, dropped again on cleanup; otherwise the
// shared test database is used and all rows are wiped before and after fn.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()

	if envBool("TEST_DB_EPHEMERAL") {
		fn(setupEphemeralSchemaDB(t))
		return
	}

	db := setupSharedDB(t)
	defer func() {
		wipeTables(t, db)
		if err := db.Close(); err != nil {
			t.Fatal("Failed to close database:", err)
		}
	}()
	fn(db)
}

func setupSharedDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := dialDB(DefaultTestDBConfig().dsn(), 5*time.Second)
	if err != nil {
		t.Fatal("Failed to connect to test database. Make sure PostgreSQL is running (docker-compose up -d):", err)
	}
	migrateTestDB(t, db)
	wipeTables(t, db)
	return db
}

// The schema has no FK edges between these tables; identity rows are wiped
// last so a failure mid-wipe leaves them visible while debugging.
var testTables = []string{
	"announcements",
	"audit_log",
	"admin_sessions",
	"end_user_accounts",
	"admin_identities",
	"admin_allowlist",
}

func wipeTables(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, table := range testTables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean up table %s: %v", table, err)
		}
	}
}

func migrateTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}
}

// ephemeralSchema is a per-test schema on the shared server. The test runs
// with search_path pointed at it and the whole schema is dropped afterwards,
// so packages can run in parallel without stepping on each other's rows.
type ephemeralSchema struct {
	name    string
	adminDB *sql.DB
	db      *sql.DB
}

func setupEphemeralSchemaDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	es := &ephemeralSchema{name: randomSchemaName()}
	es.create(t)
	es.connect(t)
	t.Logf("Using ephemeral schema: %s", es.name)

	// Registered before migrating so the schema is dropped even when the
	// migration fails.
	t.Cleanup(func() { es.drop(t) })
	migrateTestDB(t, es.db)
	return es.db
}

func (es *ephemeralSchema) create(t TestingTB) {
	adminDB, err := dialDB(DefaultTestDBConfig().dsn(), 5*time.Second)
	if err != nil {
		t.Fatal("Failed to reach database for schema provisioning:", err)
	}
	es.adminDB = adminDB

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, execErr := adminDB.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+es.name); execErr != nil {
		closeAndLog(t, "admin connection", adminDB)
		t.Fatalf("Failed to create schema %s: %v", es.name, execErr)
	}
}

func (es *ephemeralSchema) connect(t TestingTB) {
	dsn, err := schemaScopedDSN(DefaultTestDBConfig().dsn(), es.name)
	if err != nil {
		closeAndLog(t, "admin connection", es.adminDB)
		t.Fatal("Failed to parse DSN:", err)
	}

	db, err := dialDB(dsn, 10*time.Second)
	if err != nil {
		closeAndLog(t, "admin connection", es.adminDB)
		t.Fatalf("Failed to connect with search_path=%s: %v", es.name, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	es.db = db
}

func (es *ephemeralSchema) drop(t TestingTB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	closeAndLog(t, "schema connection", es.db)
	if _, err := es.adminDB.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+es.name+" CASCADE"); err != nil {
		t.Logf("Warning: failed to drop schema %s: %v", es.name, err)
	}
	closeAndLog(t, "admin connection", es.adminDB)
}

// schemaScopedDSN rewrites base so connections resolve unqualified table
// names inside schema first.
func schemaScopedDSN(base, schema string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema+",public")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func randomSchemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}

func closeAndLog(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

// getEnvOrDefault returns the environment variable value, or defaultValue
// when the variable is unset or empty.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// TestTime returns the fixed instant fixtures are anchored to.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// AdminStateInfo is a debugging snapshot of one admin identity row.
type AdminStateInfo struct {
	SubjectID  string
	Email      string
	Role       string
	Status     string
	ApprovedAt *time.Time
	ApprovedBy *string
}

// InspectAdminStates reads every admin identity row, oldest first.
func InspectAdminStates(t TestingTB, db *sql.DB) []AdminStateInfo {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT subject_id, email, role, status, approved_at, approved_by
		FROM admin_identities
		ORDER BY created_at ASC
	`)
	if err != nil {
		t.Fatalf("Failed to query admin states: %v", err)
	}
	defer closeAndLog(t, "admin state rows", rows)

	var admins []AdminStateInfo
	for rows.Next() {
		var admin AdminStateInfo
		scanErr := rows.Scan(
			&admin.SubjectID,
			&admin.Email,
			&admin.Role,
			&admin.Status,
			&admin.ApprovedAt,
			&admin.ApprovedBy,
		)
		if scanErr != nil {
			t.Fatalf("Failed to scan admin state: %v", scanErr)
		}
		admins = append(admins, admin)
	}

	if iterErr := rows.Err(); iterErr != nil {
		t.Fatalf("Error iterating over rows: %v", iterErr)
	}

	return admins
}

// LogAdminStates dumps the admin identity table into the test log. The output
// only surfaces on failure or under -v, so callers can leave it in place.
func LogAdminStates(t TestingTB, db *sql.DB, message string) {
	t.Helper()

	t.Logf("=== %s ===", message)
	for i, admin := range InspectAdminStates(t, db) {
		t.Logf("Admin %d: Subject=%s, Email=%s, Role=%s, Status=%s, ApprovedAt=%v",
			i+1, admin.SubjectID, admin.Email, admin.Role, admin.Status, admin.ApprovedAt)
	}
	t.Logf("=== End %s ===", message)
}

// RunConcurrent launches every fn at once and returns their errors in call
// order.
func RunConcurrent(t TestingTB, funcs ...func() error) []error {
	t.Helper()

	var wg sync.WaitGroup
	errs := make([]error, len(funcs))
	for i, fn := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()
	return errs
}

// Redis helpers.

// testRedisCandidates returns the addresses worth probing, most specific
// first. REDIS_ADDR pins the search to a single address.
func testRedisCandidates() []string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return []string{addr}
	}
	return []string{
		"redis:6379",      // compose service name in CI
		"localhost:6379",  // alternative CI setup
		"localhost:56379", // local docker-compose test profile
	}
}

// findTestRedis probes the candidate addresses and returns the first one that
// answers. When none do, the last candidate is returned with ok=false so the
// caller can name an address in its skip message.
func findTestRedis(t TestingTB) (string, bool) {
	t.Helper()

	candidates := testRedisCandidates()
	for _, addr := range candidates {
		if probeRedis(t, addr) {
			return addr, true
		}
	}
	return candidates[len(candidates)-1], false
}

func probeRedis(t TestingTB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer closeAndLog(t, "redis probe", client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("Redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

// selectTestRedisDB picks a Redis DB index for this test binary so packages
// running in parallel do not flush each other's keys. TEST_REDIS_DB overrides
// the choice; otherwise an index in [1..15] is reserved through a lock key.
func selectTestRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("Invalid TEST_REDIS_DB=%q, falling back to auto-select", v)
	}

	// Reservation keys live in DB 0, where FlushDB on the picked DB cannot
	// reach them.
	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer closeAndLog(t, "redis meta client", meta)

	for i := 1; i <= 15; i++ {
		if reserveRedisDB(t, meta, addr, i) {
			t.Logf("Using Redis DB=%d for tests at %s", i, addr)
			return i
		}
	}

	t.Logf("Falling back to Redis DB=1 for tests at %s", addr)
	return 1
}

func reserveRedisDB(t TestingTB, meta *redis.Client, addr string, index int) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	lockKey := fmt.Sprintf("backoffice:testutil:db_lock:%d", index)
	lockVal := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	ok, err := meta.SetNX(ctx, lockKey, lockVal, 30*time.Minute).Result()
	if err != nil || !ok {
		return false
	}

	t.Cleanup(func() { releaseRedisDB(t, addr, lockKey) })
	return true
}

func releaseRedisDB(t TestingTB, addr, lockKey string) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer closeAndLog(t, "redis cleanup client", c)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Del(ctx, lockKey).Err(); err != nil {
		t.Logf("warning: failed to release redis db lock %s: %v", lockKey, err)
	}
}

// SetupTestRedis returns a client on a reserved DB index with any leftover
// keys flushed. The test is skipped when no Redis server is reachable, or
// failed when TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA demands one.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := findTestRedis(t)
	if !ok {
		if requireRedis() {
			t.Fatal("Redis not available for testing")
		}
		t.Skip("Redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   selectTestRedisDB(t, addr),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		closeAndLog(t, "redis client", client)
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	client.FlushDB(ctx)

	return client
}
