//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "hotel_promotions/internal/adapters/http_server"
	redisad "hotel_promotions/internal/adapters/redis"
	"hotel_promotions/internal/app"
	"hotel_promotions/internal/domain"
	mysqlrepo "hotel_promotions/internal/storage/mysql"
)

// ---------- helpers ----------

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func body(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

// ---------- the test ----------

// Seeds MySQL, loads the table through the Redis-backed loader and serves it.
func TestHTTP_EndToEnd_MySQLTable(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=promotions",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/promotions?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	repo := mysqlrepo.New(db)

	seed, _ := domain.NewDiscountTable(domain.DefaultRates)
	if err := app.NewSeedService(repo, cache, 4).Seed(ctx, seed, repo.Name()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	table, err := app.NewTableLoader(repo, cache, time.Minute).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !mr.Exists(app.TableCacheKey("mysql")) {
		t.Fatalf("table not cached after load")
	}

	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{D: app.NewDiscountService(table, "hi")})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	for path, want := range map[string]string{"/api/2": "0.12", "/api/4": "0.03", "/api/13": "0.0"} {
		status, got := body(t, ts.URL+path)
		if status != http.StatusOK || got != want {
			t.Fatalf("%s: got %d %q, want %q", path, status, got, want)
		}
	}
	if status, _ := body(t, ts.URL+"/api/-1"); status != http.StatusBadRequest {
		t.Fatalf("/api/-1: status %d", status)
	}
}
