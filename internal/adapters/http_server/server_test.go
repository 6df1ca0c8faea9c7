package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	server "hotel_promotions/internal/adapters/http_server"
)

// slowServer mounts a handler that holds the request until release is closed.
func slowServer(t *testing.T) (*server.Server, chan struct{}, chan struct{}) {
	t.Helper()
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := server.New(0)
	srv.Mount("/slow", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte("done"))
	}))
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return srv, entered, release
}

func TestServer_StopDrainsInFlight(t *testing.T) {
	srv, entered, release := slowServer(t)

	type result struct {
		body string
		err  error
	}
	got := make(chan result, 1)
	go func() {
		res, err := http.Get("http://" + srv.Addr() + "/slow")
		if err != nil {
			got <- result{err: err}
			return
		}
		defer res.Body.Close()
		b, _ := io.ReadAll(res.Body)
		got <- result{body: string(b)}
	}()
	<-entered

	stopped := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopped <- srv.Stop(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	if err := <-stopped; err != nil {
		t.Fatalf("stop: %v", err)
	}
	r := <-got
	if r.err != nil || r.body != "done" {
		t.Fatalf("in-flight request not drained: %q %v", r.body, r.err)
	}
	if err := srv.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestServer_KillDropsInFlight(t *testing.T) {
	srv, entered, release := slowServer(t)
	defer close(release)

	errc := make(chan error, 1)
	go func() {
		res, err := http.Get("http://" + srv.Addr() + "/slow")
		if err == nil {
			res.Body.Close()
		}
		errc <- err
	}()
	<-entered

	if err := srv.Kill(); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if err := <-errc; err == nil {
		t.Fatalf("expected client error after Kill")
	}
	if err := srv.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv := server.New(0)
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Kill()
	if err := srv.Start("127.0.0.1:0"); err == nil {
		t.Fatalf("expected error on second Start")
	}
}

func TestServer_WaitBeforeStart(t *testing.T) {
	if err := server.New(0).Wait(); err == nil {
		t.Fatalf("expected error")
	}
}
