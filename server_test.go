// server_test.go
package n7tya

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func startTestServer(t *testing.T, src string) (addr string) {
	t.Helper()
	tokens := NewLexer(src).Scan()
	prog, err := NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	ip := NewInterp()
	ip.SetOutput(&bytes.Buffer{})
	ip.SetListenAddr("127.0.0.1", port)
	go func() {
		if _, err := ip.Run(prog); err != nil {
			t.Logf("server stopped: %v", err)
		}
	}()

	addr = fmt.Sprintf("127.0.0.1:%d", port)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("tcp", addr); err == nil {
			conn.Close()
			return addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server never came up on %s", addr)
	return ""
}

func rawRequest(t *testing.T, addr, reqLine string) (status string, body string) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	fmt.Fprintf(conn, "%s\r\n\r\n", reqLine)

	buf := make([]byte, 4096)
	var resp strings.Builder
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		n, err := conn.Read(buf)
		resp.Write(buf[:n])
		if err != nil {
			break
		}
	}
	parts := strings.SplitN(resp.String(), "\r\n\r\n", 2)
	status = strings.TrimSpace(strings.SplitN(parts[0], "\r\n", 2)[0])
	if len(parts) == 2 {
		body = parts[1]
	}
	return status, body
}

const serverSrc = "server api\n" +
	"\tget \"/health\"\n\t\treturn \"healthy\"\n" +
	"\tget \"/count\"\n\t\treturn 2 + 3\n" +
	"\tget \"/quiet\"\n\t\tlet x = 1\n" +
	"\tget \"/boom\"\n\t\treturn 1 / 0\n"

func Test_Server_Routes(t *testing.T) {
	addr := startTestServer(t, serverSrc)

	status, body := rawRequest(t, addr, "GET /health HTTP/1.1")
	if status != "HTTP/1.1 200 OK" || body != "healthy" {
		t.Fatalf("health: %q %q", status, body)
	}

	// Method matching is case-insensitive.
	status, _ = rawRequest(t, addr, "get /health HTTP/1.1")
	if status != "HTTP/1.1 200 OK" {
		t.Fatalf("lowercase method: %q", status)
	}

	// Non-string returns render through display.
	_, body = rawRequest(t, addr, "GET /count HTTP/1.1")
	if body != "5" {
		t.Fatalf("count: %q", body)
	}

	// A body with no return answers OK.
	_, body = rawRequest(t, addr, "GET /quiet HTTP/1.1")
	if body != "OK" {
		t.Fatalf("quiet: %q", body)
	}

	status, _ = rawRequest(t, addr, "GET /missing HTTP/1.1")
	if status != "HTTP/1.1 404 Not Found" {
		t.Fatalf("missing: %q", status)
	}

	status, _ = rawRequest(t, addr, "POST /health HTTP/1.1")
	if status != "HTTP/1.1 404 Not Found" {
		t.Fatalf("wrong method should 404: %q", status)
	}

	status, _ = rawRequest(t, addr, "GET /boom HTTP/1.1")
	if status != "HTTP/1.1 500 Internal Server Error" {
		t.Fatalf("route error should 500: %q", status)
	}

	status, _ = rawRequest(t, addr, "NONSENSE")
	if status != "HTTP/1.1 400 Bad Request" {
		t.Fatalf("bad request line: %q", status)
	}
}

func Test_Server_RouteScope_IsFresh(t *testing.T) {
	src := "let base = 10\nserver api\n\tget \"/t\"\n\t\tlet local = base + 1\n\t\treturn local\n"
	addr := startTestServer(t, src)

	// Route bodies see globals but their own bindings do not persist.
	for i := 0; i < 2; i++ {
		_, body := rawRequest(t, addr, "GET /t HTTP/1.1")
		if body != "11" {
			t.Fatalf("run %d: %q", i, body)
		}
	}
}

func Test_Server_BlocksRemainingItems(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "after.txt")
	src := "server api\n\tget \"/p\"\n\t\treturn \"ok\"\n" +
		"fs.write_file(\"" + marker + "\", \"ran\")\n"
	addr := startTestServer(t, src)

	// Serving starts at the definition, so the trailing statement is
	// never reached.
	_, body := rawRequest(t, addr, "GET /p HTTP/1.1")
	if body != "ok" {
		t.Fatalf("route: %q", body)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatalf("statement after server definition ran: %v", err)
	}
}
