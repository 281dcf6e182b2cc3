// server.go: the single-threaded TCP listener behind server definitions.
//
// Requests are handled strictly one at a time on the accept goroutine, so
// route bodies never race over interpreter state. Each request is read as a
// single chunk, matched on "METHOD PATH" from the first line, and answered
// with a minimal HTTP/1.1 response before the connection closes.
package n7tya

import (
	"fmt"
	"net"
	"strings"
)

// RunServer listens on the configured address and serves the definition's
// routes until the listener fails. It blocks.
func (ip *Interp) RunServer(def *ServerDef) error {
	addr := fmt.Sprintf("%s:%d", ip.host, ip.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return runtimeErr("server %s: cannot listen on %s: %v", def.Name, addr, err)
	}
	defer ln.Close()
	ip.printf("server %s listening on http://%s\n", def.Name, addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return runtimeErr("server %s: accept: %v", def.Name, err)
		}
		ip.handleConn(def, conn)
	}
}

func (ip *Interp) handleConn(def *ServerDef, conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return
	}
	method, path, ok := parseRequestLine(string(buf[:n]))
	if !ok {
		writeResponse(conn, 400, "Bad Request")
		return
	}

	route := findRoute(def, method, path)
	if route == nil {
		writeResponse(conn, 404, "Not Found")
		return
	}

	body, err := ip.runRoute(route)
	if err != nil {
		writeResponse(conn, 500, err.Error())
		return
	}
	writeResponse(conn, 200, body)
}

func parseRequestLine(req string) (method, path string, ok bool) {
	line := req
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// findRoute matches method case-insensitively and path exactly.
func findRoute(def *ServerDef, method, path string) *RouteDef {
	for i := range def.Routes {
		r := &def.Routes[i]
		if strings.EqualFold(r.Method, method) && r.Path == path {
			return r
		}
	}
	return nil
}

// runRoute executes a route body in a fresh child scope of the globals.
// A returned Str is the body verbatim; none answers "OK"; anything else
// renders through Display.
func (ip *Interp) runRoute(route *RouteDef) (string, error) {
	saved := ip.env
	ip.env = NewEnv(ip.globals)
	defer func() { ip.env = saved }()

	res, err := ip.execBlock(route.Body)
	if err != nil {
		return "", err
	}
	if res.signal == sigReturn {
		switch res.value.Tag {
		case StrV:
			return res.value.Str(), nil
		case NoneV:
			return "OK", nil
		default:
			return res.value.Display(), nil
		}
	}
	return "OK", nil
}

func statusText(status int) string {
	switch status {
	case 200:
		return "200 OK"
	case 400:
		return "400 Bad Request"
	case 404:
		return "404 Not Found"
	case 500:
		return "500 Internal Server Error"
	}
	return fmt.Sprintf("%d", status)
}

func writeResponse(conn net.Conn, status int, body string) {
	fmt.Fprintf(conn, "HTTP/1.1 %s\r\nContent-Length: %d\r\n\r\n%s", statusText(status), len(body), body)
}
