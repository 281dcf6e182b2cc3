// builtin_net.go: the http.* client namespace.
package n7tya

import (
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func init() {
	registerBuiltin("http.get", httpGet)
	registerBuiltin("http.post", httpPost)
}

func httpGet(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != StrV {
		return Value{}, runtimeErr("http.get expects a Str URL")
	}
	resp, err := httpClient.Get(args[0].Str())
	if err != nil {
		return Value{}, runtimeErr("http.get: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Value{}, runtimeErr("http.get: %v", err)
	}
	return StrValue(string(body)), nil
}

// httpPost sends the body as JSON. A Str body goes through verbatim;
// anything else is serialized first.
func httpPost(ip *Interp, args []Value) (Value, error) {
	if len(args) != 2 || args[0].Tag != StrV {
		return Value{}, runtimeErr("http.post expects a Str URL and a body")
	}
	var payload string
	if args[1].Tag == StrV {
		payload = args[1].Str()
	} else {
		encoded, err := jsonStringify(ip, args[1:2])
		if err != nil {
			return Value{}, err
		}
		payload = encoded.Str()
	}
	resp, err := httpClient.Post(args[0].Str(), "application/json", strings.NewReader(payload))
	if err != nil {
		return Value{}, runtimeErr("http.post: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Value{}, runtimeErr("http.post: %v", err)
	}
	return StrValue(string(body)), nil
}
