package kraken

import (
	"net/url"
	"sort"
	"strings"
)

//
// Params maps private method parameter names to their values.
//
type Params map[string]string

//
// with returns a copy of the parameters with the provided key set to the provided value. The
// receiver is never modified.
//
func (o Params) with(key string, value string) Params {
	ret := make(Params, len(o)+1)

	for k, v := range o {
		ret[k] = v
	}

	ret[key] = value

	return ret
}

//
// Encode serializes the parameters into the canonical form body: "key=value" pairs sorted by key and
// joined by "&". Keys and values are form-escaped, so reserved characters ("+", "&", "=", "%" and
// spaces) survive the trip to the server. The returned bytes are exactly the bytes of the returned
// string, and are what must be fed into Sign.
//
func Encode(params Params) (string, []byte) {
	keys := make([]string, 0, len(params))

	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var sb strings.Builder

	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}

		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[k]))
	}

	body := sb.String()

	return body, []byte(body)
}
