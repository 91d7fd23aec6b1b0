package pdk

import (
	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/errors"
	"github.com/wippyai/wasm-pdk/kvobj"
	"github.com/wippyai/wasm-pdk/mem"
)

// HTTPRequest describes an outbound request routed through the host.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse is the host's answer to an HTTPRequest.
type HTTPResponse struct {
	Status int32
	Body   []byte
}

// Send performs the request through the host. The request metadata
// travels as a key/value object; the body, when present, travels as a
// separate block.
func (r *HTTPRequest) Send() (*HTTPResponse, error) {
	method := r.Method
	if method == "" {
		method = "GET"
	}

	meta := make([]byte, 0, 64)
	meta = append(meta, '{')
	meta = kvobj.AppendQuoted(meta, "url")
	meta = append(meta, ':')
	meta = kvobj.AppendQuoted(meta, r.URL)
	meta = append(meta, ',')
	meta = kvobj.AppendQuoted(meta, "method")
	meta = append(meta, ':')
	meta = kvobj.AppendQuoted(meta, method)
	meta = append(meta, ',')
	meta = kvobj.AppendQuoted(meta, "headers")
	meta = append(meta, ':')
	meta = kvobj.AppendMap(meta, r.Headers)
	meta = append(meta, '}')

	mb, err := mem.AllocBytes(meta)
	if err != nil {
		return nil, err
	}
	defer mb.Free()

	var bodyOffset uint64
	if len(r.Body) > 0 {
		bb, err := mem.AllocBytes(r.Body)
		if err != nil {
			return nil, err
		}
		defer bb.Free()
		bodyOffset = bb.Offset
	}

	env := wasmpdk.Host()
	respOffset := env.HTTPRequest(mb.Offset, bodyOffset)
	status := env.HTTPStatusCode()
	if status == 0 {
		return nil, errors.HostFailure("http request was not performed", nil)
	}

	resp := &HTTPResponse{Status: status}
	if rb := mem.Find(respOffset); rb.Offset != 0 {
		resp.Body = rb.Read()
		rb.Free()
	}
	return resp, nil
}

// Headers returns the response headers of the most recent request, or
// nil when the host did not capture any.
func (r *HTTPResponse) Headers() (map[string]string, error) {
	hb := mem.Find(wasmpdk.Host().HTTPHeaders())
	if hb.Offset == 0 {
		return nil, nil
	}
	defer hb.Free()

	strs, _, err := kvobj.Decode(hb.Read())
	if err != nil {
		return nil, err
	}
	return strs, nil
}
