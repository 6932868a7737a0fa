// Package transport posts signed OPS documents to the OpenSRS API.
//
// Each exchange is a single HTTPS POST:
//
//	POST / HTTP/1.1
//	Content-Type: text/xml
//	X-Username: <reseller username>
//	X-Signature: md5(md5(body + key) + key)
//
//	<?xml version="1.0" encoding="UTF-8" standalone="no"?>
//	<!DOCTYPE OPS_envelope SYSTEM 'ops.dtd'>
//	<OPS_envelope>...</OPS_envelope>
//
// The response body is returned as text; parsing is left to the envelope
// package. Responses with a non-2xx status yield a *StatusError.
package transport
