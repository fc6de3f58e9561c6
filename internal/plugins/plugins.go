// Package plugins links every bundled transport and serializer into the
// default discovery registry. Import it for its side effect:
//
//	import _ "doclingo/internal/plugins"
//
// The order of the calls in Register is the discovery order, so net/http and
// encoding/json are the implementations picked when none is named.
package plugins

import (
	"doclingo/internal/codec/gojson"
	"doclingo/internal/codec/jsoniter"
	"doclingo/internal/codec/segjson"
	"doclingo/internal/codec/sonic"
	"doclingo/internal/codec/stdjson"
	"doclingo/internal/discovery"
	"doclingo/internal/transport/h3"
	"doclingo/internal/transport/nethttp"
)

func init() {
	Register(discovery.Default())
}

// Register adds the bundled plugins to r.
func Register(r *discovery.Registry) {
	r.RegisterTransport(nethttp.Name, nethttp.Factory)
	r.RegisterTransport(h3.Name, h3.Factory)

	r.RegisterSerializer(stdjson.Name, stdjson.Factory)
	r.RegisterSerializer(gojson.Name, gojson.Factory)
	r.RegisterSerializer(jsoniter.Name, jsoniter.Factory)
	r.RegisterSerializer(sonic.Name, sonic.Factory)
	r.RegisterSerializer(segjson.Name, segjson.Factory)
}
