package envelope

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/supernovus/opensrs-go/pkg/version"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

// ProtocolVersion is the OPS envelope version sent in every request header.
const ProtocolVersion = version.Protocol

// Element names of the envelope.
const (
	TagEnvelope = "OPS_envelope"
	TagHeader   = "header"
	TagVersion  = "version"
	TagBody     = "body"
)

const (
	xmlDeclaration = `version="1.0" encoding="UTF-8" standalone="no"`
	doctype        = `DOCTYPE OPS_envelope SYSTEM 'ops.dtd'`
	indentSpaces   = 2
)

// Request is an OPS request document with room for one payload block.
type Request struct {
	doc   *etree.Document
	body  *etree.Element
	block *etree.Element
}

// NewRequest returns an empty request: declaration, doctype, header with
// ProtocolVersion, and an empty body.
func NewRequest() *Request {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", xmlDeclaration)
	doc.CreateDirective(doctype)

	root := doc.CreateElement(TagEnvelope)
	root.CreateElement(TagHeader).CreateElement(TagVersion).SetText(ProtocolVersion)
	body := root.CreateElement(TagBody)

	return &Request{doc: doc, body: body}
}

// AddDataBlock encodes payload as the request's payload block. The payload
// is converted with wire.FromNative, so it may be a wire.Value or a native
// map, slice or scalar. Only one block may be added.
func (r *Request) AddDataBlock(payload any) error {
	if r.block != nil {
		return ErrPayloadExists
	}
	block, err := wire.EncodePayload(r.body, payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	r.block = block
	return nil
}

// Payload decodes the payload block back into a value.
// ok is false if no block has been added.
func (r *Request) Payload() (v wire.Value, ok bool) {
	return wire.Decode(r.block)
}

// Render returns the canonical request text: UTF-8 without BOM, a single
// XML declaration, two-space indentation. The request itself is not
// modified, so repeated calls return identical text.
func (r *Request) Render() (string, error) {
	doc := r.doc.Copy()
	doc.Indent(indentSpaces)
	text, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to render request: %w", err)
	}
	return text, nil
}

// Render is a convenience for NewRequest, AddDataBlock and Request.Render.
func Render(payload any) (string, error) {
	req := NewRequest()
	if err := req.AddDataBlock(payload); err != nil {
		return "", err
	}
	return req.Render()
}
