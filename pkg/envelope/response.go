package envelope

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/supernovus/opensrs-go/pkg/wire"
)

// Well-known top-level response items.
const (
	KeyIsSuccess    = "is_success"
	KeyResponseCode = "response_code"
	KeyResponseText = "response_text"
	KeyAttributes   = "attributes"
)

const declarationMarker = "<?xml"

// Response is a parsed OPS response document. It is read-only.
type Response struct {
	text string
	doc  *etree.Document
	body *etree.Element
}

// ParseResponse parses raw response text.
//
// It fails with *MalformedResponseError when the text does not start with
// an XML declaration, does not parse, or lacks the envelope body.
func ParseResponse(text string) (*Response, error) {
	if !strings.HasPrefix(text, declarationMarker) {
		return nil, &MalformedResponseError{Reason: "missing XML declaration"}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &MalformedResponseError{Reason: "no root element"}
	}
	body := root.SelectElement(TagBody)
	if body == nil {
		return nil, &MalformedResponseError{Reason: "missing " + TagBody + " element"}
	}

	return &Response{text: text, doc: doc, body: body}, nil
}

// Text returns the raw response text.
func (r *Response) Text() string {
	return r.text
}

// Version returns the header version, if present.
func (r *Response) Version() string {
	header := r.body.Parent().SelectElement(TagHeader)
	if header == nil {
		return ""
	}
	if el := header.SelectElement(TagVersion); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// item returns the first <item> with the given key in document order,
// anywhere in the document.
func (r *Response) item(key string) *etree.Element {
	return findItem(r.doc.Root(), key)
}

func findItem(el *etree.Element, key string) *etree.Element {
	if el.Tag == wire.TagItem {
		if attr := el.SelectAttr(wire.AttrKey); attr != nil && attr.Value == key {
			return el
		}
	}
	for _, child := range el.ChildElements() {
		if found := findItem(child, key); found != nil {
			return found
		}
	}
	return nil
}

// Field returns the text of the first item with the given key anywhere in
// the document. ok is false if there is no such item.
func (r *Response) Field(key string) (string, bool) {
	el := r.item(key)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// IsSuccess reports whether the is_success item is the literal "1".
// A missing item counts as failure.
func (r *Response) IsSuccess() bool {
	v, ok := r.Field(KeyIsSuccess)
	return ok && v == "1"
}

// ResponseCode returns the numeric response_code item.
func (r *Response) ResponseCode() (int, bool) {
	v, ok := r.Field(KeyResponseCode)
	if !ok {
		return 0, false
	}
	code, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return code, true
}

// ResponseText returns the response_text item, or "" if absent.
func (r *Response) ResponseText() string {
	v, _ := r.Field(KeyResponseText)
	return v
}

// Attributes decodes the first item keyed "attributes".
// ok is false when there is no such item or it holds no container.
func (r *Response) Attributes() (wire.Value, bool) {
	el := r.item(KeyAttributes)
	if el == nil {
		return nil, false
	}
	return wire.Decode(el)
}

// Body decodes the payload block under the envelope body. A container
// placed directly in the body is accepted as well.
func (r *Response) Body() (wire.Value, bool) {
	if block := r.body.SelectElement(wire.TagDataBlock); block != nil {
		return wire.Decode(block)
	}
	return wire.Decode(r.body)
}

// Err returns an *APIError when the response does not report success.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	code, _ := r.ResponseCode()
	return &APIError{Code: code, Text: r.ResponseText()}
}
