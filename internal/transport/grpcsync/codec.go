package grpcsync

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Name is the content subtype the StateSync messages travel with.
const Name = "json"

func init() { encoding.RegisterCodec(codec{}) }

// codec marshals the plain Go messages of this package as JSON.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (codec) Name() string                       { return Name }
