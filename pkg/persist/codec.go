package persist

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes state snapshots.
type Codec interface {
	// Name identifies the codec in diagnostics.
	Name() string
	// Ext is the file extension used by path-based backends.
	Ext() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSON is the default snapshot codec.
type JSON struct {
	// Indent enables two-space indented output.
	Indent bool
}

func (JSON) Name() string { return "json" }
func (JSON) Ext() string  { return ".json" }

func (c JSON) Encode(v any) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// YAML encodes snapshots as YAML documents.
type YAML struct{}

func (YAML) Name() string { return "yaml" }
func (YAML) Ext() string  { return ".yaml" }

func (YAML) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAML) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// Gzip wraps a codec with gzip compression.
func Gzip(inner Codec) Codec {
	return gzipCodec{inner: inner}
}

type gzipCodec struct {
	inner Codec
}

func (c gzipCodec) Name() string { return c.inner.Name() + "+gzip" }
func (c gzipCodec) Ext() string  { return c.inner.Ext() + ".gz" }

func (c gzipCodec) Encode(v any) ([]byte, error) {
	data, err := c.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c gzipCodec) Decode(data []byte, v any) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	return c.inner.Decode(plain, v)
}
