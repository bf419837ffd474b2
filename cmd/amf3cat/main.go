// Command amf3cat converts between AMF3 wire bytes and JSON, for poking at
// captured payloads from a shell.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dma-software/amf3/pkg/amf3"
)

// config holds the resolved command line flags.
type config struct {
	mode    string // "encode" or "decode"
	inPath  string
	outPath string
	verbose bool
}

func parseFlags() config {
	var c config
	flag.StringVar(&c.mode, "mode", "decode", "encode (JSON -> AMF3) or decode (AMF3 -> JSON)")
	flag.StringVar(&c.inPath, "in", "-", "input path, - for stdin")
	flag.StringVar(&c.outPath, "out", "-", "output path, - for stdout")
	flag.BoolVar(&c.verbose, "verbose", false, "log each top-level value processed")
	flag.Parse()
	return c
}

func main() {
	cfg := parseFlags()

	in, err := openInput(cfg.inPath)
	if err != nil {
		log.Fatalf("amf3cat: %v", err)
	}
	defer in.Close()

	out, err := openOutput(cfg.outPath)
	if err != nil {
		log.Fatalf("amf3cat: %v", err)
	}
	defer out.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		log.Fatalf("amf3cat: read input: %v", err)
	}

	switch cfg.mode {
	case "encode":
		if err := runEncode(raw, out, cfg.verbose); err != nil {
			log.Fatalf("amf3cat: %v", err)
		}
	case "decode":
		if err := runDecode(raw, out, cfg.verbose); err != nil {
			log.Fatalf("amf3cat: %v", err)
		}
	default:
		log.Fatalf("amf3cat: unknown -mode %q", cfg.mode)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func runEncode(raw []byte, out io.Writer, verbose bool) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse JSON input: %w", err)
	}
	if verbose {
		commonlog.NewInfoMessage(0, "amf3cat encoding one top-level JSON value")
	}
	enc := amf3.NewEncoder()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err := out.Write(enc.Bytes())
	return err
}

func runDecode(raw []byte, out io.Writer, verbose bool) error {
	dec := amf3.NewDecoder(raw)
	v, err := dec.Decode()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if verbose {
		commonlog.NewInfoMessage(0, fmt.Sprintf("amf3cat decoded a %s value, %d bytes remaining", v.Tag(), dec.Remaining()))
	}
	doc := toJSON(v)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// toJSON renders a decoded Value as something encoding/json can marshal.
// It is a display projection, not a wire format: round-tripping through
// JSON does not preserve reference sharing, trait identity, or the
// distinction between Integer and Double.
func toJSON(v amf3.Value) interface{} {
	switch x := v.(type) {
	case amf3.Undefined:
		return nil
	case amf3.Null:
		return nil
	case amf3.Bool:
		return bool(x)
	case amf3.Integer:
		return int32(x)
	case amf3.Double:
		return float64(x)
	case amf3.String:
		return string(x)
	case *amf3.Date:
		return map[string]interface{}{"__date_millis": x.Millis}
	case *amf3.ByteArray:
		return map[string]interface{}{"__bytes_len": len(x.Bytes)}
	case *amf3.DenseArray:
		out := make([]interface{}, len(x.Elements))
		for i, el := range x.Elements {
			out[i] = toJSON(el)
		}
		return out
	case *amf3.AssocArray:
		out := make(map[string]interface{}, len(x.Fields))
		for _, f := range x.Fields {
			out[f.Name] = toJSON(f.Value)
		}
		return out
	case *amf3.Object:
		out := make(map[string]interface{})
		for _, f := range x.StaticFields {
			out[f.Name] = toJSON(f.Value)
		}
		for _, f := range x.DynamicFields {
			out[f.Name] = toJSON(f.Value)
		}
		if x.ClassName != "" {
			out["__class"] = x.ClassName
		}
		return out
	case *amf3.VectorInt:
		return x.Values
	case *amf3.VectorUInt:
		return x.Values
	case *amf3.VectorDouble:
		return x.Values
	case *amf3.VectorObject:
		out := make([]interface{}, len(x.Values))
		for i, el := range x.Values {
			out[i] = toJSON(el)
		}
		return out
	case *amf3.Dictionary:
		out := make(map[string]interface{}, len(x.Entries))
		for _, e := range x.Entries {
			out[fmt.Sprint(toJSON(e.Key))] = toJSON(e.Value)
		}
		return out
	default:
		return nil
	}
}
