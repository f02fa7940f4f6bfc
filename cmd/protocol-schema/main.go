// protocol-schema writes the JSON schema of the websocket messages for client tooling
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/lixenwraith/algebra-worms/network/proto"
)

// messages maps definition names to the wire types they describe
var messages = map[string]any{
	"ClientMessage":        proto.ClientMessage{},
	"SnapshotMessage":      proto.SnapshotMessage{},
	"EventMessage":         proto.EventMessage{},
	"CommandAckMessage":    proto.CommandAckMessage{},
	"CommandRejectMessage": proto.CommandRejectMessage{},
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	defs := jsonschema.Definitions{}
	for name, msg := range messages {
		s := reflector.Reflect(msg)
		s.Version = ""
		s.Title = name
		defs[name] = s
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Algebra Worms Protocol",
		Description: fmt.Sprintf("Websocket messages, protocol version %d", proto.Version),
		Definitions: defs,
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
