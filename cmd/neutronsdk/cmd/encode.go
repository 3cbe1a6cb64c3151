package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// writeBytes prints bz in the configured output encoding.
func (c *cli) writeBytes(w io.Writer, bz []byte) error {
	switch output := c.v.GetString(keyOutput); output {
	case "hex":
		_, err := fmt.Fprintln(w, hex.EncodeToString(bz))
		return err
	case "base64":
		_, err := fmt.Fprintln(w, base64.StdEncoding.EncodeToString(bz))
		return err
	case "json":
		return writeJSON(w, bz)
	default:
		return fmt.Errorf("unknown output %q", output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
