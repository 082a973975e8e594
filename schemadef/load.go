package schemadef

import (
	"os"

	"github.com/gravitational/trace"

	"github.com/reoring/recjson"
)

// Load reads a schema file. ".yaml"/".yml" and ".json" files hold a
// Document; anything else is declaration text.
func Load(path string) (*recjson.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	s, err := Decode(FormatFor(path), data)
	if err != nil {
		return nil, trace.Wrap(err, "loading schema from %s", path)
	}
	return s, nil
}
