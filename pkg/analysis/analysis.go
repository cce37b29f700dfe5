// Package analysis runs the mesh pipeline (decode, normalize, validate,
// collect statistics) for one uploaded file and keeps the result for a
// user session.
package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chazu/meshlens/pkg/logging"
	"github.com/chazu/meshlens/pkg/mesh"
	"github.com/chazu/meshlens/pkg/meshio"
	"github.com/chazu/meshlens/pkg/topology"
)

// ErrTooLarge is returned when an upload exceeds Analyzer.MaxFileBytes.
var ErrTooLarge = errors.New("file too large")

// Report bundles everything the UI and the recommendation prompt need
// about one loaded mesh. A Report is never modified after Analyze returns.
type Report struct {
	Name       string
	Format     meshio.Format
	Mesh       *mesh.Mesh
	Stats      mesh.Stats
	Validation topology.Result
}

// Analyzer runs the pipeline. The zero value has no size limit and logs to
// the default logger.
type Analyzer struct {
	MaxFileBytes int64
	Logger       *log.Logger
}

// Analyze decodes data according to the suffix of name and derives the
// report. Decode failures stop the pipeline: no partial report is returned.
func (a *Analyzer) Analyze(name string, data []byte) (*Report, error) {
	logger := logging.Or(a.Logger)

	if a.MaxFileBytes > 0 && int64(len(data)) > a.MaxFileBytes {
		return nil, fmt.Errorf("%s: %w: %d bytes, limit %d", name, ErrTooLarge, len(data), a.MaxFileBytes)
	}

	start := time.Now()
	raw, format, err := meshio.DecodeFile(name, data)
	if err != nil {
		logger.Warn("decode failed", "file", name, "err", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	m := mesh.Normalize(raw)
	r := &Report{
		Name:       name,
		Format:     format,
		Mesh:       m,
		Stats:      mesh.Collect(m, int64(len(data))),
		Validation: topology.Validate(m),
	}

	logger.Info("mesh analyzed",
		"file", name,
		"format", format,
		"vertices", r.Stats.VertexCount,
		"faces", r.Stats.FaceCount,
		"dropped", m.DroppedFaces,
		"watertight", r.Validation.Watertight,
		"took", time.Since(start),
	)
	return r, nil
}
