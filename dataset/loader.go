// SPDX-License-Identifier: MIT

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/katalvlaran/latentree/core"
)

// Reader decodes a dataset from r; variables are created through reg.
type Reader func(reg *core.Registry, r io.Reader) (*Dataset, error)

// readers maps lower-case file extensions onto decoders.
var readers = map[string]Reader{
	".csv": ReadCSV,
}

// Load opens path and decodes it with the reader registered for its extension.
//
// Errors:
//   - ErrIsDirectory (invalid-argument) when path is a directory.
//   - ErrUnsupportedFormat (invalid-argument) for unknown extensions.
//   - ErrRead (i/o) when the file cannot be opened or read.
//   - ErrBadInstance (invalid-argument) for malformed cells.
func Load(reg *core.Registry, path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: Load(%s): %w: %w", path, ErrRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dataset: Load(%s): %w", path, ErrIsDirectory)
	}
	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("dataset: Load(%s): %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: Load(%s): %w: %w", path, ErrRead, err)
	}
	defer f.Close()

	d, err := read(reg, f)
	if err != nil {
		return nil, fmt.Errorf("dataset: Load(%s): %w", path, err)
	}
	return d, nil
}

// ReadCSV decodes a header row of variable names followed by integer states. "?" or an empty
// cell is Missing. A trailing column named "weight" carries instance weights (default 1).
// Identical rows are merged. Each cardinality is the largest observed state plus one.
func ReadCSV(reg *core.Registry, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ReadCSV: empty input: %w", ErrNoVariables)
		}
		return nil, fmt.Errorf("ReadCSV: %w: %w", ErrRead, err)
	}
	width := len(header)
	weighted := width > 0 && strings.EqualFold(strings.TrimSpace(header[width-1]), WeightColumn)
	if weighted {
		width--
	}
	if width == 0 {
		return nil, fmt.Errorf("ReadCSV: %w", ErrNoVariables)
	}

	var (
		rows     []Instance
		maxState = make([]int, width)
		index    = make(map[string]int)
		line     = 1
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: line %d: %w: %w", line, ErrRead, err)
		}

		states := make([]int, width)
		for i := 0; i < width; i++ {
			cell := strings.TrimSpace(rec[i])
			if cell == "" || cell == "?" {
				states[i] = Missing
				continue
			}
			s, err := strconv.Atoi(cell)
			if err != nil || s < 0 {
				return nil, fmt.Errorf("ReadCSV: line %d column %q: %w", line, header[i], ErrBadInstance)
			}
			states[i] = s
			if s > maxState[i] {
				maxState[i] = s
			}
		}
		w := 1.0
		if weighted {
			w, err = strconv.ParseFloat(strings.TrimSpace(rec[width]), 64)
			if err != nil || w < 0 {
				return nil, fmt.Errorf("ReadCSV: line %d weight: %w", line, ErrBadInstance)
			}
		}

		key := fmt.Sprint(states)
		if at, ok := index[key]; ok {
			rows[at].Weight += w
			continue
		}
		index[key] = len(rows)
		rows = append(rows, Instance{States: states, Weight: w})
	}

	vars := make([]*core.Variable, width)
	for i := range vars {
		v, err := core.NewDiscreteVariable(reg, strings.TrimSpace(header[i]), maxState[i]+1, core.Manifest)
		if err != nil {
			return nil, fmt.Errorf("ReadCSV: %w", err)
		}
		vars[i] = v
	}
	return New(vars, rows)
}
