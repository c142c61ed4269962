package convert

import (
	"github.com/ALT-F4-LLC/bbredmine/internal/dataset"
	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
	"github.com/ALT-F4-LLC/bbredmine/internal/model"
)

// Result describes one converted file.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Stats
	Bytes int64 `json:"bytes"`
}

// File converts the export at input and writes the CSV to output. Nothing is
// written when loading or building fails.
func File(input, output string, ids Resolver, opts Options) (*Result, error) {
	doc, err := model.LoadFile(input)
	if err != nil {
		return nil, err
	}

	ds, stats, err := Build(doc, ids, opts)
	if err != nil {
		return nil, failure.WithPath(err, input)
	}

	n, err := dataset.WriteFile(output, ds)
	if err != nil {
		return nil, err
	}

	return &Result{Input: input, Output: output, Stats: stats, Bytes: n}, nil
}
