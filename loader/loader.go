// Package loader reads a folder of per-trajectory CSV files into the flat
// tensor layout the rest of the pipeline operates on.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trackbundle/trackbundle/resample"
	"github.com/trackbundle/trackbundle/tensor"
)

// Options configures a folder load.
type Options struct {
	// ResampleTo is the fixed output length every trajectory is
	// interpolated to. Trajectories with fewer than 2 rows are skipped.
	ResampleTo int
	// FirstLineIsHeader, when true, treats each file's first row as a
	// header and derives attribute names from the columns after the
	// first Dim of them. When false, attributes are named att0, att1...
	FirstLineIsHeader bool
	// Separator is the CSV field separator. Defaults to ',' if zero.
	Separator rune
	// Dim is the number of leading columns treated as the xyz position.
	// Defaults to 3 if zero.
	Dim int
}

func (o Options) withDefaults() Options {
	if o.Separator == 0 {
		o.Separator = ','
	}
	if o.Dim == 0 {
		o.Dim = 3
	}
	if o.ResampleTo == 0 {
		o.ResampleTo = 50
	}
	return o
}

// LoadFolder reads every *.csv file in dir, sorted by filename, resamples
// each to opts.ResampleTo points, and returns the combined tensor and
// attribute set. Files with fewer than 2 data rows are skipped.
func LoadFolder(dir string, opts Options) (*tensor.Tracks, *tensor.Attributes, error) {
	opts = opts.withDefaults()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var filenames []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			filenames = append(filenames, e.Name())
		}
	}
	sort.Strings(filenames)

	logrus.Infof("loading trajectories from %s (%d csv files)", dir, len(filenames))

	var trajectories []resample.Trajectory
	var attrNames []string
	skipped := 0

	for i, name := range filenames {
		path := filepath.Join(dir, name)
		points, attrs, names, err := loadFile(path, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		if len(points) < resample.DefaultMinLength {
			skipped++
			continue
		}
		if attrNames == nil && names != nil {
			attrNames = names
		}
		trajectories = append(trajectories, resample.Trajectory{Points: points, Attributes: attrs})
		if (i+1)%50 == 0 {
			logrus.Debugf("loaded %d/%d files", i+1, len(filenames))
		}
	}

	if skipped > 0 {
		logrus.Warnf("skipped %d trajectories shorter than %d rows", skipped, resample.DefaultMinLength)
	}
	if attrNames == nil {
		attrNames = []string{}
	}

	return resample.Batch(trajectories, attrNames, opts.ResampleTo, resample.DefaultMinLength)
}

// loadFile parses one CSV file into raw (unresampled) points, attribute
// rows, and attribute names (nil if the file is read without a header and
// has no attribute columns).
func loadFile(path string, opts Options) ([]tensor.Point, [][]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = opts.Separator
	r.FieldsPerRecord = -1

	var header []string
	type row struct {
		line   int
		fields []string
	}
	var rows []row
	first := true
	lineNo := 0
	for {
		rec, err := r.Read()
		lineNo++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, err
		}
		if first && opts.FirstLineIsHeader {
			header = rec
			first = false
			continue
		}
		first = false
		rows = append(rows, row{line: lineNo, fields: rec})
	}

	points := make([]tensor.Point, 0, len(rows))
	attrs := make([][]float64, 0, len(rows))
	numAttrs := -1

	for _, rw := range rows {
		rec := rw.fields
		if len(rec) < opts.Dim {
			return nil, nil, nil, fmt.Errorf("line %d: row has %d columns, need at least %d", rw.line, len(rec), opts.Dim)
		}
		var p tensor.Point
		for d := 0; d < opts.Dim && d < 3; d++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[d]), 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("line %d: parse position column %d: %w", rw.line, d, err)
			}
			p[d] = v
		}
		points = append(points, p)

		if numAttrs == -1 {
			numAttrs = len(rec) - opts.Dim
		}
		attrRow := make([]float64, numAttrs)
		for a := 0; a < numAttrs; a++ {
			col := opts.Dim + a
			if col >= len(rec) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("line %d: parse attribute column %d: %w", rw.line, a, err)
			}
			attrRow[a] = v
		}
		attrs = append(attrs, attrRow)
	}

	var names []string
	if opts.FirstLineIsHeader && header != nil {
		names = make([]string, 0, len(header)-opts.Dim)
		for i := opts.Dim; i < len(header); i++ {
			names = append(names, strings.TrimSpace(header[i]))
		}
	} else if numAttrs > 0 {
		names = make([]string, numAttrs)
		for i := range names {
			names[i] = fmt.Sprintf("att%d", i)
		}
	}

	return points, attrs, names, nil
}
