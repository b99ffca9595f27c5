// Package export writes the table's current display order to a file.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"sheetview/internal/model"
	"sheetview/internal/util/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrUnknownFormat      = errors.New("export: unknown format")
	ErrUnknownCompression = errors.New("export: unknown compression")
	ErrNoColumns          = errors.New("export: no columns")
)

const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// Formats lists the accepted format names.
var Formats = []string{FormatCSV, FormatJSON, FormatParquet}

// Write encodes rows in format. Cells are emitted in cols order.
func Write(w io.Writer, format string, cols []string, rows []model.Record) error {
	if len(cols) == 0 {
		return ErrNoColumns
	}
	switch strings.ToLower(format) {
	case FormatCSV:
		return toCSV(w, cols, rows)
	case FormatJSON:
		return toNDJSON(w, cols, rows)
	case FormatParquet:
		return toParquet(w, cols, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes rows to path through the named compression. The file is
// written to a temporary sibling and renamed into place.
func WriteFile(path, format, compression string, cols []string, rows []model.Record) error {
	comp, err := compressorFor(compression)
	if err != nil {
		return err
	}
	return writeFile(path, format, comp, cols, rows)
}

func writeFile(path, format string, comp compressor, cols []string, rows []model.Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	bw := bufio.NewWriter(f)
	cw, err := comp.Compress(bw)
	if err != nil {
		return fail(err)
	}
	if err := Write(cw, format, cols, rows); err != nil {
		// Release the encoder; the partial output is discarded anyway.
		_ = cw.Close()
		return fail(err)
	}
	if err := cw.Close(); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	logx.Debugf("export: %d rows as %s (%s) to %s", len(rows), format, comp.Name(), path)
	return nil
}

func toCSV(w io.Writer, cols []string, rows []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	line := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			line[i] = r.Get(c).String()
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toNDJSON(w io.Writer, cols []string, rows []model.Record) error {
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)
	for _, r := range rows {
		stream.WriteObjectStart()
		for i, c := range cols {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(c)
			v := r.Get(c)
			switch v.Kind() {
			case model.KindNumber:
				stream.WriteRaw(v.String())
			case model.KindString:
				stream.WriteString(v.String())
			default:
				stream.WriteNil()
			}
		}
		stream.WriteObjectEnd()
		stream.WriteRaw("\n")
		if err := stream.Flush(); err != nil {
			return err
		}
	}
	return stream.Error
}
