package gateway

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"sheetview/internal/model"
	"sheetview/internal/util/logx"
)

// json decodes numbers as json.Number so numeric cells keep their source text.
var json = jsoniter.Config{
	EscapeHTML:             true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

const acceptEncoding = "zstd, gzip"

// decodeBody wraps r according to the response Content-Encoding.
func decodeBody(r io.Reader, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case "zstd":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

type filePayload struct {
	Headers []string         `json:"headers"`
	Data    []map[string]any `json:"data"`
}

func decodeListing(r io.Reader) ([]string, error) {
	var ids []string
	if err := json.NewDecoder(r).Decode(&ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func decodeDataset(id string, r io.Reader) (model.Dataset, error) {
	var p filePayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return model.Dataset{}, err
	}
	cols := p.Headers
	if len(cols) == 0 && len(p.Data) > 0 {
		cols = model.ColumnsFromRecords(p.Data)
	}
	ds := model.Dataset{ID: id, Columns: uniqueColumns(id, cols), Records: make([]model.Record, 0, len(p.Data))}
	for _, row := range p.Data {
		ds.Records = append(ds.Records, model.NewRecord(row))
	}
	return ds, nil
}

func uniqueColumns(id string, cols []string) []string {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if seen[c] {
			logx.Warnf("gateway: dataset %q repeats column %q; keeping the first", id, c)
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
