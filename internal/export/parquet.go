package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"sheetview/internal/model"
)

// toParquet writes one optional string column per dataset column, holding
// the cell's display text. Nulls stay null.
func toParquet(w io.Writer, cols []string, rows []model.Record) error {
	group := make(parquet.Group, len(cols))
	for _, c := range cols {
		group[c] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("dataset", group)

	// Group fields are ordered by name; rows must follow the schema order.
	fields := schema.Fields()
	order := make([]string, len(fields))
	for i, f := range fields {
		order[i] = f.Name()
	}

	buf := parquet.NewBuffer(schema)
	for n, r := range rows {
		row := make(parquet.Row, len(order))
		for i, c := range order {
			v := r.Get(c)
			if v.IsNull() {
				row[i] = parquet.NullValue().Level(0, 0, i)
				continue
			}
			row[i] = parquet.ByteArrayValue([]byte(v.String())).Level(0, 1, i)
		}
		if _, err := buf.WriteRows([]parquet.Row{row}); err != nil {
			return fmt.Errorf("parquet: write row %d: %w", n, err)
		}
	}

	pw := parquet.NewWriter(w, schema, parquet.Compression(&parquet.Snappy))
	if _, err := pw.WriteRowGroup(buf); err != nil {
		_ = pw.Close()
		return fmt.Errorf("parquet: write row group: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet: close writer: %w", err)
	}
	return nil
}
