package roster

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/models/store"
)

// Load reads the roster file at path.
func Load(path string) ([]store.AccountRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open account roster: %v", domain.ErrConfig, err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read parses a delimited roster with a header row. The delimiter is '|'
// when the header contains one, ',' otherwise.
func Read(r io.Reader) ([]store.AccountRow, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("%w: failed to read account roster: %v", domain.ErrConfig, err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(header)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	columns, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: account roster is empty", domain.ErrConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse roster header: %v", domain.ErrConfig, err)
	}

	index, err := columnIndex(columns)
	if err != nil {
		return nil, err
	}

	var rows []store.AccountRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse account roster: %v", domain.ErrConfig, err)
		}
		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, store.AccountRow{
			Line:      line,
			Cloud:     field(record, index[store.ColumnCloud]),
			AccountID: field(record, index[store.ColumnAccountID]),
			BU:        field(record, index[store.ColumnBU]),
			WebHook:   field(record, index[store.ColumnWebHook]),
		})
	}

	return rows, nil
}

func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.IndexByte(head, '|') >= 0 {
		return '|'
	}
	return ','
}

func columnIndex(columns []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}

	var missing []string
	for _, required := range store.RequiredColumns {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: account roster is missing required columns: %s",
			domain.ErrConfig, strings.Join(missing, ", "))
	}
	return index, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
