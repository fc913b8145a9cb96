package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,name,price,last_review
1,Cozy loft,120,2019-05-21
2,Shared room,45,
3,Penthouse,890,2019-07-01
`

func TestReadCSV_HeaderAndRows(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "price", "last_review"}, f.Columns)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, "Cozy loft", f.Rows[0][1])
	assert.Equal(t, "", f.Rows[1][3])
}

func TestReadCSV_EmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Error(), "missing header row")
}

func TestReadCSV_RaggedRowsRejected(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))

	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestWriteCSV_NoIndexColumn(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,name,price,last_review", lines[0])
	assert.Equal(t, "1,Cozy loft,120,2019-05-21", lines[1])
}

func TestSaveAndLoadCSV(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, f.SaveCSV(path))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, f.Columns, loaded.Columns)
	assert.Equal(t, f.Rows, loaded.Rows)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestColumn_Lookup(t *testing.T) {
	f := &Frame{Columns: []string{"id", "price"}}

	idx, ok := f.Column("price")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = f.Column("missing")
	assert.False(t, ok)
}

func TestFloat_ParsesNumericCells(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	col, ok := f.Column("price")
	require.True(t, ok)

	v, err := f.Float(0, col)
	require.NoError(t, err)
	assert.Equal(t, 120.0, v)
}

func TestFloat_RejectsNonNumericAndEmpty(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("price\nabc\n\"\"\n"))
	require.NoError(t, err)

	_, err = f.Float(0, 0)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)

	_, err = f.Float(1, 0)
	assert.ErrorAs(t, err, &formatErr)
}

func TestClone_Independence(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	clone := f.Clone()
	clone.Rows[0][1] = "changed"
	clone.Columns[0] = "renamed"

	assert.Equal(t, "Cozy loft", f.Rows[0][1])
	assert.Equal(t, "id", f.Columns[0])
}
