package cleaning

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rental-pipeline/internal/dataset"
)

func frameFromCSV(t *testing.T, csv string) *dataset.Frame {
	t.Helper()
	f, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return f
}

func prices(f *dataset.Frame) []string {
	col, _ := f.Column("price")
	out := make([]string, 0, f.Len())
	for _, row := range f.Rows {
		out = append(out, row[col])
	}
	return out
}

func TestClean_PriceOutlierScenario(t *testing.T) {
	f := frameFromCSV(t, `id,price,last_review
1,5,2019-01-01
2,50,2019-01-02
3,500,2019-01-03
4,5000,2019-01-04
`)

	cleaned, err := Clean(context.Background(), f, 10, 1000)
	require.NoError(t, err)

	assert.Equal(t, []string{"50", "500"}, prices(cleaned))
}

func TestPriceRange_InclusiveBounds(t *testing.T) {
	f := frameFromCSV(t, `price,last_review
9.99,
10,
1000,
1000.01,
`)

	cleaned, err := Clean(context.Background(), f, 10, 1000)
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "1000"}, prices(cleaned))
}

func TestPriceRange_MissingOrNonNumericPriceDropped(t *testing.T) {
	f := frameFromCSV(t, `price,last_review
,
abc,
100,
`)

	cleaned, err := Clean(context.Background(), f, 0, 1000)
	require.NoError(t, err)

	assert.Equal(t, []string{"100"}, prices(cleaned))
}

func TestPriceRange_MissingColumnFatal(t *testing.T) {
	f := frameFromCSV(t, "id,last_review\n1,2019-01-01\n")

	_, err := Clean(context.Background(), f, 0, 100)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "price", missing.Column)
}

func TestDateNormalizer_CanonicalizesLayouts(t *testing.T) {
	f := frameFromCSV(t, `price,last_review
10,2019-05-21
20,2019-05-21 00:00:00
30,2019-05-21T00:00:00Z
40,07/05/2019
`)

	cleaned, err := Clean(context.Background(), f, 0, 100)
	require.NoError(t, err)

	col, _ := cleaned.Column("last_review")
	got := make([]string, 0, cleaned.Len())
	for _, row := range cleaned.Rows {
		got = append(got, row[col])
	}
	assert.Equal(t, []string{"2019-05-21", "2019-05-21", "2019-05-21", "2019-07-05"}, got)
}

func TestDateNormalizer_BlankCellsPassThrough(t *testing.T) {
	f := frameFromCSV(t, "price,last_review\n10,\n")

	cleaned, err := Clean(context.Background(), f, 0, 100)
	require.NoError(t, err)

	col, _ := cleaned.Column("last_review")
	assert.Equal(t, "", cleaned.Rows[0][col])
}

func TestDateNormalizer_UnparsableDateFatal(t *testing.T) {
	f := frameFromCSV(t, `price,last_review
10,2019-05-21
20,not-a-date
`)

	_, err := Clean(context.Background(), f, 0, 100)

	var dateErr *DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "not-a-date", dateErr.Value)
	assert.Equal(t, "last_review", dateErr.Column)

	var transformErr *TransformError
	require.ErrorAs(t, err, &transformErr)
	assert.Equal(t, "normalize_last_review", transformErr.Step)
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	f := frameFromCSV(t, `price,last_review
5,2019-05-21 00:00:00
50,2019-05-21 00:00:00
`)

	_, err := Clean(context.Background(), f, 10, 1000)
	require.NoError(t, err)

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "2019-05-21 00:00:00", f.Rows[0][1])
}

func TestClean_Idempotent(t *testing.T) {
	f := frameFromCSV(t, `id,price,last_review
1,5,2019-01-01
2,50,01/02/2019
3,500,2019-01-03
4,5000,2019-01-04
`)

	once, err := Clean(context.Background(), f, 10, 1000)
	require.NoError(t, err)

	twice, err := Clean(context.Background(), once, 10, 1000)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestClean_ColumnSetUnchanged(t *testing.T) {
	f := frameFromCSV(t, "id,price,last_review\n1,50,2019-01-01\n")

	cleaned, err := Clean(context.Background(), f, 0, 100)
	require.NoError(t, err)

	assert.Equal(t, f.Columns, cleaned.Columns)
}

func TestPipeline_EmptyIsIdentity(t *testing.T) {
	f := frameFromCSV(t, "price,last_review\n10,2019-01-01\n")

	out, err := NewPipeline().Run(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, f, out)
}
