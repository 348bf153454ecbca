package export

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FilletCorners/internal/engine"
)

func TestExportExcel(t *testing.T) {
	_, tally := buildFilleted(t)
	tally.Failures = append(tally.Failures, engine.Failure{Vertex: 99, Err: errors.New("not a fillet candidate")})
	path := filepath.Join(t.TempDir(), "fillets.xlsx")

	require.NoError(t, ExportExcel(path, tally))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetFillets, SheetFailures}, f.GetSheetList())

	rows, err := f.GetRows(SheetFillets)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, filletHeaders, rows[0])
	assert.Equal(t, "3", rows[1][10], "radius column")
	assert.Equal(t, "FALSE", rows[1][13], "exceeds edge column")

	fails, err := f.GetRows(SheetFailures)
	require.NoError(t, err)
	require.Len(t, fails, 2)
	assert.Equal(t, []string{"99", "not a fillet candidate"}, fails[1])
}
