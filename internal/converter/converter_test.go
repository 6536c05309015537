package converter

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/ginjaninja78/stock-adjustment-tool/internal/xlsxwriter"
	"github.com/ginjaninja78/stock-adjustment-tool/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	conv     *Converter
	files    *utils.FileManager
	template string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	files := utils.NewFileManager(
		root,
		filepath.Join(root, "input"),
		filepath.Join(root, "output"),
		filepath.Join(root, "reports"),
	)
	_, err := files.EnsureDirectories()
	require.NoError(t, err)

	tmpl := filepath.Join(files.InputDir, "template.xlsx")
	return &fixture{
		conv:     New(tmpl, files, nil),
		files:    files,
		template: tmpl,
	}
}

func (fx *fixture) writeInput(t *testing.T, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Distributor Code", "Adjustment Type", "Product Code", "Warehouse Type", "Quantity"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	require.NoError(t, f.SaveAs(fx.template))
}

func (fx *fixture) outputNames(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(fx.files.OutputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(xlsxwriter.SheetName)
	require.NoError(t, err)
	return rows
}

var exampleRows = [][]interface{}{
	{"D1", "Outbound", "P1", "WH1", 10},
	{"D1", "Outbound", "P2", "WH1", 5},
	{"D2", "Inbound", "P3", "WH2", 7},
}

func TestRun_Example(t *testing.T) {
	fx := newFixture(t)
	fx.writeInput(t, exampleRows)

	result, err := fx.conv.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"DCG_D1.xlsx", "DCT_D2.xlsx"}, fx.outputNames(t))
	assert.Equal(t, 3, result.Stats.RowsRead)
	assert.Equal(t, 1, result.Stats.OutboundFiles)
	assert.Equal(t, 1, result.Stats.InboundFiles)
	require.Len(t, result.OutputFiles, 2)

	outbound := readRows(t, filepath.Join(fx.files.OutputDir, "DCG_D1.xlsx"))
	require.Len(t, outbound, 5)
	assert.Equal(t, []string{"1", "D1"}, outbound[1])
	assert.Equal(t, []string{"P1", "WH1", "10"}, outbound[3])
	assert.Equal(t, []string{"P2", "WH1", "5"}, outbound[4])

	inbound := readRows(t, filepath.Join(fx.files.OutputDir, "DCT_D2.xlsx"))
	require.Len(t, inbound, 4)
	assert.Equal(t, []string{"0", "D2"}, inbound[1])
	assert.Equal(t, []string{"P3", "WH2", "7"}, inbound[3])
}

func TestRun_EveryCompleteRowLandsInExactlyOneFile(t *testing.T) {
	fx := newFixture(t)
	fx.writeInput(t, [][]interface{}{
		{"D1", "Outbound", "P1", "WH1", 1},
		{"D2", "Outbound", "P2", "WH1", 2},
		{"D1", "Inbound", "P3", "WH1", 3},
		{"D1", "Outbound", "P4", "WH1", 4},
		{"D2", "Inbound", "", "WH1", 5},
		{"D3", "Inbound", "P6", "WH2", 6},
	})

	_, err := fx.conv.Run()
	require.NoError(t, err)

	names := fx.outputNames(t)
	assert.Equal(t, []string{"DCG_D1.xlsx", "DCG_D2.xlsx", "DCT_D1.xlsx", "DCT_D3.xlsx"}, names)

	seen := map[string]int{}
	for _, name := range names {
		rows := readRows(t, filepath.Join(fx.files.OutputDir, name))
		for _, r := range rows[xlsxwriter.DataStartRow-1:] {
			seen[r[0]]++
		}
	}
	assert.Equal(t, map[string]int{"P1": 1, "P2": 1, "P3": 1, "P4": 1, "P6": 1}, seen)

	// Input order is kept inside a file.
	d1 := readRows(t, filepath.Join(fx.files.OutputDir, "DCG_D1.xlsx"))
	assert.Equal(t, "P1", d1[3][0])
	assert.Equal(t, "P4", d1[4][0])
}

func TestRun_InvalidTypeWritesNothing(t *testing.T) {
	fx := newFixture(t)

	// Output from a previous run must survive a rejected run.
	stale := filepath.Join(fx.files.OutputDir, "DCG_OLD.xlsx")
	require.NoError(t, os.WriteFile(stale, []byte("previous"), 0644))

	fx.writeInput(t, [][]interface{}{
		{"D1", "Outbound", "P1", "WH1", 10},
		{"D2", "Transfer", "P2", "WH1", 5},
	})

	result, err := fx.conv.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
	assert.Contains(t, err.Error(), "Transfer")
	require.Len(t, result.ValidationErrors, 1)
	assert.Equal(t, 3, result.ValidationErrors[0].RowNumber)

	assert.Equal(t, []string{"DCG_OLD.xlsx"}, fx.outputNames(t))
	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestRun_InvalidTypeInIncompleteRowIsIgnored(t *testing.T) {
	fx := newFixture(t)
	fx.writeInput(t, [][]interface{}{
		{"D1", "Outbound", "P1", "WH1", 10},
		{"D2", "Transfer", "P2", "WH1"},
	})

	_, err := fx.conv.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"DCG_D1.xlsx"}, fx.outputNames(t))
}

func TestRun_ClearsPreviousOutput(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(fx.files.OutputDir, "DCT_GONE.xlsx"), []byte("x"), 0644))
	fx.writeInput(t, exampleRows)

	result, err := fx.conv.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesRemoved)
	assert.Equal(t, []string{"DCG_D1.xlsx", "DCT_D2.xlsx"}, fx.outputNames(t))
}

func TestRun_Deterministic(t *testing.T) {
	fx := newFixture(t)
	fx.writeInput(t, exampleRows)

	_, err := fx.conv.Run()
	require.NoError(t, err)
	first := map[string][]byte{}
	for _, name := range fx.outputNames(t) {
		data, err := os.ReadFile(filepath.Join(fx.files.OutputDir, name))
		require.NoError(t, err)
		first[name] = data
	}

	_, err = fx.conv.Run()
	require.NoError(t, err)
	for _, name := range fx.outputNames(t) {
		data, err := os.ReadFile(filepath.Join(fx.files.OutputDir, name))
		require.NoError(t, err)
		assert.Equal(t, first[name], data, name)
	}
	assert.Len(t, first, 2)
}

func TestRun_CreatesMissingTemplate(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.conv.Run()
	assert.ErrorIs(t, err, ErrNoData)
	assert.True(t, result.TemplateCreated)
	assert.FileExists(t, fx.template)
	assert.Empty(t, fx.outputNames(t))
}

func TestRun_NoDataLeavesOutput(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(fx.files.OutputDir, "DCG_KEEP.xlsx"), []byte("x"), 0644))
	fx.writeInput(t, [][]interface{}{{"D1", "Outbound", "", "", ""}})

	_, err := fx.conv.Run()
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, []string{"DCG_KEEP.xlsx"}, fx.outputNames(t))
}

func TestGroupBatches_FileNameClash(t *testing.T) {
	rows := []types.AdjustmentRow{
		{RowNumber: 2, DistributorCode: types.Text("A/1"), AdjustmentType: types.Outbound},
		{RowNumber: 3, DistributorCode: types.Text("A:1"), AdjustmentType: types.Outbound},
	}

	_, err := groupBatches(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DCG_A_1.xlsx")
}

func TestGroupBatches_Order(t *testing.T) {
	rows := []types.AdjustmentRow{
		{RowNumber: 2, DistributorCode: types.Text("B"), AdjustmentType: types.Inbound},
		{RowNumber: 3, DistributorCode: types.Text("Z"), AdjustmentType: types.Outbound},
		{RowNumber: 4, DistributorCode: types.Text("A"), AdjustmentType: types.Outbound},
		{RowNumber: 5, DistributorCode: types.Text("Z"), AdjustmentType: types.Outbound},
	}

	batches, err := groupBatches(rows)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, "DCG_Z.xlsx", batches[0].FileName())
	assert.Equal(t, "DCG_A.xlsx", batches[1].FileName())
	assert.Equal(t, "DCT_B.xlsx", batches[2].FileName())
	assert.Len(t, batches[0].Rows, 2)
}
