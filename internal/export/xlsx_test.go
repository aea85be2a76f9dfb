package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
)

func TestWriteScansXLSX(t *testing.T) {
	shipment := fbo.Shipment{ID: 1, PublicID: "SHP-000001", SourceName: "Alibaba"}
	scans := []fbo.ScanEvent{
		{ID: 11, Barcode: "4600000000011", BoxNo: 2, CreatedAt: "2024-01-02T10:00:00Z", CreatedByUserID: 7},
		{ID: 10, Barcode: "<b>x</b>", BoxNo: 1, CreatedAt: "2024-01-02T09:00:00Z", CreatedByUserID: 7},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteScansXLSX(&buf, shipment, scans))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "Scans", f.GetSheetName(0))
	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Barcode", "Box", "Created at", "Created by"},
		{"11", "4600000000011", "2", "2024-01-02T10:00:00Z", "7"},
		{"10", "<b>x</b>", "1", "2024-01-02T09:00:00Z", "7"},
	}, rows)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Scans SHP-000001", props.Title)
}

func TestWriteScansXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScansXLSX(&buf, fbo.Shipment{ID: 3}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "scans-SHP-000001.xlsx", FileName(fbo.Shipment{ID: 1, PublicID: "SHP-000001"}))
	assert.Equal(t, "scans-5.xlsx", FileName(fbo.Shipment{ID: 5, PublicID: "../"}))
}
