package handler

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo/fbotest"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/localstore"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/profile"
)

const token = "cli-token"

// runScript feeds input to a fresh shell and returns everything it printed.
func runScript(t *testing.T, backend *fbotest.Backend, input string) string {
	t.Helper()
	ctx := auth.WithCookieToken(context.Background(), token)

	store := localstore.NewMemoryStore()
	api := fbo.NewClient(backend.URL(), nil, nil).WithTokenSource(auth.NewResolver(store, "cli"))

	in := bufio.NewReader(strings.NewReader(input))
	var out bytes.Buffer
	c := console.New(api, NewPrompter(in, &out), nil)
	_ = c.Init(ctx)

	h := New(c, profile.NewEditor(api, store, "cli", nil), api, in, &out)
	require.NoError(t, h.Run(ctx))
	return out.String()
}

func TestShell_SourceLifecycle(t *testing.T) {
	backend := fbotest.New(t, token)

	out := runScript(t, backend, "source-add Alibaba Group\nsources\nsource-rm 1\ny\nsources\nexit\n")

	assert.Contains(t, out, "* 1: Alibaba Group")
	assert.Contains(t, out, "Delete this source? [y/N]: ")
	assert.Contains(t, out, "No sources")
}

func TestShell_DeclinedDeleteKeepsSource(t *testing.T) {
	backend := fbotest.New(t, token)
	backend.AddSource("Alibaba")

	out := runScript(t, backend, "source-rm 1\nn\nsources\n")

	assert.Contains(t, out, "* 1: Alibaba")
	assert.NotContains(t, out, "Error:")
}

func TestShell_ValidationAndUsage(t *testing.T) {
	backend := fbotest.New(t, token)

	out := runScript(t, backend, "shipment-add\nscan\nsource-rm\nuse-box abc\nbogus\n")

	assert.Contains(t, out, "Error: "+console.ErrNoSource.Error())
	assert.Contains(t, out, "Error: "+console.ErrNoBox.Error())
	assert.Contains(t, out, "Usage: source-rm <sourceID>")
	assert.Contains(t, out, "Invalid id: abc")
	assert.Contains(t, out, `Unknown command "bogus"`)
}

func TestShell_ShipmentFlowAndExport(t *testing.T) {
	backend := fbotest.New(t, token)
	src := backend.AddSource("Alibaba")
	wh := backend.AddWarehouse("Koledino")
	file := filepath.Join(t.TempDir(), "scans.xlsx")

	script := strings.Join([]string{
		"shipment-add " + itoa(src.ID),
		"attach " + itoa(wh.ID) + " WB-7",
		"box-add",
		"scan 4600000000001",
		"scan 4600000000002",
		"undo",
		"export 3 " + file,
		"exit",
	}, "\n") + "\n"

	out := runScript(t, backend, script)

	assert.Contains(t, out, "Warehouse: Koledino / WB-7 | Box: Box #1")
	assert.Contains(t, out, "4600000000001")
	assert.Contains(t, out, "Exported 1 scans to "+file)

	f, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "4600000000001", rows[1][1])
}

func TestShell_Profile(t *testing.T) {
	backend := fbotest.New(t, token)

	out := runScript(t, backend, "profile-set phone=123 language=en\nprofile\nprofile-set nickname=x\n")

	assert.Contains(t, out, "Profile saved")
	assert.Contains(t, out, "Phone:    123")
	assert.Contains(t, out, "Language: en")
	assert.Contains(t, out, "Email:    operator@example.com")
	assert.Contains(t, out, "Unknown profile field: nickname")
}

func TestShell_MissingToken(t *testing.T) {
	backend := fbotest.New(t, token)
	store := localstore.NewMemoryStore()
	api := fbo.NewClient(backend.URL(), nil, nil).WithTokenSource(auth.NewResolver(store, "cli"))

	in := bufio.NewReader(strings.NewReader("sources\n"))
	var out bytes.Buffer
	c := console.New(api, NewPrompter(in, &out), nil)
	require.Error(t, c.Init(context.Background()))

	require.NoError(t, New(c, profile.NewEditor(api, store, "cli", nil), api, in, &out).Run(context.Background()))
	assert.Contains(t, out.String(), "Error: "+fbo.MsgAuthRequired)
	assert.Contains(t, out.String(), "No sources")
	assert.Empty(t, backend.Requests())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
