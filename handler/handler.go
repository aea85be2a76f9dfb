// Package handler implements the interactive fboctl shell on top of the
// shipment console.
package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/export"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/profile"
)

// Prompter prints alerts and asks yes/no questions on the terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in *bufio.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

func (p *Prompter) Alert(msg string) {
	fmt.Fprintln(p.out, "Error:", msg)
}

func (p *Prompter) Confirm(msg string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", msg)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ScanLister fetches the scans exported by the export command.
type ScanLister interface {
	RecentScans(ctx context.Context, shipmentID int64) ([]fbo.ScanEvent, error)
}

type Handler struct {
	console *console.Console
	profile *profile.Editor
	scans   ScanLister
	in      *bufio.Reader
	out     io.Writer
}

func New(c *console.Console, p *profile.Editor, scans ScanLister, in *bufio.Reader, out io.Writer) *Handler {
	return &Handler{console: c, profile: p, scans: scans, in: in, out: out}
}

// Run reads commands until exit, end of input or ctx cancellation.
func (h *Handler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(h.out, "fbo> ")
		line, err := h.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if !h.Handle(ctx, line) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(h.out)
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
	}
}

// Handle executes one command line and reports whether the shell should
// keep running.
func (h *Handler) Handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		h.HandleHelp()
	case "status":
		h.printStatus()
	case "refresh":
		h.mutate(h.console.Refresh(ctx))
	case "sources":
		h.printSources()
	case "source-add":
		h.mutate(h.console.CreateSource(ctx, strings.Join(args, " ")))
	case "source-rm":
		h.withID(args, "source-rm <sourceID>", func(id int64) error { return h.console.DeleteSource(ctx, id) })
	case "warehouses":
		h.printWarehouses()
	case "warehouse-add":
		h.mutate(h.console.CreateWarehouse(ctx, strings.Join(args, " ")))
	case "warehouse-rm":
		h.withID(args, "warehouse-rm <warehouseID>", func(id int64) error { return h.console.DeleteWarehouse(ctx, id) })
	case "shipments":
		h.printShipments()
	case "shipment-add":
		h.handleShipmentAdd(ctx, args)
	case "shipment-rm":
		h.withID(args, "shipment-rm <shipmentID>", func(id int64) error { return h.console.DeleteShipment(ctx, id) })
	case "use-shipment":
		h.withID(args, "use-shipment <shipmentID>", func(id int64) error { return h.console.SelectShipment(ctx, id) })
	case "attach":
		h.handleAttach(ctx, args)
	case "sw-rm":
		h.withID(args, "sw-rm <shipmentWarehouseID>", func(id int64) error { return h.console.DeleteShipmentWarehouse(ctx, id) })
	case "use-sw":
		h.withID(args, "use-sw <shipmentWarehouseID>", func(id int64) error { return h.console.SelectShipmentWarehouse(ctx, id) })
	case "box-add":
		h.mutate(h.console.CreateBox(ctx))
	case "box-rm":
		h.withID(args, "box-rm <boxID>", func(id int64) error { return h.console.DeleteBox(ctx, id) })
	case "use-box":
		h.withID(args, "use-box <boxID>", func(id int64) error { return h.console.SelectBox(ctx, id) })
	case "scan":
		h.mutate(h.console.Scan(ctx, strings.Join(args, " ")))
	case "scan-rm":
		h.withID(args, "scan-rm <scanID>", func(id int64) error { return h.console.DeleteScan(ctx, id) })
	case "undo":
		h.mutate(h.console.UndoLastScan(ctx))
	case "profile":
		h.handleProfile(ctx)
	case "profile-set":
		h.handleProfileSet(ctx, args)
	case "export":
		h.handleExport(ctx, args)
	case "exit", "quit":
		return false
	default:
		fmt.Fprintf(h.out, "Unknown command %q. Type 'help' for the list.\n", cmd)
	}
	return true
}

func (h *Handler) HandleHelp() {
	fmt.Fprintln(h.out, `Available commands:
	status - Show the active shipment, warehouse and box
	refresh - Reload every list
	sources | warehouses | shipments - List items
	source-add <name> / source-rm <sourceID>
	warehouse-add <name> / warehouse-rm <warehouseID>
	shipment-add [sourceID] / shipment-rm <shipmentID> / use-shipment <shipmentID>
	attach <warehouseID> [wbCode] / sw-rm <id> / use-sw <id>
	box-add / box-rm <boxID> / use-box <boxID>
	scan <barcode> / scan-rm <scanID> / undo
	profile - Show profile
	profile-set [username=..] [phone=..] [language=..] - Update profile
	export <shipmentID> <file.xlsx> - Save recent scans as a spreadsheet
	exit - Exit program`)
}

// mutate prints the new status after a successful action. Failures were
// already shown by the prompter.
func (h *Handler) mutate(err error) {
	if err == nil {
		h.printStatus()
	}
}

func (h *Handler) withID(args []string, usage string, fn func(id int64) error) {
	if len(args) != 1 {
		fmt.Fprintln(h.out, "Usage:", usage)
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintln(h.out, "Invalid id:", args[0])
		return
	}
	h.mutate(fn(id))
}

func (h *Handler) handleShipmentAdd(ctx context.Context, args []string) {
	sourceID := h.console.State().SelectedSourceID
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintln(h.out, "Invalid source id:", args[0])
			return
		}
		sourceID = id
	}
	h.mutate(h.console.CreateShipment(ctx, sourceID))
}

func (h *Handler) handleAttach(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(h.out, "Usage: attach <warehouseID> [wbCode]")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(h.out, "Invalid warehouse id:", args[0])
		return
	}
	wbCode := ""
	if len(args) == 2 {
		wbCode = args[1]
	}
	h.mutate(h.console.AttachWarehouse(ctx, id, wbCode))
}

func (h *Handler) handleProfile(ctx context.Context) {
	p, err := h.profile.Load(ctx)
	if err != nil {
		fmt.Fprintln(h.out, "Error:", err)
		return
	}
	h.printProfile(p)
}

func (h *Handler) handleProfileSet(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(h.out, "Usage: profile-set [username=..] [phone=..] [language=..]")
		return
	}
	current, err := h.profile.Load(ctx)
	if err != nil {
		fmt.Fprintln(h.out, "Error:", err)
		return
	}

	form := profile.Form{
		ID:       current.ID,
		Username: current.Username,
		Phone:    current.Phone,
		Language: current.Language,
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintln(h.out, "Expected key=value, got:", arg)
			return
		}
		switch key {
		case "username":
			form.Username = value
		case "phone":
			form.Phone = value
		case "language":
			form.Language = value
		default:
			fmt.Fprintln(h.out, "Unknown profile field:", key)
			return
		}
	}

	saved, err := h.profile.Save(ctx, form)
	if err != nil {
		fmt.Fprintln(h.out, "Error:", err)
		return
	}
	fmt.Fprintln(h.out, "Profile saved")
	h.printProfile(saved)
}

func (h *Handler) handleExport(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(h.out, "Usage: export <shipmentID> <file.xlsx>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(h.out, "Invalid shipment id:", args[0])
		return
	}

	var shipment *fbo.Shipment
	for _, s := range h.console.State().Shipments {
		if s.ID == id {
			shipment = &s
			break
		}
	}
	if shipment == nil {
		fmt.Fprintln(h.out, "Error: shipment", id, "is not listed")
		return
	}

	scans, err := h.scans.RecentScans(ctx, id)
	if err != nil {
		fmt.Fprintln(h.out, "Error:", err)
		return
	}

	f, err := os.Create(args[1])
	if err != nil {
		fmt.Fprintln(h.out, "Error:", err)
		return
	}
	defer f.Close()

	if err := export.WriteScansXLSX(f, *shipment, scans); err != nil {
		fmt.Fprintln(h.out, "Error:", err)
		return
	}
	fmt.Fprintf(h.out, "Exported %d scans to %s\n", len(scans), args[1])
}

func (h *Handler) printStatus() {
	st := h.console.State()
	fmt.Fprintf(h.out, "Shipment: %s | Warehouse: %s | Box: %s\n",
		st.ShipmentLabel(), st.ShipmentWarehouseLabel(), st.BoxLabel())
	if st.ActiveBoxID != 0 {
		for _, s := range st.Scans {
			fmt.Fprintf(h.out, "  scan %d: %s (box #%d, %s)\n", s.ID, s.Barcode, s.BoxNo, s.CreatedAt)
		}
	}
}

func (h *Handler) printSources() {
	st := h.console.State()
	if len(st.Sources) == 0 {
		fmt.Fprintln(h.out, "No sources")
		return
	}
	for _, s := range st.Sources {
		fmt.Fprintf(h.out, "%s %d: %s\n", marker(s.ID == st.SelectedSourceID), s.ID, s.Name)
	}
}

func (h *Handler) printWarehouses() {
	st := h.console.State()
	if len(st.Warehouses) == 0 {
		fmt.Fprintln(h.out, "No warehouses")
		return
	}
	for _, w := range st.Warehouses {
		fmt.Fprintf(h.out, "%s %d: %s\n", marker(w.ID == st.SelectedWarehouseID), w.ID, w.Name)
	}
}

func (h *Handler) printShipments() {
	st := h.console.State()
	if len(st.Shipments) == 0 {
		fmt.Fprintln(h.out, "No shipments")
		return
	}
	for _, s := range st.Shipments {
		fmt.Fprintf(h.out, "%s %d: %s from %s, %s, %d warehouses\n",
			marker(s.ID == st.ActiveShipmentID), s.ID, s.PublicID, s.SourceName, s.Status, s.WarehousesCount)
	}
	for _, sw := range st.ShipmentWarehouses {
		fmt.Fprintf(h.out, "    %s sw %d: %s / %s\n", marker(sw.ID == st.ActiveShipmentWarehouseID), sw.ID, sw.WarehouseName, sw.WBCode)
	}
	for _, b := range st.Boxes {
		fmt.Fprintf(h.out, "        %s box %d: #%d\n", marker(b.ID == st.ActiveBoxID), b.ID, b.BoxNo)
	}
}

func (h *Handler) printProfile(p *fbo.Profile) {
	fmt.Fprintf(h.out, "ID:       %d\n", p.ID)
	fmt.Fprintf(h.out, "Username: %s\n", p.Username)
	fmt.Fprintf(h.out, "Email:    %s\n", p.Email)
	fmt.Fprintf(h.out, "Phone:    %s\n", p.Phone)
	fmt.Fprintf(h.out, "Language: %s\n", p.Language)
}

func marker(active bool) string {
	if active {
		return "*"
	}
	return " "
}
