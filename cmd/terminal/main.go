package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rizkypratama/warungpos/internal/terminal"
	"github.com/rizkypratama/warungpos/internal/terminal/client"
	"github.com/rizkypratama/warungpos/pkg/config"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/logger"
	"github.com/rizkypratama/warungpos/pkg/types"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "terminal", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.LoadTerminal()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend := client.New(cfg)
	in := bufio.NewScanner(os.Stdin)

	fmt.Printf("warungpos terminal, operator %s\n", cfg.Operator)
	fmt.Print("pin: ")
	if !in.Scan() {
		return
	}
	if err := backend.Login(ctx, cfg.Operator, strings.TrimSpace(in.Text())); err != nil {
		fmt.Printf("login gagal: %s\n", errorMessage(err))
		os.Exit(1)
	}
	fmt.Println("login ok, ketik 'help' untuk daftar perintah")

	d := terminal.NewDispatcher(backend)

	for {
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		verb := strings.ToLower(fields[0])
		args := fields[1:]

		if verb == "keluar" || verb == "exit" || verb == "quit" {
			break
		}
		if verb == "help" {
			printHelp()
			continue
		}

		cmd, err := parseCommand(verb, args)
		if err != nil {
			fmt.Printf("!! %s\n", errorMessage(err))
			continue
		}

		render(d.Dispatch(ctx, cmd))
	}
}

func parseCommand(verb string, args []string) (terminal.Command, error) {
	switch verb {
	case "buka":
		cmd := terminal.Command{Kind: terminal.CmdEnsureOpen}
		if len(args) > 0 {
			cmd.Customer = args[0]
		}
		if len(args) > 1 {
			cmd.PaymentMethod = args[1]
		}
		return cmd, nil

	case "tambah":
		if len(args) < 2 {
			return terminal.Command{}, usageError("tambah SKU QTY [harga]")
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return terminal.Command{}, usageError("tambah SKU QTY [harga]")
		}
		cmd := terminal.Command{Kind: terminal.CmdAddItem, SKU: args[0], Qty: qty}
		if len(args) > 2 {
			price, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return terminal.Command{}, usageError("tambah SKU QTY [harga]")
			}
			cmd.PriceOverride = &price
		}
		return cmd, nil

	case "ubah":
		if len(args) < 2 {
			return terminal.Command{}, usageError("ubah SKU QTY")
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return terminal.Command{}, usageError("ubah SKU QTY")
		}
		return terminal.Command{Kind: terminal.CmdSetQty, SKU: args[0], Qty: qty}, nil

	case "keranjang":
		return terminal.Command{Kind: terminal.CmdShowCart}, nil

	case "kembalian":
		if len(args) < 1 {
			return terminal.Command{}, usageError("kembalian JUMLAH")
		}
		tendered, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return terminal.Command{}, usageError("kembalian JUMLAH")
		}
		return terminal.Command{Kind: terminal.CmdPreview, Tendered: tendered}, nil

	case "bayar":
		if len(args) < 1 {
			return terminal.Command{}, usageError("bayar JUMLAH [cash|qris|card]")
		}
		tendered, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return terminal.Command{}, usageError("bayar JUMLAH [cash|qris|card]")
		}
		cmd := terminal.Command{Kind: terminal.CmdPay, Tendered: tendered}
		if len(args) > 1 {
			cmd.PaymentMethod = args[1]
		}
		return cmd, nil

	case "batal":
		return terminal.Command{Kind: terminal.CmdVoid}, nil

	case "katalog":
		return terminal.Command{Kind: terminal.CmdCatalog, Query: strings.Join(args, " ")}, nil

	case "resi":
		if len(args) == 0 {
			return terminal.Command{Kind: terminal.CmdTrackActive}, nil
		}
		return terminal.Command{Kind: terminal.CmdTrackCode, TrackingCode: args[0]}, nil

	case "terima":
		if len(args) < 1 {
			return terminal.Command{}, usageError("terima KODE_RESI")
		}
		return terminal.Command{Kind: terminal.CmdDelivered, TrackingCode: args[0]}, nil
	}

	return terminal.Command{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("perintah tidak dikenal: %s", verb))
}

func render(out terminal.Outcome) {
	if out.Err != nil {
		switch out.Failure {
		case terminal.FailureStock:
			// the transaction stays open; show the shortage next to the cart
			fmt.Printf("stok kurang: %s\n", errorDetails(out.Err))
			printSnapshot(out.Snapshot)
		default:
			fmt.Printf("!! %s\n", errorMessage(out.Err))
		}
		return
	}

	if out.Receipt.Settled {
		fmt.Printf("LUNAS  total %d  kembalian %d\n", out.Receipt.Total, out.Receipt.Change)
		return
	}
	if out.Voided {
		fmt.Println("transaksi dibatalkan")
		return
	}
	if out.Catalog != nil {
		printCatalog(out.Catalog)
		return
	}
	if out.Shipments != nil {
		printShipments(out.Shipments)
		return
	}
	if out.Shipment != nil {
		printShipment(*out.Shipment)
		return
	}
	if out.Previewed {
		// zero is a real answer: tendered at or below the total
		fmt.Printf("kembalian: %d\n", out.ChangePreview)
	}
	printSnapshot(out.Snapshot)
}

func printSnapshot(s terminal.Snapshot) {
	if len(s.Items) == 0 {
		fmt.Println("(keranjang kosong)")
		return
	}
	for _, item := range s.Items {
		fmt.Printf("  %-12s %-24s %6d x%-3d = %8d\n", item.SKU, item.Nama, item.Harga, item.Qty, item.LineTotal)
	}
	fmt.Printf("  subtotal %d  ppn %d  total %d\n", s.Calc.Subtotal, s.Calc.PPN, s.Calc.Total)
}

func printCatalog(items []types.CatalogItemView) {
	if len(items) == 0 {
		fmt.Println("(tidak ada barang)")
		return
	}
	for _, item := range items {
		fmt.Printf("  %-12s %-24s harga %6d  stok %d\n", item.SKU, item.Name, item.SellPrice, item.Stock)
	}
}

func printShipments(shipments []types.ShipmentView) {
	if len(shipments) == 0 {
		fmt.Println("(tidak ada kiriman aktif)")
		return
	}
	for _, s := range shipments {
		fmt.Printf("  %-12s %-24s x%-4d %s\n", s.TrackingCode, s.ProductName, s.Quantity, s.Status)
	}
}

func printShipment(s types.ShipmentView) {
	fmt.Printf("  %s: %s x%d dari %s (%s)\n", s.TrackingCode, s.ProductName, s.Quantity, s.SupplierName, s.Status)
	for _, event := range s.Events {
		note := ""
		if event.Note != "" {
			note = " / " + event.Note
		}
		fmt.Printf("    %s  %s%s\n", event.CreatedAt.Format("2006-01-02 15:04"), event.Status, note)
	}
}

func printHelp() {
	fmt.Println(`perintah:
  buka [pelanggan] [metode]   buka transaksi baru
  tambah SKU QTY [harga]      tambah barang ke keranjang
  ubah SKU QTY                ubah jumlah (0 = hapus)
  keranjang                   tampilkan keranjang
  kembalian JUMLAH            hitung kembalian
  bayar JUMLAH [metode]       bayar transaksi
  batal                       batalkan transaksi
  katalog [cari]              daftar barang
  resi [KODE]                 kiriman aktif / riwayat resi
  terima KODE                 konfirmasi barang diterima
  keluar                      tutup terminal`)
}

func usageError(usage string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "pemakaian: "+usage)
}

func errorMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return err.Error()
}

// errorDetails renders the per-SKU shortage rows. Details decoded off the
// wire are generic JSON values, so normalize through a marshal round-trip.
func errorDetails(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Details() == nil {
		return errorMessage(err)
	}
	raw, marshalErr := json.Marshal(typed.Details())
	if marshalErr != nil {
		return errorMessage(err)
	}
	var shortages []types.StockShortage
	if json.Unmarshal(raw, &shortages) != nil || len(shortages) == 0 {
		return errorMessage(err)
	}
	parts := make([]string, 0, len(shortages))
	for _, s := range shortages {
		parts = append(parts, fmt.Sprintf("%s butuh %d stok %d", s.SKU, s.Need, s.Stock))
	}
	return strings.Join(parts, ", ")
}
