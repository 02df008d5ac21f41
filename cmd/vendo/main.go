// Command vendo runs the vending terminal as an interactive console session.
// The console layer owns all raw input parsing and rendering; the core
// packages only ever see validated, typed values.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vendo-labs/vendo/internal/catalog"
	"github.com/vendo-labs/vendo/internal/checkout"
	"github.com/vendo-labs/vendo/internal/config"
	"github.com/vendo-labs/vendo/internal/events"
	"github.com/vendo-labs/vendo/internal/money"
	"github.com/vendo-labs/vendo/internal/obs"
	"github.com/vendo-labs/vendo/internal/order"
	"github.com/vendo-labs/vendo/internal/staff"
	"github.com/vendo-labs/vendo/internal/till"
)

const separator = "--------------------------------------------------------------"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()
	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	seed := make([]catalog.Item, 0, len(cfg.CatalogSeed))
	for _, it := range cfg.CatalogSeed {
		seed = append(seed, catalog.Item{ID: it.ID, Name: it.Name, Price: it.Price, Stock: it.Stock})
	}
	cat, err := catalog.New(seed)
	if err != nil {
		logger.Fatal().Err(err).Msg("build catalog")
	}
	register, err := till.New(cfg.TillSeed())
	if err != nil {
		logger.Fatal().Err(err).Msg("build till")
	}

	bus := &events.Bus{Notifiers: []events.Notifier{&logNotifier{log: logger}}}
	purchase := &checkout.Service{
		Catalog: cat,
		Till:    register,
		Session: order.NewSession(),
		Bus:     bus,
		Log:     logger,
	}
	maintenance := &staff.Service{
		Catalog:      cat,
		Till:         register,
		PasscodeHash: cfg.StaffPasscodeHash,
		Bus:          bus,
		Log:          logger,
	}

	term := &terminal{
		in:          bufio.NewScanner(os.Stdin),
		purchase:    purchase,
		maintenance: maintenance,
		exportPath:  cfg.ExportPath,
		log:         logger,
	}
	term.run(context.Background())
}

// logNotifier mirrors domain events onto the structured log.
type logNotifier struct {
	log zerolog.Logger
}

func (n *logNotifier) Notify(_ context.Context, event events.Event) error {
	n.log.Debug().
		Str("topic", event.Topic).
		Str("session_id", event.SessionID.String()).
		RawJSON("payload", event.Payload).
		Msg("domain event")
	return nil
}

type terminal struct {
	in          *bufio.Scanner
	purchase    *checkout.Service
	maintenance *staff.Service
	exportPath  string
	log         zerolog.Logger
}

func (t *terminal) run(ctx context.Context) {
	for {
		fmt.Println("\nWelcome to the Silog Vending Terminal!")
		fmt.Println("1 - Vending Machine")
		fmt.Println("2 - Staff Maintenance")
		fmt.Println("3 - Shutdown Machine")
		switch t.promptInt("Enter your choice: ") {
		case 1:
			t.purchaseFlow(ctx)
		case 2:
			t.maintenanceFlow(ctx)
		case 3:
			fmt.Println("Shutting down.")
			return
		default:
			fmt.Println("Invalid choice. Please enter a number between 1 and 3.")
		}
	}
}

func (t *terminal) purchaseFlow(ctx context.Context) {
	t.printMenu()
	t.moneyInput(ctx)
	if !t.selectionLoop(ctx) {
		t.settle(ctx, false)
		return
	}
	if err := t.purchase.Finalize(ctx); err != nil {
		fmt.Println("You must select at least one item. Refunding.")
		t.settle(ctx, false)
		return
	}
	t.printOrder()
	confirmed := t.promptYesNo("Confirm purchase? (y/n): ")
	t.settle(ctx, confirmed)
}

func (t *terminal) moneyInput(ctx context.Context) {
	fmt.Println("Insert money into the vending machine.")
	fmt.Println("Allowed Denominations:")
	fmt.Println("Bills: 20, 50, 100, 200, 500 (PHP)")
	fmt.Println("Coins: 1, 5, 10 (PHP), 0.25, 0.10, 0.05 (Cents)")
	for {
		raw := t.prompt("\nEnter the cash denomination (0 when done): ")
		value, err := money.Parse(raw)
		if err != nil {
			fmt.Println("Invalid input! Please try again.")
			continue
		}
		if value == 0 {
			break
		}
		if !money.IsAccepted(value) {
			fmt.Println("Invalid denomination! Please try again.")
			continue
		}
		if err := t.purchase.Deposit(ctx, money.Denomination(value)); err != nil {
			fmt.Println("Invalid denomination! Please try again.")
			continue
		}
		fmt.Printf("You inserted: %s PHP\nTotal so far: %s PHP\n",
			money.Format(value), money.Format(t.purchase.InsertedFunds()))
	}
	fmt.Printf("Total money inserted: %s PHP\n%s\n", money.Format(t.purchase.InsertedFunds()), separator)
}

// selectionLoop returns false when the whole purchase was abandoned.
func (t *terminal) selectionLoop(ctx context.Context) bool {
	for {
		id := t.promptInt("\nEnter item number to order (0 when done): ")
		if id == 0 {
			return true
		}
		err := t.purchase.SelectItem(ctx, id)
		if err == nil {
			fmt.Printf("Current total cost is %s\n", money.Format(t.purchase.Session.Total()))
			continue
		}
		var short *checkout.InsufficientFundsError
		switch {
		case errors.As(err, &short):
			fmt.Printf("Insufficient funds: short by %s PHP.\n", money.Format(short.Shortfall))
			if t.promptYesNo("Insert more money? (y/n): ") {
				t.moneyInput(ctx)
				// Retry the same selection with the topped-up funds.
				if retryErr := t.purchase.SelectItem(ctx, id); retryErr != nil {
					fmt.Println("Selection still not affordable, skipping it.")
				}
			}
		case errors.Is(err, checkout.ErrOutOfStock):
			fmt.Println("Sorry, that item is currently out of stock!")
		case errors.Is(err, catalog.ErrNotFound):
			fmt.Println("Invalid item number! Please try again.")
		default:
			t.log.Error().Err(err).Msg("selection failed")
			return false
		}
	}
}

func (t *terminal) settle(ctx context.Context, confirmed bool) {
	res, err := t.purchase.Settle(ctx, confirmed)
	if err != nil {
		t.log.Error().Err(err).Msg("settlement failed")
		return
	}
	switch res.Outcome {
	case checkout.OutcomeCommitted:
		fmt.Printf("\nTransaction completed. Total: %s PHP\n", money.Format(res.Total))
		if res.Change > 0 {
			fmt.Printf("Change: %s PHP\n", money.Format(res.Change))
			printBreakdown(res.Breakdown)
		}
	case checkout.OutcomeCancelled:
		fmt.Printf("\nOrder cancelled. Refund: %s PHP\n", money.Format(res.Refund))
	case checkout.OutcomeChangeShortfall:
		fmt.Printf("\nUnable to dispense exact change (%s PHP short). Order rolled back, refund: %s PHP\n",
			money.Format(res.Remainder), money.Format(res.Refund))
	}
}

func (t *terminal) maintenanceFlow(ctx context.Context) {
	if err := t.maintenance.Unlock(t.prompt("\nInput maintenance passcode: ")); err != nil {
		fmt.Println("Incorrect passcode, please try again.")
		return
	}
	defer t.maintenance.Lock()
	fmt.Println("Access Granted")

	for {
		fmt.Println("\nMaintenance Features")
		fmt.Println("1 - View Inventory")
		fmt.Println("2 - Set Item Price")
		fmt.Println("3 - Restock Item")
		fmt.Println("4 - View Cash Register")
		fmt.Println("5 - Restock Cash Register")
		fmt.Println("6 - Cash Out (by amount)")
		fmt.Println("7 - Cash Out (by denomination)")
		fmt.Println("8 - Export Inventory CSV")
		fmt.Println("0 - Back")
		switch t.promptInt("Enter your choice: ") {
		case 0:
			return
		case 1:
			t.printMenu()
		case 2:
			id := t.promptInt("Enter the item number to modify: ")
			price, err := money.Parse(t.prompt("Enter the new price: "))
			if err != nil {
				fmt.Println("Invalid price input.")
				continue
			}
			t.report(t.maintenance.SetPrice(ctx, id, price), "Price updated successfully!")
		case 3:
			id := t.promptInt("Input item number to modify: ")
			qty := t.promptInt("Input stock to add: ")
			t.report(t.maintenance.RestockItem(ctx, id, qty), "Stock updated successfully.")
		case 4:
			t.printRegister()
		case 5:
			value, err := money.Parse(t.prompt("Enter the denomination to restock: "))
			if err != nil {
				fmt.Println("Invalid denomination input.")
				continue
			}
			qty := t.promptInt("Enter the quantity to add: ")
			t.report(t.maintenance.RestockRegister(ctx, money.Denomination(value), qty), "Register restocked.")
		case 6:
			amount, err := money.Parse(t.prompt("Enter the amount you wish to claim: "))
			if err != nil {
				fmt.Println("Invalid amount input.")
				continue
			}
			breakdown, err := t.maintenance.CashOutAmount(ctx, amount)
			if err != nil {
				fmt.Println("Unable to dispense exact stated amount. Operation canceled.")
				continue
			}
			fmt.Println("Dispensed denominations:")
			printBreakdown(breakdown)
		case 7:
			value, err := money.Parse(t.prompt("Enter the denomination to claim: "))
			if err != nil {
				fmt.Println("Invalid denomination input.")
				continue
			}
			qty := t.promptInt("Enter the quantity to claim: ")
			t.report(t.maintenance.CashOutDenomination(ctx, money.Denomination(value), qty), "Cash out completed.")
		case 8:
			t.exportInventory(ctx)
		default:
			fmt.Println("Invalid choice.")
		}
	}
}

func (t *terminal) exportInventory(ctx context.Context) {
	if err := os.MkdirAll(filepath.Dir(t.exportPath), 0o755); err != nil {
		fmt.Println("Error preparing export directory:", err)
		return
	}
	f, err := os.Create(t.exportPath)
	if err != nil {
		fmt.Println("Error opening file for writing:", err)
		return
	}
	defer f.Close()
	if err := t.maintenance.ExportInventory(ctx, f); err != nil {
		fmt.Println("Export failed:", err)
		return
	}
	fmt.Printf("Data saved to %s successfully.\n", t.exportPath)
}

func (t *terminal) printMenu() {
	fmt.Printf("\n%-12s | %-15s | %-11s | %-10s\n", "Item Number", "Item Name", "Price (PHP)", "Stock Left")
	fmt.Println(separator)
	for _, it := range t.purchase.Catalog.ListAll() {
		fmt.Printf("%-12d | %-15s | %-11s | %-3d", it.ID, it.Name, money.Format(it.Price), it.Stock)
		if it.Stock == 0 {
			fmt.Print(" Out of Stock")
		}
		fmt.Println()
	}
	fmt.Println(separator)
}

func (t *terminal) printOrder() {
	fmt.Printf("\nYou have selected:\n%-15s | %-10s | %-10s\n", "Item Name", "Quantity", "Total Cost")
	fmt.Println(separator)
	for _, line := range t.purchase.Session.Lines() {
		fmt.Printf("%-15s | %-10d | %-10s\n", line.Name, line.Quantity, money.Format(line.Subtotal))
	}
	fmt.Println(separator)
	fmt.Printf("Final Total: %s\n", money.Format(t.purchase.Session.Total()))
}

func (t *terminal) printRegister() {
	snapshot, err := t.maintenance.RegisterSnapshot()
	if err != nil {
		fmt.Println("Unable to read register:", err)
		return
	}
	fmt.Printf("\n%-18s | %-11s | %-17s\n", "Denomination (PHP)", "Amount Left", "Total Value (PHP)")
	fmt.Println(separator)
	for _, slot := range snapshot {
		value := money.Amount(slot.Denomination) * money.Amount(slot.Count)
		fmt.Printf("%-18s | %-11d | %-17s\n", money.Format(money.Amount(slot.Denomination)), slot.Count, money.Format(value))
	}
	fmt.Println(separator)
	total, err := t.maintenance.RegisterTotal()
	if err == nil {
		fmt.Printf("Total Cash in Register: PHP %s\n", money.Format(total))
	}
}

func printBreakdown(breakdown till.Breakdown) {
	for _, d := range breakdown {
		fmt.Printf("%d x PHP %s\n", d.Count, money.Format(money.Amount(d.Denomination)))
	}
}

func (t *terminal) report(err error, success string) {
	if err != nil {
		fmt.Println("Operation failed:", err)
		return
	}
	fmt.Println(success)
}

func (t *terminal) prompt(label string) string {
	fmt.Print(label)
	if !t.in.Scan() {
		return ""
	}
	return strings.TrimSpace(t.in.Text())
}

func (t *terminal) promptInt(label string) int {
	n, err := strconv.Atoi(t.prompt(label))
	if err != nil {
		return -1
	}
	return n
}

func (t *terminal) promptYesNo(label string) bool {
	answer := strings.ToLower(t.prompt(label))
	return answer == "y" || answer == "yes"
}
